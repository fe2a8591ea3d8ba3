package doctree

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var versionFile string

// Version is the current version of the doctree library/server.
var Version = strings.TrimSpace(versionFile)
