package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sharedcode/doctree"
)

// File reads documents from a directory. Addresses are slash separated paths relative to Dir.
type File struct {
	Dir string
}

// NewFile returns a File source rooted at dir.
func NewFile(dir string) *File {
	return &File{Dir: dir}
}

func (f *File) Fetch(ctx context.Context, address string) (doctree.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	clean := filepath.Clean(filepath.FromSlash(address))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return nil, fmt.Errorf("address %s escapes the source directory", address)
	}
	ba, err := os.ReadFile(filepath.Join(f.Dir, clean))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", address, doctree.ErrDocumentNotFound)
	}
	if err != nil {
		return nil, err
	}
	return Decode(address, ba)
}
