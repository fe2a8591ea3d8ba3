// Package navexpr parses search bar queries such as "(ESV) Genesis 3" into tree destinations.
//
// A query is read against a list of Levels, one per tree depth below the root. Parsing
// starts at the shallowest level whose pattern matches; everything above it is taken from
// the current nav spot, so "4" typed while reading Genesis 3 goes to Genesis 4.
package navexpr

import (
	"errors"
	"regexp"
	"strings"

	"github.com/sharedcode/doctree"
	"github.com/sharedcode/doctree/node"
	"github.com/sharedcode/doctree/tree"
)

// ErrEmptyQuery is returned for a blank query; callers normally stay where they are.
var ErrEmptyQuery = errors.New("empty query")

const couldNotParse = ": I did not know what to do with this."

// Level describes how one tree depth is written in a query.
type Level struct {
	Name string
	// Match finds the level's key in the query, capture group 1 is the key.
	Match *regexp.Regexp
	// Strip removes every occurrence of the level's token from the query once matched.
	Strip *regexp.Regexp
	// ErrorText is appended to the unparsed remainder when the level expected a match.
	ErrorText string
	// Prefix is put in front of a node's title by LocationTag, e.g. "Chapter".
	Prefix string
}

// DefaultLevels is the translation / book / chapter layout of the sample data set.
func DefaultLevels() []Level {
	return []Level{
		{
			Name:      "translation",
			Match:     regexp.MustCompile(`(?i)\(([A-Z]+)\)`),
			Strip:     regexp.MustCompile(`(?i)\([A-Z]+\)`),
			ErrorText: ": I didn't recognize this as a translation you own.",
		},
		{
			Name:      "book",
			Match:     regexp.MustCompile(`(?i)((?:[0-9]\s)?[A-Z|\s]+)`),
			Strip:     regexp.MustCompile(`(?i)(?:[0-9]\s)?[A-Z|\s]+`),
			ErrorText: ": I didn't recognize this as a book in the Bible.",
		},
		{
			Name:      "chapter",
			Match:     regexp.MustCompile(`([0-9]+)`),
			Strip:     regexp.MustCompile(`[0-9]+`),
			ErrorText: ": I didn't recognize this as a valid chapter number.",
			Prefix:    "Chapter",
		},
	}
}

// ParseError carries the message shown to the user.
type ParseError struct {
	Text string
}

func (e *ParseError) Error() string {
	return e.Text
}

// Parser turns queries into Destinations.
type Parser struct {
	Levels []Level
}

// NewParser returns a Parser over levels, DefaultLevels when none are given.
func NewParser(levels ...Level) *Parser {
	if len(levels) == 0 {
		levels = DefaultLevels()
	}
	return &Parser{Levels: levels}
}

// Parse reads query relative to the nav spot whose ancestry (root first, nav spot last)
// is given. The returned Destination ends in a single Endpoint(true).
func (p *Parser) Parse(query string, ancestry []*node.Node) (tree.Destination, error) {
	str := strings.TrimSpace(query)
	if str == "" {
		return tree.Destination{}, ErrEmptyQuery
	}
	if len(ancestry) == 0 {
		return tree.Destination{}, doctree.NewError(doctree.InvalidArgument, nil, "no nav spot")
	}
	spotLevel := len(ancestry) - 1
	for level := range p.Levels {
		m := p.Levels[level].Match.FindStringSubmatch(str)
		if m == nil {
			if spotLevel < level {
				break
			}
			continue
		}
		if level > spotLevel {
			break
		}
		rest := strings.TrimSpace(p.Levels[level].Strip.ReplaceAllString(str, ""))
		hop, err := p.parseRest(rest, level+1)
		if err != nil {
			return tree.Destination{}, doctree.NewError(doctree.InvalidArgument, err, query)
		}
		return tree.Destination{
			Root: ancestry[level],
			Path: tree.Path{strings.TrimSpace(m[1]): hop},
		}, nil
	}
	return tree.Destination{}, doctree.NewError(doctree.InvalidArgument, &ParseError{Text: str + couldNotParse}, query)
}

// parseRest reads the remainder after the first match; every following level must match.
func (p *Parser) parseRest(str string, level int) (tree.Hop, error) {
	if str == "" {
		return tree.Endpoint(true), nil
	}
	if level >= len(p.Levels) {
		return nil, &ParseError{Text: str + couldNotParse}
	}
	l := p.Levels[level]
	m := l.Match.FindStringSubmatch(str)
	if m == nil {
		return nil, &ParseError{Text: str + l.ErrorText}
	}
	rest := strings.TrimSpace(l.Strip.ReplaceAllString(str, ""))
	hop, err := p.parseRest(rest, level+1)
	if err != nil {
		return nil, err
	}
	return tree.Path{strings.TrimSpace(m[1]): hop}, nil
}

// LocationTag is the label of a node in the location bar: its title, preceded by the
// level's prefix if any.
func (p *Parser) LocationTag(v tree.View) string {
	title, _ := v.Properties["title"].(string)
	if title == "" {
		title = v.Key
	}
	// Levels start below the root.
	i := v.Level - 1
	if i >= 0 && i < len(p.Levels) && p.Levels[i].Prefix != "" {
		return p.Levels[i].Prefix + " " + title
	}
	return title
}
