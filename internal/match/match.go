// Package match extracts payment-order identifiers from PDF filenames.
//
// Conforming filenames end with two hyphen-separated numeric groups before
// the extension, e.g. "FACTURA-123-456.pdf". The identifier is the two groups
// joined by a hyphen ("123-456"); for display it is prefixed with the account
// tag, giving "JC-PIC-123-456".
package match

import (
	"path/filepath"
	"regexp"
)

// DefaultTagPrefix is the literal prefix the backend expects on rendered
// account identifiers.
const DefaultTagPrefix = "JC-PIC-"

// identifierPattern matches the trailing -<digits>-<digits>.pdf of a
// filename. The extension comparison is case-insensitive; the match anchors
// at the end of the name so only the last two numeric groups count.
var identifierPattern = regexp.MustCompile(`(?i)-(\d+-\d+)\.pdf$`)

// Result holds the outcome of matching a single filename.
type Result struct {
	// SourceFileName is the base name the match ran against.
	SourceFileName string
	// Identifier is the raw two-group token (e.g. "123-456"), or empty when
	// the filename does not conform. Use Matched to distinguish.
	Identifier string
	// Matched reports whether the filename conformed to the pattern.
	Matched bool
}

// Matcher extracts identifiers and renders them with a configurable tag
// prefix. The zero value is not usable; construct with NewMatcher.
type Matcher struct {
	prefix string
}

// NewMatcher returns a Matcher rendering identifiers with the given tag
// prefix. An empty prefix falls back to DefaultTagPrefix.
func NewMatcher(prefix string) *Matcher {
	if prefix == "" {
		prefix = DefaultTagPrefix
	}
	return &Matcher{prefix: prefix}
}

// Match applies the identifier pattern to the base name of path. An
// unmatched filename is an expected condition, not an error: the returned
// Result has Matched set to false.
func (m *Matcher) Match(path string) Result {
	name := filepath.Base(path)
	result := Result{SourceFileName: name}

	groups := identifierPattern.FindStringSubmatch(name)
	if groups == nil {
		return result
	}

	result.Identifier = groups[1]
	result.Matched = true
	return result
}

// Render composes the display form of a raw identifier by prefixing the tag.
// It is a pure string operation.
func (m *Matcher) Render(identifier string) string {
	return m.prefix + identifier
}
