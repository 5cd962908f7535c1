// Package manifest parses Markdown checklists of expected payment-order
// identifiers and reconciles them against a collected batch.
//
// A manifest lists one identifier per list item, with or without the display
// tag and an optional task checkbox:
//
//	# Órdenes esperadas
//	- [ ] JC-PIC-123-456
//	- 789-1011
//
// Anything in a list item that does not look like an identifier is ignored.
package manifest

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// identifierForm validates one manifest entry after the optional tag prefix
// and checkbox have been stripped.
var identifierForm = regexp.MustCompile(`^\d+-\d+$`)

// checkboxPrefix strips a leading Markdown task checkbox from item text.
var checkboxPrefix = regexp.MustCompile(`^\[[ xX]\]\s*`)

// Manifest holds the expected identifiers in document order, deduplicated.
type Manifest struct {
	Identifiers []string
}

// Reconciliation compares a manifest with the identifiers collected from a
// batch.
type Reconciliation struct {
	// Present are manifest identifiers found in the batch.
	Present []string
	// Missing are manifest identifiers absent from the batch.
	Missing []string
	// Unexpected are batch identifiers the manifest does not list.
	Unexpected []string
}

// ParseFile reads and parses a manifest from disk. Identifiers carrying the
// given tag prefix are normalized to their raw form.
func ParseFile(path, tagPrefix string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return Parse(data, tagPrefix)
}

// Parse extracts expected identifiers from Markdown list items.
func Parse(data []byte, tagPrefix string) (*Manifest, error) {
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(data))

	var (
		identifiers []string
		seen        = make(map[string]bool)
	)

	err := ast.Walk(root, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		item, ok := node.(*ast.ListItem)
		if !ok {
			return ast.WalkContinue, nil
		}

		id, ok := parseItem(itemText(item, data), tagPrefix)
		if ok && !seen[id] {
			identifiers = append(identifiers, id)
			seen[id] = true
		}
		// Keep walking: nested list items carry their own identifiers.
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk manifest: %w", err)
	}

	return &Manifest{Identifiers: identifiers}, nil
}

// Reconcile splits the manifest and the collected identifiers into present,
// missing, and unexpected groups. Order follows the manifest for the first
// two and the batch for the last.
func (m *Manifest) Reconcile(collected []string) Reconciliation {
	inBatch := make(map[string]bool, len(collected))
	for _, id := range collected {
		inBatch[id] = true
	}
	expected := make(map[string]bool, len(m.Identifiers))
	for _, id := range m.Identifiers {
		expected[id] = true
	}

	var rec Reconciliation
	for _, id := range m.Identifiers {
		if inBatch[id] {
			rec.Present = append(rec.Present, id)
		} else {
			rec.Missing = append(rec.Missing, id)
		}
	}

	seen := make(map[string]bool)
	for _, id := range collected {
		if !expected[id] && !seen[id] {
			rec.Unexpected = append(rec.Unexpected, id)
			seen[id] = true
		}
	}
	return rec
}

// parseItem normalizes one list item to a raw identifier, reporting whether
// the item names one at all.
func parseItem(raw, tagPrefix string) (string, bool) {
	s := strings.TrimSpace(raw)
	s = checkboxPrefix.ReplaceAllString(s, "")
	if tagPrefix != "" {
		s = strings.TrimPrefix(s, tagPrefix)
	}
	s = strings.TrimSpace(s)
	if !identifierForm.MatchString(s) {
		return "", false
	}
	return s, true
}

// itemText collects the plain text of a list item, ignoring nested lists so
// a parent item's label never absorbs its children.
func itemText(item ast.Node, source []byte) string {
	var sb strings.Builder
	for child := item.FirstChild(); child != nil; child = child.NextSibling() {
		if _, ok := child.(*ast.List); ok {
			continue
		}
		collectText(child, source, &sb)
	}
	return sb.String()
}

func collectText(node ast.Node, source []byte, sb *strings.Builder) {
	if t, ok := node.(*ast.Text); ok {
		sb.Write(t.Segment.Value(source))
		return
	}
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		collectText(child, source, sb)
	}
}
