package manifest

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestParseExtractsIdentifiers(t *testing.T) {
	doc := `# Órdenes esperadas

Notas introductorias.

- JC-PIC-123-456
- [ ] 789-1011
- [x] JC-PIC-22-33
- duplicado 123-456 con texto extra
- JC-PIC-123-456
- no es identificador
`

	m, err := Parse([]byte(doc), "JC-PIC-")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	want := []string{"123-456", "789-1011", "22-33"}
	if !reflect.DeepEqual(m.Identifiers, want) {
		t.Fatalf("Identifiers = %v, want %v", m.Identifiers, want)
	}
}

func TestParseNestedLists(t *testing.T) {
	doc := `- 1-1
  - 2-2
  - 3-3
- 4-4
`

	m, err := Parse([]byte(doc), "")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	want := []string{"1-1", "2-2", "3-3", "4-4"}
	if !reflect.DeepEqual(m.Identifiers, want) {
		t.Fatalf("Identifiers = %v, want %v", m.Identifiers, want)
	}
}

func TestParseEmptyDocument(t *testing.T) {
	m, err := Parse([]byte("# Sin lista\n\nSolo prosa.\n"), "JC-PIC-")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(m.Identifiers) != 0 {
		t.Fatalf("Identifiers = %v, want none", m.Identifiers)
	}
}

func TestParseFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "esperadas.md")
	if err := os.WriteFile(path, []byte("- JC-PIC-5-6\n"), 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	m, err := ParseFile(path, "JC-PIC-")
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if len(m.Identifiers) != 1 || m.Identifiers[0] != "5-6" {
		t.Fatalf("Identifiers = %v, want [5-6]", m.Identifiers)
	}

	if _, err := ParseFile(filepath.Join(tmpDir, "missing.md"), ""); err == nil {
		t.Fatalf("expected error for missing manifest")
	}
}

func TestReconcilePartialOverlap(t *testing.T) {
	m := &Manifest{Identifiers: []string{"1-1", "2-2", "3-3"}}

	rec := m.Reconcile([]string{"2-2", "9-9", "2-2", "8-8"})

	if !reflect.DeepEqual(rec.Present, []string{"2-2"}) {
		t.Fatalf("Present = %v", rec.Present)
	}
	if !reflect.DeepEqual(rec.Missing, []string{"1-1", "3-3"}) {
		t.Fatalf("Missing = %v", rec.Missing)
	}
	if !reflect.DeepEqual(rec.Unexpected, []string{"9-9", "8-8"}) {
		t.Fatalf("Unexpected = %v", rec.Unexpected)
	}
}

func TestReconcileEmptySides(t *testing.T) {
	empty := &Manifest{}
	rec := empty.Reconcile([]string{"1-1"})
	if len(rec.Present) != 0 || len(rec.Missing) != 0 {
		t.Fatalf("empty manifest produced %+v", rec)
	}
	if !reflect.DeepEqual(rec.Unexpected, []string{"1-1"}) {
		t.Fatalf("Unexpected = %v", rec.Unexpected)
	}

	full := &Manifest{Identifiers: []string{"1-1"}}
	rec = full.Reconcile(nil)
	if !reflect.DeepEqual(rec.Missing, []string{"1-1"}) {
		t.Fatalf("Missing = %v", rec.Missing)
	}
}
