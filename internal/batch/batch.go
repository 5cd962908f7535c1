// Package batch owns the canonical state of one submission: the spreadsheet
// slot and the collected document files.
package batch

import (
	"github.com/vmoreno/opibatch/internal/models"
)

const (
	// ListingLimit bounds the "first N" projection used in console listings.
	ListingLimit = 10

	// PreviewLimit bounds the preview table projection.
	PreviewLimit = 20
)

// Assembler holds the document batch and the spreadsheet slot. It has a
// single writer: each user action replaces the batch wholesale, so readers
// never observe a partially updated state from two actions.
type Assembler struct {
	spreadsheet *models.FileHandle
	documents   []models.FileHandle
}

// NewAssembler returns an empty Assembler.
func NewAssembler() *Assembler {
	return &Assembler{}
}

// SetSpreadsheet fills the single-file spreadsheet slot.
func (a *Assembler) SetSpreadsheet(file models.FileHandle) {
	f := file
	a.spreadsheet = &f
}

// ClearSpreadsheet empties the spreadsheet slot.
func (a *Assembler) ClearSpreadsheet() {
	a.spreadsheet = nil
}

// Spreadsheet returns the spreadsheet handle and whether the slot is filled.
func (a *Assembler) Spreadsheet() (models.FileHandle, bool) {
	if a.spreadsheet == nil {
		return models.FileHandle{}, false
	}
	return *a.spreadsheet, true
}

// SetDocuments replaces the document batch with the given resolution. Prior
// state is discarded entirely, never merged.
func (a *Assembler) SetDocuments(files []models.FileHandle) {
	a.documents = make([]models.FileHandle, len(files))
	copy(a.documents, files)
}

// ClearDocuments empties the document batch.
func (a *Assembler) ClearDocuments() {
	a.documents = nil
}

// Documents returns a copy of the current batch in collection order.
func (a *Assembler) Documents() []models.FileHandle {
	out := make([]models.FileHandle, len(a.documents))
	copy(out, a.documents)
	return out
}

// Count returns the number of documents in the batch.
func (a *Assembler) Count() int {
	return len(a.documents)
}

// FirstN returns up to n documents from the front of the batch plus the
// count of documents beyond the bound, for "+K more" summaries.
func (a *Assembler) FirstN(n int) (files []models.FileHandle, overflow int) {
	if n < 0 {
		n = 0
	}
	if n > len(a.documents) {
		n = len(a.documents)
	}
	files = make([]models.FileHandle, n)
	copy(files, a.documents[:n])
	return files, len(a.documents) - n
}

// Ready reports whether a submission can proceed: both the spreadsheet slot
// and the document batch must be populated. The value is derived, never
// stored, so it is correct after every mutation.
func (a *Assembler) Ready() bool {
	return a.spreadsheet != nil && len(a.documents) > 0
}
