// Package codec defines the persistence boundary between the row engine
// and concrete spreadsheet file formats.
package codec

import (
	"errors"

	"github.com/ukaji3/exrows-go/pkg/exrows/models"
)

// ErrReadOnly indicates a workbook whose format cannot be written back.
var ErrReadOnly = errors.New("format is read-only")

// ErrSheetExists indicates a sheet title already taken in the workbook.
var ErrSheetExists = errors.New("sheet already exists")

// ErrNoSheet indicates a sheet title absent from the workbook.
var ErrNoSheet = errors.New("sheet does not exist")

// Codec opens a document path into an in-memory Workbook.
// A missing path must produce an error matching fs.ErrNotExist.
type Codec interface {
	Open(path string) (Workbook, error)
}

// Workbook is the grid of one opened document. Row and column numbers are
// 1-based. Implementations hold all state in memory until SaveAs.
type Workbook interface {
	// SheetNames returns sheet titles in document order.
	SheetNames() []string
	// Rows returns the rows of a sheet, trimmed as by models.TrimRows,
	// with values normalized.
	Rows(sheet string) ([]models.Row, error)
	// SetRow overwrites columns 1..len(row) of the given row; nil clears a cell.
	SetRow(sheet string, row int, values models.Row) error
	// RemoveRow deletes a row and shifts the following rows up by one.
	RemoveRow(sheet string, row int) error
	// CopySheet appends a copy of src titled dst.
	CopySheet(src, dst string) error
	// SaveAs writes the whole workbook to path.
	SaveAs(path string) error
	// Close releases resources; it does not save.
	Close() error
}

// Func adapts a function to the Codec interface.
type Func func(path string) (Workbook, error)

// Open calls f(path).
func (f Func) Open(path string) (Workbook, error) {
	return f(path)
}
