// Package memory provides an in-memory grid workbook and a path-keyed store
// that stands in for a filesystem.
package memory

import (
	"fmt"
	"strings"

	"github.com/ukaji3/exrows-go/pkg/exrows/codec"
	"github.com/ukaji3/exrows-go/pkg/exrows/models"
)

// SaveFunc persists a workbook to path.
type SaveFunc func(path string, wb *Workbook) error

// Workbook is a grid of named sheets held entirely in memory.
type Workbook struct {
	sheets []*sheet
	save   SaveFunc
}

type sheet struct {
	name string
	rows []models.Row
}

var _ codec.Workbook = (*Workbook)(nil)

// NewWorkbook creates an empty workbook persisted through save.
// A nil save makes the workbook read-only.
func NewWorkbook(save SaveFunc) *Workbook {
	return &Workbook{save: save}
}

// AddSheet appends a sheet holding a copy of rows. Values must already be normalized.
func (w *Workbook) AddSheet(name string, rows []models.Row) error {
	if w.index(name) >= 0 {
		return fmt.Errorf("%w: %q", codec.ErrSheetExists, name)
	}
	w.sheets = append(w.sheets, &sheet{name: name, rows: models.CloneRows(rows)})
	return nil
}

// SheetNames returns sheet titles in order.
func (w *Workbook) SheetNames() []string {
	names := make([]string, len(w.sheets))
	for i, s := range w.sheets {
		names[i] = s.name
	}
	return names
}

// Rows returns a trimmed copy of the sheet's rows.
func (w *Workbook) Rows(name string) ([]models.Row, error) {
	s, err := w.sheet(name)
	if err != nil {
		return nil, err
	}
	return models.TrimRows(models.CloneRows(s.rows)), nil
}

// SetRow overwrites columns 1..len(values) of row, growing the grid as needed.
func (w *Workbook) SetRow(name string, row int, values models.Row) error {
	s, err := w.sheet(name)
	if err != nil {
		return err
	}
	if row < 1 {
		return fmt.Errorf("row %d out of range", row)
	}
	for len(s.rows) < row {
		s.rows = append(s.rows, models.Row{})
	}
	target := s.rows[row-1]
	for len(target) < len(values) {
		target = append(target, nil)
	}
	copy(target, values)
	s.rows[row-1] = target
	return nil
}

// RemoveRow deletes row and shifts the following rows up.
// Removing a row past the end of the grid is a no-op.
func (w *Workbook) RemoveRow(name string, row int) error {
	s, err := w.sheet(name)
	if err != nil {
		return err
	}
	if row < 1 {
		return fmt.Errorf("row %d out of range", row)
	}
	if row > len(s.rows) {
		return nil
	}
	s.rows = append(s.rows[:row-1], s.rows[row:]...)
	return nil
}

// CopySheet appends a deep copy of src titled dst.
func (w *Workbook) CopySheet(src, dst string) error {
	s, err := w.sheet(src)
	if err != nil {
		return err
	}
	for _, existing := range w.sheets {
		if strings.EqualFold(existing.name, dst) {
			return fmt.Errorf("%w: %q", codec.ErrSheetExists, dst)
		}
	}
	w.sheets = append(w.sheets, &sheet{name: dst, rows: models.CloneRows(s.rows)})
	return nil
}

// SaveAs hands the workbook to its save function.
func (w *Workbook) SaveAs(path string) error {
	if w.save == nil {
		return codec.ErrReadOnly
	}
	return w.save(path, w)
}

// Close is a no-op.
func (w *Workbook) Close() error {
	return nil
}

// Snapshot returns a deep copy of every sheet in order.
func (w *Workbook) Snapshot() []models.SheetData {
	out := make([]models.SheetData, len(w.sheets))
	for i, s := range w.sheets {
		out[i] = models.SheetData{Title: s.name, Rows: models.TrimRows(models.CloneRows(s.rows))}
	}
	return out
}

func (w *Workbook) index(name string) int {
	for i, s := range w.sheets {
		if s.name == name {
			return i
		}
	}
	return -1
}

func (w *Workbook) sheet(name string) (*sheet, error) {
	i := w.index(name)
	if i < 0 {
		return nil, fmt.Errorf("%w: %q", codec.ErrNoSheet, name)
	}
	return w.sheets[i], nil
}
