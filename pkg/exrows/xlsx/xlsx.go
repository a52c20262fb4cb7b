// Package xlsx implements the native spreadsheet codec on excelize.
//
// The excelize file is mutated in place, so styles, column widths, defined
// names and other parts the row engine does not touch survive a save.
package xlsx

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/exrows-go/pkg/exrows/codec"
	"github.com/ukaji3/exrows-go/pkg/exrows/models"
)

// Extensions lists the file extensions this codec reads and writes.
var Extensions = []string{".xlsx", ".xlsm", ".xltx", ".xltm"}

// Codec opens workbooks with excelize.
type Codec struct{}

var _ codec.Codec = Codec{}

// Open loads the workbook at path.
func (Codec) Open(path string) (codec.Workbook, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	return &Workbook{f: f}, nil
}

// Workbook wraps an open excelize file.
type Workbook struct {
	f *excelize.File
}

var _ codec.Workbook = (*Workbook)(nil)

// Wrap adapts an already open excelize file.
func Wrap(f *excelize.File) *Workbook {
	return &Workbook{f: f}
}

// SheetNames returns sheet titles in workbook order.
func (w *Workbook) SheetNames() []string {
	return w.f.GetSheetList()
}

// Rows extracts typed cell values of a sheet.
func (w *Workbook) Rows(sheet string) ([]models.Row, error) {
	if err := w.check(sheet); err != nil {
		return nil, err
	}
	return ExtractRows(w.f, sheet)
}

// SetRow overwrites columns 1..len(values) of row.
func (w *Workbook) SetRow(sheet string, row int, values models.Row) error {
	if err := w.check(sheet); err != nil {
		return err
	}
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := w.f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("set %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

// RemoveRow deletes row and shifts the rows below it up.
func (w *Workbook) RemoveRow(sheet string, row int) error {
	if err := w.check(sheet); err != nil {
		return err
	}
	return w.f.RemoveRow(sheet, row)
}

// CopySheet appends a copy of src named dst, cells and styles included.
func (w *Workbook) CopySheet(src, dst string) error {
	from, err := w.f.GetSheetIndex(src)
	if err != nil {
		return err
	}
	if from < 0 {
		return fmt.Errorf("%w: %q", codec.ErrNoSheet, src)
	}
	if existing, _ := w.f.GetSheetIndex(dst); existing >= 0 {
		return fmt.Errorf("%w: %q", codec.ErrSheetExists, dst)
	}
	to, err := w.f.NewSheet(dst)
	if err != nil {
		return err
	}
	return w.f.CopySheet(from, to)
}

// SaveAs writes the workbook next to path under a temporary name and renames
// it into place, so an interrupted save leaves the previous file intact.
// An existing file keeps its permission bits.
func (w *Workbook) SaveAs(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	tmp := filepath.Join(filepath.Dir(path), fmt.Sprintf(".%s.%s%s", filepath.Base(path), uuid.NewString(), ext))
	if err := w.f.SaveAs(tmp); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if info, err := os.Stat(path); err == nil {
		if err := os.Chmod(tmp, info.Mode().Perm()); err != nil {
			_ = os.Remove(tmp)
			return err
		}
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// Close releases the excelize file.
func (w *Workbook) Close() error {
	return w.f.Close()
}

func (w *Workbook) check(sheet string) error {
	idx, err := w.f.GetSheetIndex(sheet)
	if err != nil {
		return err
	}
	if idx < 0 {
		return fmt.Errorf("%w: %q", codec.ErrNoSheet, sheet)
	}
	return nil
}
