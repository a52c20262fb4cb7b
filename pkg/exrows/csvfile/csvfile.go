// Package csvfile reads and writes single-sheet comma separated documents.
//
// CSV carries no cell types, so every set cell is text: values written to
// the grid are stored in the form they will have after a save and reopen.
package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ukaji3/exrows-go/pkg/exrows/codec"
	"github.com/ukaji3/exrows-go/pkg/exrows/memory"
	"github.com/ukaji3/exrows-go/pkg/exrows/models"
)

// Codec opens .csv files as a workbook with one sheet named after the file.
type Codec struct {
	// Comma is the field delimiter; zero means ','.
	Comma rune
}

var _ codec.Codec = Codec{}

// SheetName derives the sheet title for a csv path ("data/sales.csv" -> "sales").
func SheetName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Open parses the file at path.
func (c Codec) Open(path string) (codec.Workbook, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = c.comma()
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	rows := make([]models.Row, len(records))
	for i, record := range records {
		row := make(models.Row, len(record))
		for j, field := range record {
			if field != "" {
				row[j] = field
			}
		}
		rows[i] = row
	}

	wb := &workbook{Workbook: memory.NewWorkbook(c.save)}
	if err := wb.AddSheet(SheetName(path), models.TrimRows(rows)); err != nil {
		return nil, err
	}
	return wb, nil
}

// workbook is a memory grid restricted to a single sheet.
type workbook struct {
	*memory.Workbook
}

// SetRow stores every set value as its cell text.
func (w *workbook) SetRow(sheet string, row int, values models.Row) error {
	text := make(models.Row, len(values))
	for i, v := range values {
		if s := models.FormatScalar(v); s != "" {
			text[i] = s
		}
	}
	return w.Workbook.SetRow(sheet, row, text)
}

func (w *workbook) CopySheet(src, dst string) error {
	return fmt.Errorf("copy sheet %q: csv holds a single sheet: %w", src, errors.ErrUnsupported)
}

func (c Codec) save(path string, wb *memory.Workbook) error {
	sheets := wb.Snapshot()
	var rows []models.Row
	if len(sheets) > 0 {
		rows = sheets[0].Rows
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	w.Comma = c.comma()
	for _, row := range rows {
		if len(row) == 0 {
			// an empty line would be skipped on read; a quoted empty field keeps the row
			w.Flush()
			if err := w.Error(); err != nil {
				f.Close()
				return err
			}
			if _, err := io.WriteString(f, "\"\"\n"); err != nil {
				f.Close()
				return err
			}
			continue
		}
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = models.FormatScalar(v)
		}
		if err := w.Write(record); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (c Codec) comma() rune {
	if c.Comma == 0 {
		return ','
	}
	return c.Comma
}
