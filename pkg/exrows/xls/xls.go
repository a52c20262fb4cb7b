// Package xls reads legacy BIFF (.xls) workbooks. Writing is not supported:
// rows can be changed in memory but SaveAs fails with codec.ErrReadOnly.
package xls

import (
	"fmt"
	"os"

	biff "github.com/extrame/xls"

	"github.com/ukaji3/exrows-go/pkg/exrows/codec"
	"github.com/ukaji3/exrows-go/pkg/exrows/memory"
	"github.com/ukaji3/exrows-go/pkg/exrows/models"
)

// DefaultCharset is used to decode non-unicode strings.
const DefaultCharset = "utf-8"

// Codec opens .xls files.
type Codec struct {
	Charset string
}

var _ codec.Codec = Codec{}

// Open loads every sheet of the workbook at path into memory.
func (c Codec) Open(path string) (codec.Workbook, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	charset := c.Charset
	if charset == "" {
		charset = DefaultCharset
	}
	book, err := biff.Open(path, charset)
	if err != nil {
		return nil, err
	}

	var sheets []sheetText
	for i := 0; i < book.NumSheets(); i++ {
		ws := book.GetSheet(i)
		if ws == nil {
			continue
		}
		sheets = append(sheets, sheetText{name: ws.Name, rows: readSheet(ws)})
	}
	return build(sheets)
}

type sheetText struct {
	name string
	rows [][]string
}

func readSheet(ws *biff.WorkSheet) [][]string {
	rows := make([][]string, 0, int(ws.MaxRow)+1)
	for r := 0; r <= int(ws.MaxRow); r++ {
		row := ws.Row(r)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cols := make([]string, row.LastCol()+1)
		for col := row.FirstCol(); col < len(cols); col++ {
			cols[col] = row.Col(col)
		}
		rows = append(rows, cols)
	}
	return rows
}

func build(sheets []sheetText) (*memory.Workbook, error) {
	wb := memory.NewWorkbook(nil)
	for _, s := range sheets {
		rows := make([]models.Row, len(s.rows))
		for i, cols := range s.rows {
			row := make(models.Row, len(cols))
			for j, text := range cols {
				row[j] = models.ParseScalar(text)
			}
			rows[i] = row
		}
		if err := wb.AddSheet(s.name, models.TrimRows(rows)); err != nil {
			return nil, fmt.Errorf("xls sheet %q: %w", s.name, err)
		}
	}
	return wb, nil
}
