// Package output renders engine results for the command line.
package output

import (
	"bytes"
	"encoding/json"

	"github.com/ukaji3/exrows-go/pkg/exrows/models"
)

// ToJSON serializes any engine result.
func ToJSON(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

// SheetToJSON serializes one sheet with its rows.
func SheetToJSON(sheet *models.SheetData, pretty bool) ([]byte, error) {
	if sheet.Rows == nil {
		sheet = &models.SheetData{Title: sheet.Title, Rows: []models.Row{}}
	}
	return ToJSON(sheet, pretty)
}

// ParseRow decodes a JSON array into a row. Numbers keep full precision
// and are normalized later by the engine.
func ParseRow(data []byte) (models.Row, error) {
	var row models.Row
	if err := decode(data, &row); err != nil {
		return nil, err
	}
	return row, nil
}

// ParseRows decodes a JSON array of arrays into rows.
func ParseRows(data []byte) ([]models.Row, error) {
	var rows []models.Row
	if err := decode(data, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func decode(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}
