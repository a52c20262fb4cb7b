package xlsx

import (
	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/exrows-go/pkg/exrows/models"
)

// ExtractRows reads every row of a sheet as typed values.
// Booleans come back as bool, numeric cells as int64 or float64, and
// text cells (shared, inline or formula strings) as string even when they
// look numeric.
func ExtractRows(f *excelize.File, sheet string) ([]models.Row, error) {
	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	rows := make([]models.Row, len(raw))
	for rowIdx, cols := range raw {
		row := make(models.Row, len(cols))
		for colIdx, text := range cols {
			if text == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				return nil, err
			}
			cellType, err := f.GetCellType(sheet, cell)
			if err != nil {
				return nil, err
			}
			row[colIdx] = typedValue(cellType, text)
		}
		rows[rowIdx] = row
	}
	return models.TrimRows(rows), nil
}

func typedValue(cellType excelize.CellType, text string) any {
	switch cellType {
	case excelize.CellTypeBool:
		return text == "1" || text == "TRUE" || text == "true"
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula,
		excelize.CellTypeError, excelize.CellTypeDate:
		return text
	default:
		return models.ParseScalar(text)
	}
}
