package models

import "fmt"

// Bounds holds 1-based inclusive coordinates of the set cells of a sheet.
type Bounds struct {
	MinRow, MaxRow int
	MinCol, MaxCol int
}

// Empty reports whether no cell is set.
func (b Bounds) Empty() bool {
	return b.MaxRow == 0
}

// Ref renders the bounds as a range like "A1:D10".
func (b Bounds) Ref() string {
	if b.Empty() {
		return ""
	}
	return fmt.Sprintf("%s:%s", CellName(b.MinCol, b.MinRow), CellName(b.MaxCol, b.MaxRow))
}

// DataBounds finds the bounding box of set cells.
func DataBounds(rows []Row) Bounds {
	var b Bounds
	for rowIdx, row := range rows {
		for colIdx, cell := range row {
			if cell == nil {
				continue
			}
			r, c := rowIdx+1, colIdx+1
			if b.MinRow == 0 || r < b.MinRow {
				b.MinRow = r
			}
			if r > b.MaxRow {
				b.MaxRow = r
			}
			if b.MinCol == 0 || c < b.MinCol {
				b.MinCol = c
			}
			if c > b.MaxCol {
				b.MaxCol = c
			}
		}
	}
	return b
}

// CountSet counts set cells within the bounds.
func CountSet(rows []Row, b Bounds) int {
	count := 0
	for r := b.MinRow; r <= b.MaxRow && r <= len(rows); r++ {
		row := rows[r-1]
		for c := b.MinCol; c <= b.MaxCol && c <= len(row); c++ {
			if row[c-1] != nil {
				count++
			}
		}
	}
	return count
}
