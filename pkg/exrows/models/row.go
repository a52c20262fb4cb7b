// Package models defines data structures for row-level spreadsheet access.
package models

// Row is an ordered sequence of cell values. Index 0 holds column 1.
// A nil entry is an unset cell.
type Row []any

// Clone returns a copy of r that shares no backing array with it.
func (r Row) Clone() Row {
	if r == nil {
		return nil
	}
	out := make(Row, len(r))
	copy(out, r)
	return out
}

// Trim drops trailing unset cells.
func (r Row) Trim() Row {
	n := len(r)
	for n > 0 && r[n-1] == nil {
		n--
	}
	return r[:n]
}

// IsBlank reports whether the row holds no set cell.
func (r Row) IsBlank() bool {
	return len(r.Trim()) == 0
}

// TrimRows drops trailing cells of every row and trailing blank rows.
// Blank rows between populated rows are kept as empty rows.
func TrimRows(rows []Row) []Row {
	out := make([]Row, len(rows))
	last := 0
	for i, row := range rows {
		out[i] = row.Trim()
		if len(out[i]) > 0 {
			last = i + 1
		}
	}
	for i := range out[:last] {
		if out[i] == nil {
			out[i] = Row{}
		}
	}
	return out[:last]
}

// CloneRows deep-copies a slice of rows.
func CloneRows(rows []Row) []Row {
	if rows == nil {
		return nil
	}
	out := make([]Row, len(rows))
	for i, row := range rows {
		out[i] = row.Clone()
	}
	return out
}
