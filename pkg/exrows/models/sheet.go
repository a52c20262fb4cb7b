package models

// Sheet describes one sheet of an open document.
type Sheet struct {
	// Title is the sheet name, unique within the document.
	Title string `json:"title"`
	// Index is the 0-based position of the sheet in document order.
	Index int `json:"index"`
	// RowCount is the number of the last row holding a set cell.
	RowCount int `json:"row_count"`
	// ColCount is the number of the last column holding a set cell.
	ColCount int `json:"col_count"`
	// Cells is the number of set cells.
	Cells int `json:"cells"`
	// Range is the bounding range of set cells (e.g. "A1:D10"), empty for a blank sheet.
	Range string `json:"range,omitempty"`
}

// SheetData is a sheet title with its rows.
type SheetData struct {
	Title string `json:"title"`
	Rows  []Row  `json:"rows"`
}

// Document is a full dump of an open document in sheet order.
type Document struct {
	// BookName is the document file name (no path).
	BookName string      `json:"book_name"`
	Sheets   []SheetData `json:"sheets"`
}
