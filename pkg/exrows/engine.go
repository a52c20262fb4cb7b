package exrows

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ukaji3/exrows-go/pkg/exrows/codec"
	"github.com/ukaji3/exrows-go/pkg/exrows/models"
)

// Engine reads and mutates one opened document.
// It is not safe for concurrent use, and it takes no file lock: two engines
// saving the same path race, and the last save wins.
type Engine struct {
	path   string
	wb     codec.Workbook
	dryRun bool
	logger *zap.Logger

	// tails holds, per sheet, the last row appended in this session.
	// Appended blank rows have no cells for the codec to keep, so they
	// extend the sheet only through this cursor.
	tails map[string]int
}

// Open loads the document at path.
// A missing path fails with an error matching ErrNotFound.
func Open(path string, opts Options) (*Engine, error) {
	c := opts.Codec
	if c == nil {
		var err error
		if c, err = CodecFor(path); err != nil {
			return nil, &OpError{Op: "open", Path: path, Err: ioErr(err)}
		}
	}

	wb, err := c.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = fmt.Errorf("%w: %w", ErrNotFound, err)
		} else {
			err = ioErr(err)
		}
		return nil, &OpError{Op: "open", Path: path, Err: err}
	}

	logger := opts.logger().With(zap.String("session", uuid.NewString()), zap.String("path", path))
	logger.Debug("exrows.open", zap.Int("sheets", len(wb.SheetNames())), zap.Bool("dry_run", opts.DryRun))
	return &Engine{path: path, wb: wb, dryRun: opts.DryRun, logger: logger, tails: make(map[string]int)}, nil
}

// Path returns the path the document was opened from and is saved to.
func (e *Engine) Path() string {
	return e.path
}

// ListSheets returns sheet titles in document order.
func (e *Engine) ListSheets() []string {
	names := e.wb.SheetNames()
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// GetSheet describes the named sheet.
func (e *Engine) GetSheet(name string) (models.Sheet, error) {
	index := e.sheetIndex(name)
	if index < 0 {
		return models.Sheet{}, e.opErr("get sheet", name, 0, ErrNotFound)
	}
	rows, err := e.rows("get sheet", name)
	if err != nil {
		return models.Sheet{}, err
	}
	bounds := models.DataBounds(rows)
	return models.Sheet{
		Title:    name,
		Index:    index,
		RowCount: len(rows),
		ColCount: bounds.MaxCol,
		Cells:    models.CountSet(rows, bounds),
		Range:    bounds.Ref(),
	}, nil
}

// ReadRow returns the values of a row. A row past the end of the sheet
// reads as an empty row.
func (e *Engine) ReadRow(sheet string, rowNumber int) (models.Row, error) {
	rows, err := e.rows("read row", sheet)
	if err != nil {
		return nil, err
	}
	if rowNumber < 1 {
		return nil, e.opErr("read row", sheet, rowNumber, ErrRange)
	}
	if rowNumber > len(rows) {
		return models.Row{}, nil
	}
	return rows[rowNumber-1].Clone(), nil
}

// ReadAllRows returns every row of a sheet in order, blank rows between
// populated ones included.
func (e *Engine) ReadAllRows(sheet string) ([]models.Row, error) {
	return e.rows("read rows", sheet)
}

// AddRow appends row after the last row of the sheet. A blank row still
// takes its row number, so the sheet grows by one row per call.
func (e *Engine) AddRow(sheet string, row models.Row, deferPersist bool) error {
	const op = "add row"
	rows, err := e.rows(op, sheet)
	if err != nil {
		return err
	}
	rowNumber := len(rows) + 1
	if err := e.write(op, sheet, rowNumber, row); err != nil {
		return err
	}
	e.tails[sheet] = rowNumber
	if deferPersist {
		return nil
	}
	return e.persist(op)
}

// AddRows appends each row in order and saves once at the end.
// A failure leaves the rows appended so far in memory, unsaved.
func (e *Engine) AddRows(sheet string, rows []models.Row) error {
	for _, row := range rows {
		if err := e.AddRow(sheet, row, true); err != nil {
			return err
		}
	}
	return e.persist("add rows")
}

// UpdateRow overwrites columns 1..len(row) of the given row; later columns
// keep their values. A row past the end of the sheet extends it.
func (e *Engine) UpdateRow(sheet string, rowNumber int, row models.Row, deferPersist bool) error {
	const op = "update row"
	if e.sheetIndex(sheet) < 0 {
		return e.opErr(op, sheet, 0, ErrNotFound)
	}
	if rowNumber < 1 {
		return e.opErr(op, sheet, rowNumber, ErrRange)
	}
	if err := e.write(op, sheet, rowNumber, row); err != nil {
		return err
	}
	if deferPersist {
		return nil
	}
	return e.persist(op)
}

// DeleteRow removes a row and shifts the following rows up by one.
// It always saves.
func (e *Engine) DeleteRow(sheet string, rowNumber int) error {
	const op = "delete row"
	rows, err := e.rows(op, sheet)
	if err != nil {
		return err
	}
	if rowNumber < 1 || rowNumber > len(rows) {
		return e.opErr(op, sheet, rowNumber, fmt.Errorf("%w: sheet has %d rows", ErrRange, len(rows)))
	}
	if err := e.wb.RemoveRow(sheet, rowNumber); err != nil {
		return e.opErr(op, sheet, rowNumber, codecErr(err))
	}
	if tail := e.tails[sheet]; tail >= rowNumber {
		e.tails[sheet] = tail - 1
	}
	return e.persist(op)
}

// CopySheet appends a copy of source titled target and saves.
func (e *Engine) CopySheet(source, target string) error {
	const op = "copy sheet"
	if e.sheetIndex(source) < 0 {
		return e.opErr(op, source, 0, ErrNotFound)
	}
	if err := models.ValidateSheetName(target); err != nil {
		return e.opErr(op, target, 0, fmt.Errorf("%w: %q", ErrInvalidName, target))
	}
	for _, name := range e.wb.SheetNames() {
		if strings.EqualFold(name, target) {
			return e.opErr(op, target, 0, fmt.Errorf("%w: sheet %q already exists", ErrConflict, name))
		}
	}
	if err := e.wb.CopySheet(source, target); err != nil {
		return e.opErr(op, source, 0, codecErr(err))
	}
	if tail, ok := e.tails[source]; ok {
		e.tails[target] = tail
	}
	return e.persist(op)
}

// ReplaceRows overwrites rows firstRow, firstRow+1, ... with rows, using
// UpdateRow semantics for each, and saves once at the end unless deferred.
func (e *Engine) ReplaceRows(sheet string, firstRow int, rows []models.Row, deferPersist bool) error {
	const op = "replace rows"
	if e.sheetIndex(sheet) < 0 {
		return e.opErr(op, sheet, 0, ErrNotFound)
	}
	if firstRow < 1 {
		return e.opErr(op, sheet, firstRow, ErrRange)
	}
	for i, row := range rows {
		if err := e.UpdateRow(sheet, firstRow+i, row, true); err != nil {
			return err
		}
	}
	if deferPersist {
		return nil
	}
	return e.persist(op)
}

// Save writes the whole document back to the path it was opened from.
func (e *Engine) Save() error {
	return e.persist("save")
}

// Dump returns every sheet with its rows in document order.
func (e *Engine) Dump() (models.Document, error) {
	doc := models.Document{BookName: filepath.Base(e.path)}
	for _, name := range e.wb.SheetNames() {
		rows, err := e.rows("dump", name)
		if err != nil {
			return models.Document{}, err
		}
		doc.Sheets = append(doc.Sheets, models.SheetData{Title: name, Rows: rows})
	}
	return doc, nil
}

// Close releases the document without saving it.
func (e *Engine) Close() error {
	if err := e.wb.Close(); err != nil {
		return e.opErr("close", "", 0, ioErr(err))
	}
	return nil
}

func (e *Engine) persist(op string) error {
	if e.dryRun {
		e.logger.Info("exrows.dry_run_skip_save", zap.String("op", op))
		return nil
	}
	if err := e.wb.SaveAs(e.path); err != nil {
		e.logger.Error("exrows.save_failed", zap.String("op", op), zap.Error(err))
		return e.opErr(op, "", 0, ioErr(err))
	}
	e.logger.Debug("exrows.saved", zap.String("op", op))
	return nil
}

func (e *Engine) write(op, sheet string, rowNumber int, row models.Row) error {
	values, err := models.NormalizeRow(row)
	if err != nil {
		return e.opErr(op, sheet, rowNumber, fmt.Errorf("%w: %w", ErrInvalidValue, err))
	}
	if err := e.wb.SetRow(sheet, rowNumber, values); err != nil {
		return e.opErr(op, sheet, rowNumber, codecErr(err))
	}
	return nil
}

func (e *Engine) rows(op, sheet string) ([]models.Row, error) {
	if e.sheetIndex(sheet) < 0 {
		return nil, e.opErr(op, sheet, 0, ErrNotFound)
	}
	rows, err := e.wb.Rows(sheet)
	if err != nil {
		return nil, e.opErr(op, sheet, 0, codecErr(err))
	}
	for len(rows) < e.tails[sheet] {
		rows = append(rows, models.Row{})
	}
	return rows, nil
}

func (e *Engine) sheetIndex(name string) int {
	for i, n := range e.wb.SheetNames() {
		if n == name {
			return i
		}
	}
	return -1
}

func codecErr(err error) error {
	switch {
	case errors.Is(err, codec.ErrNoSheet):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, codec.ErrSheetExists):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	default:
		return ioErr(err)
	}
}
