package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ukaji3/exrows-go/pkg/exrows"
	"github.com/ukaji3/exrows-go/pkg/exrows/models"
)

// Tool error codes prefixed to failed tool results.
const (
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeRange           = "RANGE"
	CodeInvalidArgument = "INVALID_ARGUMENT"
	CodeIO              = "IO"
)

// Args is the union of every tool's arguments.
type Args struct {
	FilePath        string       `json:"filepath"`
	SheetName       string       `json:"sheet_name"`
	SourceSheetName string       `json:"source_sheet_name"`
	TargetSheetName string       `json:"target_sheet_name"`
	RowNumber       int          `json:"row_number"`
	FirstRowIndex   int          `json:"first_row_index"`
	Row             models.Row   `json:"row"`
	Rows            []models.Row `json:"rows"`
}

type tool struct {
	def      mcp.Tool
	required []string
	call     func(eng *exrows.Engine, args Args) (any, error)
}

var (
	argFilePath  = mcp.WithString("filepath", mcp.Required(), mcp.Description("Path to the workbook file"))
	argSheetName = mcp.WithString("sheet_name", mcp.Required(), mcp.Description("Sheet title"))
	argRow       = mcp.WithArray("row", mcp.Required(), mcp.Description("Cell values from column A onward"))
	argRows      = mcp.WithArray("rows", mcp.Required(), mcp.Description("Rows of cell values"),
		mcp.Items(map[string]any{"type": "array"}))
)

// tools returns the tool table in listing order.
func tools() []tool {
	return []tool{
		{
			def: mcp.NewTool("list_sheets_in_workbook",
				mcp.WithDescription("List the sheets in a workbook"),
				argFilePath,
			),
			required: []string{"filepath"},
			call: func(eng *exrows.Engine, _ Args) (any, error) {
				return eng.ListSheets(), nil
			},
		},
		{
			def: mcp.NewTool("read_excel_sheet",
				mcp.WithDescription("Read all rows of an excel sheet"),
				argFilePath, argSheetName,
			),
			required: []string{"filepath", "sheet_name"},
			call: func(eng *exrows.Engine, a Args) (any, error) {
				return eng.ReadAllRows(a.SheetName)
			},
		},
		{
			def: mcp.NewTool("add_rows_to_excel_sheet",
				mcp.WithDescription("Add rows to the end of an excel sheet"),
				argFilePath, argSheetName, argRows,
			),
			required: []string{"filepath", "sheet_name", "rows"},
			call: func(eng *exrows.Engine, a Args) (any, error) {
				return nil, eng.AddRows(a.SheetName, a.Rows)
			},
		},
		{
			def: mcp.NewTool("append_row_to_excel_sheet",
				mcp.WithDescription("Add a row to the end of an excel sheet"),
				argFilePath, argSheetName, argRow,
			),
			required: []string{"filepath", "sheet_name", "row"},
			call: func(eng *exrows.Engine, a Args) (any, error) {
				return nil, eng.AddRow(a.SheetName, a.Row, false)
			},
		},
		{
			def: mcp.NewTool("update_row_in_excel_sheet",
				mcp.WithDescription("Overwrite the leading cells of a row in an excel sheet"),
				argFilePath, argSheetName,
				mcp.WithNumber("row_number", mcp.Required(), mcp.Min(1), mcp.Description("1-based row number")),
				argRow,
			),
			required: []string{"filepath", "sheet_name", "row_number", "row"},
			call: func(eng *exrows.Engine, a Args) (any, error) {
				return nil, eng.UpdateRow(a.SheetName, a.RowNumber, a.Row, false)
			},
		},
		{
			def: mcp.NewTool("copy_excel_sheet",
				mcp.WithDescription("Copy an excel sheet to a new sheet"),
				argFilePath,
				mcp.WithString("source_sheet_name", mcp.Required(), mcp.Description("Sheet to copy")),
				mcp.WithString("target_sheet_name", mcp.Required(), mcp.Description("Title of the new sheet")),
			),
			required: []string{"filepath", "source_sheet_name", "target_sheet_name"},
			call: func(eng *exrows.Engine, a Args) (any, error) {
				return nil, eng.CopySheet(a.SourceSheetName, a.TargetSheetName)
			},
		},
		{
			def: mcp.NewTool("delete-row-in-excel-sheet",
				mcp.WithDescription("Delete a row in an excel sheet; later rows move up"),
				argFilePath, argSheetName,
				mcp.WithNumber("row_number", mcp.Required(), mcp.Min(1), mcp.Description("1-based row number")),
			),
			required: []string{"filepath", "sheet_name", "row_number"},
			call: func(eng *exrows.Engine, a Args) (any, error) {
				return nil, eng.DeleteRow(a.SheetName, a.RowNumber)
			},
		},
		{
			def: mcp.NewTool("replace-rows-in-excel-sheet",
				mcp.WithDescription("Overwrite consecutive rows of an excel sheet starting at first_row_index"),
				argFilePath, argSheetName,
				mcp.WithNumber("first_row_index", mcp.Required(), mcp.Min(1), mcp.Description("1-based number of the first row to overwrite")),
				argRows,
			),
			required: []string{"filepath", "sheet_name", "first_row_index", "rows"},
			call: func(eng *exrows.Engine, a Args) (any, error) {
				return nil, eng.ReplaceRows(a.SheetName, a.FirstRowIndex, a.Rows, false)
			},
		},
	}
}

// ErrorCode classifies an engine error for tool results.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, exrows.ErrNotFound):
		return CodeNotFound
	case errors.Is(err, exrows.ErrConflict):
		return CodeConflict
	case errors.Is(err, exrows.ErrRange):
		return CodeRange
	case errors.Is(err, exrows.ErrInvalidValue), errors.Is(err, exrows.ErrInvalidName):
		return CodeInvalidArgument
	default:
		return CodeIO
	}
}

// decodeArgs checks that every required argument is present and not null,
// then decodes them keeping numbers exact until the engine normalizes them.
func decodeArgs(raw map[string]any, required []string) (Args, error) {
	var args Args
	var missing []string
	for _, key := range required {
		if v, ok := raw[key]; !ok || v == nil {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return args, fmt.Errorf("missing arguments: %s", strings.Join(missing, ", "))
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return args, fmt.Errorf("invalid arguments: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&args); err != nil {
		return args, fmt.Errorf("invalid arguments: %w", err)
	}
	return args, nil
}

func textResult(v any) (*mcp.CallToolResult, error) {
	if v == nil {
		return mcp.NewToolResultText("ok"), nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
