package xlsx

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/exrows-go/pkg/exrows/codec"
	"github.com/ukaji3/exrows-go/pkg/exrows/models"
)

func writeFixture(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Sheet1"
	f.SetCellValue(sheetName, "A1", "Header1")
	f.SetCellValue(sheetName, "B1", "Header2")
	f.SetCellValue(sheetName, "A2", 100)
	f.SetCellValue(sheetName, "B2", 200.5)
	f.SetCellValue(sheetName, "C2", true)
	f.SetCellValue(sheetName, "A3", "123")
	f.SetCellValue(sheetName, "C5", "tail")

	tmpFile := filepath.Join(t.TempDir(), "test.xlsx")
	if err := f.SaveAs(tmpFile); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}
	return tmpFile
}

func TestExtractRows(t *testing.T) {
	path := writeFixture(t)

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("Failed to open test file: %v", err)
	}
	defer f.Close()

	rows, err := ExtractRows(f, "Sheet1")
	if err != nil {
		t.Fatalf("ExtractRows failed: %v", err)
	}

	want := []models.Row{
		{"Header1", "Header2"},
		{int64(100), 200.5, true},
		{"123"},
		{},
		{nil, nil, "tail"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("ExtractRows mismatch (-want +got):\n%s", diff)
	}
}

func TestOpenMissing(t *testing.T) {
	_, err := Codec{}.Open(filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestSetRowRemoveRowRoundTrip(t *testing.T) {
	path := writeFixture(t)

	wb, err := Codec{}.Open(path)
	require.NoError(t, err)
	require.NoError(t, wb.SetRow("Sheet1", 1, models.Row{"H1"}))
	require.NoError(t, wb.SetRow("Sheet1", 2, models.Row{nil}))
	require.NoError(t, wb.RemoveRow("Sheet1", 3))
	require.NoError(t, wb.SetRow("Sheet1", 6, models.Row{int64(7), 0.25, false, "x"}))
	require.NoError(t, wb.SaveAs(path))
	require.NoError(t, wb.Close())

	reopened, err := Codec{}.Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	rows, err := reopened.Rows("Sheet1")
	require.NoError(t, err)
	want := []models.Row{
		{"H1", "Header2"},
		{nil, 200.5, true},
		{},
		{nil, nil, "tail"},
		{},
		{int64(7), 0.25, false, "x"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary save file left behind")
}

func TestSaveKeepsFileMode(t *testing.T) {
	path := writeFixture(t)
	require.NoError(t, os.Chmod(path, 0o640))

	wb, err := Codec{}.Open(path)
	require.NoError(t, err)
	defer wb.Close()
	require.NoError(t, wb.SetRow("Sheet1", 1, models.Row{"changed"}))
	require.NoError(t, wb.SaveAs(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0o640), info.Mode().Perm())
}

func TestStylesSurviveSave(t *testing.T) {
	f := excelize.NewFile()
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "bold"))
	require.NoError(t, f.SetCellStyle("Sheet1", "A1", "A1", style))
	path := filepath.Join(t.TempDir(), "styled.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	wb, err := Codec{}.Open(path)
	require.NoError(t, err)
	require.NoError(t, wb.SetRow("Sheet1", 1, models.Row{"still bold", "plain"}))
	require.NoError(t, wb.CopySheet("Sheet1", "Copy"))
	require.NoError(t, wb.SaveAs(path))
	require.NoError(t, wb.Close())

	check, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer check.Close()
	got, err := check.GetCellStyle("Sheet1", "A1")
	require.NoError(t, err)
	assert.Equal(t, style, got)
	copied, err := check.GetCellStyle("Copy", "A1")
	require.NoError(t, err)
	assert.Equal(t, style, copied)
	assert.Equal(t, []string{"Sheet1", "Copy"}, check.GetSheetList())
}

func TestCopySheetConflictsAndMissing(t *testing.T) {
	wb := Wrap(excelize.NewFile())
	defer wb.Close()

	assert.ErrorIs(t, wb.CopySheet("Nope", "Other"), codec.ErrNoSheet)
	assert.ErrorIs(t, wb.CopySheet("Sheet1", "Sheet1"), codec.ErrSheetExists)
	_, err := wb.Rows("Nope")
	assert.ErrorIs(t, err, codec.ErrNoSheet)
	assert.ErrorIs(t, wb.SetRow("Nope", 1, models.Row{"x"}), codec.ErrNoSheet)
}
