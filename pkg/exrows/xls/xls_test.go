package xls

import (
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/exrows-go/pkg/exrows/codec"
	"github.com/ukaji3/exrows-go/pkg/exrows/models"
)

func TestOpenMissing(t *testing.T) {
	_, err := Codec{}.Open(filepath.Join(t.TempDir(), "legacy.xls"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestBuildParsesAndIsReadOnly(t *testing.T) {
	wb, err := build([]sheetText{
		{name: "Legacy", rows: [][]string{{"name", "qty"}, nil, {"bolt", "12"}, {"", ""}}},
		{name: "Empty"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Legacy", "Empty"}, wb.SheetNames())

	rows, err := wb.Rows("Legacy")
	require.NoError(t, err)
	assert.Equal(t, []models.Row{{"name", "qty"}, {}, {"bolt", int64(12)}}, rows)

	require.NoError(t, wb.SetRow("Legacy", 4, models.Row{"nut"}))
	assert.ErrorIs(t, wb.SaveAs("legacy.xls"), codec.ErrReadOnly)
}

func TestBuildRejectsDuplicateSheets(t *testing.T) {
	_, err := build([]sheetText{{name: "A"}, {name: "A"}})
	assert.ErrorIs(t, err, codec.ErrSheetExists)
}
