package csvfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/exrows-go/pkg/exrows/models"
)

func TestOpenReadsFieldsAsText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,name,ok\n1,\"a, b\",TRUE\n2.5,,FALSE\n"), 0o644))

	wb, err := Codec{}.Open(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"sales"}, wb.SheetNames())

	rows, err := wb.Rows("sales")
	require.NoError(t, err)
	want := []models.Row{
		{"id", "name", "ok"},
		{"1", "a, b", "TRUE"},
		{"2.5", nil, "FALSE"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("a;b\n"), 0o644))
	c := Codec{Comma: ';'}

	wb, err := c.Open(path)
	require.NoError(t, err)
	require.NoError(t, wb.SetRow("data", 2, models.Row{int64(3), "x;y", true}))
	require.NoError(t, wb.SaveAs(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a;b\n3;\"x;y\";TRUE\n", string(raw))

	reopened, err := c.Open(path)
	require.NoError(t, err)
	rows, err := reopened.Rows("data")
	require.NoError(t, err)
	assert.Equal(t, models.Row{"3", "x;y", "TRUE"}, rows[1])
}

func TestTextLikeValuesSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codes.csv")
	require.NoError(t, os.WriteFile(path, []byte("code\n"), 0o644))

	wb, err := Codec{}.Open(path)
	require.NoError(t, err)
	require.NoError(t, wb.SetRow("codes", 2, models.Row{"007", "TRUE", "1.50", int64(3), 0.5, false}))
	require.NoError(t, wb.SetRow("codes", 4, models.Row{"last"}))

	before, err := wb.Rows("codes")
	require.NoError(t, err)
	assert.Equal(t, []models.Row{
		{"code"},
		{"007", "TRUE", "1.50", "3", "0.5", "FALSE"},
		{},
		{"last"},
	}, before)
	require.NoError(t, wb.SaveAs(path))

	reopened, err := Codec{}.Open(path)
	require.NoError(t, err)
	after, err := reopened.Rows("codes")
	require.NoError(t, err)
	if diff := cmp.Diff(before, after); diff != "" {
		t.Errorf("reopened rows differ (-saved +reopened):\n%s", diff)
	}
}

func TestCopySheetUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "one.csv")
	require.NoError(t, os.WriteFile(path, []byte("x\n"), 0o644))
	wb, err := Codec{}.Open(path)
	require.NoError(t, err)
	assert.True(t, errors.Is(wb.CopySheet("one", "two"), errors.ErrUnsupported))
}
