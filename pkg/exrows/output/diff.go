package output

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/ukaji3/exrows-go/pkg/exrows/models"
)

// MaxDiffLines caps the combined row count RowDiff will compare.
const MaxDiffLines = 5000

// RowDiff renders a line diff between two versions of a sheet.
// Each row is one tab separated line; removed lines start with "-",
// added lines with "+" and unchanged lines with a space.
// The second result is true when the sheets were too large to compare.
func RowDiff(before, after []models.Row) (string, bool) {
	if len(before)+len(after) > MaxDiffLines {
		return "", true
	}
	dmp := diffmatchpatch.New()
	beforeChars, afterChars, lineArray := dmp.DiffLinesToChars(renderRows(before), renderRows(after))
	diffs := dmp.DiffMain(beforeChars, afterChars, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var b strings.Builder
	for _, d := range diffs {
		lines := strings.Split(d.Text, "\n")
		if len(lines) > 0 && lines[len(lines)-1] == "" {
			lines = lines[:len(lines)-1]
		}
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		}
		for _, line := range lines {
			b.WriteString(prefix)
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	return b.String(), false
}

func renderRows(rows []models.Row) string {
	var b strings.Builder
	for _, row := range rows {
		for i, v := range row {
			if i > 0 {
				b.WriteByte('\t')
			}
			b.WriteString(models.FormatScalar(v))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
