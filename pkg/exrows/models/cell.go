package models

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"
)

// MaxSheetNameLength is the longest sheet title the host format accepts.
const MaxSheetNameLength = 31

// ErrInvalidSheetName indicates a sheet title the host format rejects.
var ErrInvalidSheetName = errors.New("invalid sheet name")

// ColumnName converts a 1-based column number to letters (1 -> "A", 27 -> "AA").
func ColumnName(n int) string {
	if n < 1 {
		return ""
	}
	var s []byte
	for n > 0 {
		s = append([]byte{byte('A' + (n-1)%26)}, s...)
		n = (n - 1) / 26
	}
	return string(s)
}

// CellName converts 1-based coordinates to a cell reference like "B3".
func CellName(col, row int) string {
	return ColumnName(col) + strconv.Itoa(row)
}

// ValidateSheetName checks a title against the host format's naming rules.
func ValidateSheetName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidSheetName
	}
	if utf8.RuneCountInString(name) > MaxSheetNameLength {
		return ErrInvalidSheetName
	}
	if strings.ContainsAny(name, `:\/?*[]`) {
		return ErrInvalidSheetName
	}
	if strings.HasPrefix(name, "'") || strings.HasSuffix(name, "'") {
		return ErrInvalidSheetName
	}
	return nil
}
