// Package a1 implements A1-notation coordinate conversions shared by the
// workbook loader, the reference normalizer, and the dependency analyzer.
// Column letters use base-26 with no zero digit (A=1, Z=26, AA=27, ...),
// matching spreadsheet convention rather than pure base-26 arithmetic.
package a1

import (
	"fmt"
	"strconv"
	"strings"
)

// ColumnToIndex converts a column letter sequence ("A", "Z", "AA", ...) to a
// 1-based column index. The letters are expected upper-case; callers that
// might receive lower-case input should upper-case first.
func ColumnToIndex(col string) (int, error) {
	if col == "" {
		return 0, fmt.Errorf("a1: empty column")
	}
	idx := 0
	for _, ch := range col {
		if ch < 'A' || ch > 'Z' {
			return 0, fmt.Errorf("a1: invalid column letter %q", col)
		}
		idx = idx*26 + int(ch-'A'+1)
	}
	return idx, nil
}

// IndexToColumn converts a 1-based column index back to its letter sequence.
func IndexToColumn(idx int) string {
	if idx <= 0 {
		return ""
	}
	var sb strings.Builder
	letters := make([]byte, 0, 4)
	for idx > 0 {
		idx--
		letters = append(letters, byte('A'+idx%26))
		idx /= 26
	}
	for i := len(letters) - 1; i >= 0; i-- {
		sb.WriteByte(letters[i])
	}
	return sb.String()
}

// Split breaks an A1 coordinate like "$C$12" into its column-letter and
// row-number parts, stripping any absolute ($) markers.
func Split(coord string) (col string, row int, err error) {
	stripped := strings.ReplaceAll(coord, "$", "")
	i := 0
	for i < len(stripped) && isAlpha(stripped[i]) {
		i++
	}
	if i == 0 || i == len(stripped) {
		return "", 0, fmt.Errorf("a1: malformed coordinate %q", coord)
	}
	col = strings.ToUpper(stripped[:i])
	row, err = strconv.Atoi(stripped[i:])
	if err != nil {
		return "", 0, fmt.Errorf("a1: malformed row in %q: %w", coord, err)
	}
	return col, row, nil
}

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// Parse converts an A1 coordinate into a zero-based (row, col) pair, the
// representation used internally by workbook.Cell.
func Parse(coord string) (row, col int, err error) {
	colStr, rowNum, err := Split(coord)
	if err != nil {
		return 0, 0, err
	}
	colIdx, err := ColumnToIndex(colStr)
	if err != nil {
		return 0, 0, err
	}
	return rowNum - 1, colIdx - 1, nil
}

// Format renders a zero-based (row, col) pair back to A1 notation.
func Format(row, col int) string {
	return fmt.Sprintf("%s%d", IndexToColumn(col+1), row+1)
}

// IsCoordinate reports whether s looks like a bare A1 coordinate (as opposed
// to a bare-column token like "D" used in column-only ranges).
func IsCoordinate(s string) bool {
	_, _, err := Split(s)
	return err == nil
}
