// Package table lays out i-statements as a column-aligned score block.
//
// The first row is a comment header naming the p-fields (";p1 p2 ..."),
// followed by one row per statement. Every column is padded to its widest
// cell and columns are separated by a fixed run of eight spaces. Trailing
// whitespace is stripped from every line and the block ends with a single
// newline.
package table

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/roach88/csgen/internal/ir"
)

// Separator sits between adjacent columns.
const Separator = "        "

// CommentMarker starts the header row so Csound ignores it.
const CommentMarker = ";"

// Render formats statements as an aligned table. The header names as many
// p-fields as the first statement has. An empty input renders as "".
func Render(statements []*ir.Statement) string {
	if len(statements) == 0 {
		return ""
	}
	return Format(Rows(statements))
}

// Rows builds the header row and one display row per statement.
func Rows(statements []*ir.Statement) [][]string {
	if len(statements) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(statements)+1)
	rows = append(rows, Header(statements[0].Len()))
	for _, s := range statements {
		rows = append(rows, s.DisplayFields())
	}
	return rows
}

// Header returns ";p1", "p2", ... "pN".
func Header(n int) []string {
	cells := make([]string, n)
	for i := range cells {
		cells[i] = fmt.Sprintf("p%d", i+1)
	}
	if n > 0 {
		cells[0] = CommentMarker + cells[0]
	}
	return cells
}

// Widths returns the width of each column: the longest cell in it, counted
// in characters.
func Widths(rows [][]string) []int {
	var widths []int
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			if n := utf8.RuneCountInString(cell); n > widths[i] {
				widths[i] = n
			}
		}
	}
	return widths
}

// Format left-justifies every cell to its column width and joins the rows.
// Rows shorter than the widest row simply end early.
func Format(rows [][]string) string {
	widths := Widths(rows)

	var b strings.Builder
	for _, row := range rows {
		var line strings.Builder
		for i, cell := range row {
			if i > 0 {
				line.WriteString(Separator)
			}
			line.WriteString(cell)
			if pad := widths[i] - utf8.RuneCountInString(cell); pad > 0 {
				line.WriteString(strings.Repeat(" ", pad))
			}
		}
		b.WriteString(strings.TrimRight(line.String(), " \t"))
		b.WriteByte('\n')
	}
	return b.String()
}
