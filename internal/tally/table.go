package tally

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// alignRows pads every cell to its column's display width and joins cells with
// one space. Columns listed in right are right-aligned. Trailing padding is trimmed.
func alignRows(rows [][]string, right ...int) []string {
	widths := columnWidths(rows)
	if len(widths) == 0 {
		return nil
	}
	rightCols := make(map[int]bool, len(right))
	for _, col := range right {
		rightCols[col] = true
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		cells := make([]string, len(widths))
		for col, width := range widths {
			var cell string
			if col < len(row) {
				cell = row[col]
			}
			cells[col] = pad(cell, width, rightCols[col])
		}
		lines = append(lines, strings.TrimRight(strings.Join(cells, " "), " "))
	}
	return lines
}

func columnWidths(rows [][]string) []int {
	var widths []int
	for _, row := range rows {
		for col, cell := range row {
			if col >= len(widths) {
				widths = append(widths, 0)
			}
			widths[col] = max(widths[col], displayWidth(cell))
		}
	}
	return widths
}

func pad(cell string, width int, right bool) string {
	gap := width - displayWidth(cell)
	if gap <= 0 {
		return cell
	}
	if right {
		return strings.Repeat(" ", gap) + cell
	}
	return cell + strings.Repeat(" ", gap)
}

// displayWidth measures terminal cells so Bengali labels with combining signs align.
func displayWidth(value string) int {
	return runewidth.StringWidth(value)
}
