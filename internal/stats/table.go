package stats

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// minLastColumn is the narrowest a truncated last column may become.
const minLastColumn = 8

// tableLayout controls column alignment and the overall line width.
type tableLayout struct {
	rightAlign map[int]bool
	// maxWidth caps each line by truncating the last column. Zero disables it.
	maxWidth int
}

func rightAligned(cols ...int) tableLayout {
	layout := tableLayout{rightAlign: make(map[int]bool, len(cols))}
	for _, c := range cols {
		layout.rightAlign[c] = true
	}
	return layout
}

func (l tableLayout) clipped(maxWidth int) tableLayout {
	l.maxWidth = maxWidth
	return l
}

func formatTable(headers []string, rows [][]string, layout tableLayout) []string {
	colCount := len(headers)
	for _, row := range rows {
		colCount = max(colCount, len(row))
	}
	if colCount == 0 {
		return nil
	}

	widths := make([]int, colCount)
	for i, header := range headers {
		widths[i] = displayWidth(header)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], displayWidth(cell))
		}
	}
	last := colCount - 1
	if layout.maxWidth > 0 {
		total := colCount - 1
		for _, w := range widths {
			total += w
		}
		if over := total - layout.maxWidth; over > 0 {
			widths[last] = max(minLastColumn, widths[last]-over)
		}
	}

	lines := make([]string, 0, len(rows)+1)
	if len(headers) > 0 {
		lines = append(lines, formatRow(headers, widths, layout.rightAlign))
	}
	for _, row := range rows {
		lines = append(lines, formatRow(row, widths, layout.rightAlign))
	}
	return lines
}

func formatRow(row []string, widths []int, rightAlignCols map[int]bool) string {
	var b strings.Builder
	last := len(widths) - 1
	for i, width := range widths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		if displayWidth(cell) > width {
			cell = runewidth.Truncate(cell, width, "…")
		}
		if i == last && !rightAlignCols[i] {
			// No trailing padding on the last column.
			b.WriteString(cell)
			continue
		}
		b.WriteString(padCell(cell, width, rightAlignCols[i]))
	}
	return b.String()
}

func padCell(value string, width int, rightAlign bool) string {
	padding := width - displayWidth(value)
	if padding <= 0 {
		return value
	}
	if rightAlign {
		return strings.Repeat(" ", padding) + value
	}
	return value + strings.Repeat(" ", padding)
}

func displayWidth(value string) int {
	return runewidth.StringWidth(value)
}
