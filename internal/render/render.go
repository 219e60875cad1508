// Package render turns totals into display lines. Nothing here performs I/O;
// callers decide where the lines go.
package render

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"waterlog/internal/core"
)

const (
	filledCell = "█"
	emptyCell  = " "
)

var (
	ErrInvalidGoal      = errors.New("daily goal must be greater than zero")
	ErrInvalidBarHeight = errors.New("bar height must be greater than zero")
)

// Percentage returns min(100, total/goal*100), clamped below at 0.
// goal must be positive; NewRenderer enforces that for configured goals.
func Percentage(total, goal int) float64 {
	if goal <= 0 || total <= 0 {
		return 0
	}
	return math.Min(100, float64(total)/float64(goal)*100)
}

// BarFill returns how many of height rows are filled: floor(pct/100*height).
func BarFill(total, goal, height int) int {
	if height <= 0 {
		return 0
	}
	fill := int(math.Floor(Percentage(total, goal) / 100 * float64(height)))
	if fill > height {
		fill = height
	}
	return fill
}

// Renderer holds the display geometry and the goal totals are measured against.
type Renderer struct {
	goal      int
	barHeight int
}

func NewRenderer(goal, barHeight int) (Renderer, error) {
	if goal <= 0 {
		return Renderer{}, ErrInvalidGoal
	}
	if barHeight <= 0 {
		return Renderer{}, ErrInvalidBarHeight
	}
	return Renderer{goal: goal, barHeight: barHeight}, nil
}

func (r Renderer) Goal() int { return r.goal }

// Bar draws a vertical bar filled from the bottom, top row first, followed by
// the absolute total.
//
//	==========
//	|  |
//	|██|
//	==========
//	1200/2000 ml
func (r Renderer) Bar(total int) []string {
	fill := BarFill(total, r.goal, r.barHeight)
	rule := strings.Repeat("=", 10)

	lines := make([]string, 0, r.barHeight+3)
	lines = append(lines, rule)
	for row := r.barHeight; row >= 1; row-- {
		cell := emptyCell
		if row <= fill {
			cell = filledCell
		}
		lines = append(lines, "|"+strings.Repeat(cell, 2)+"|")
	}
	lines = append(lines, rule, r.Absolute(total))
	return lines
}

// Absolute formats "total/goal ml".
func (r Renderer) Absolute(total int) string {
	return fmt.Sprintf("%d/%d ml", total, r.goal)
}

// Percent formats the share of the goal with one decimal.
func (r Renderer) Percent(total int) string {
	return fmt.Sprintf("Daily Progress: %.1f%%", Percentage(total, r.goal))
}

// Weekly renders one row per day, oldest first, with a total footer.
func (r Renderer) Weekly(days []core.DayTotal) []string {
	headers := []string{"Day", "Intake", "Goal"}
	rows := make([][]string, 0, len(days))
	sum := 0
	for _, d := range days {
		sum += d.Total
		rows = append(rows, []string{
			d.Day.String(),
			fmt.Sprintf("%d ml", d.Total),
			fmt.Sprintf("%.0f%%", Percentage(d.Total, r.goal)),
		})
	}
	footers := []string{"Total:", fmt.Sprintf("%d ml", sum), ""}
	return Table(headers, rows, footers)
}

// Table lays out left-aligned columns sized to their widest cell. Empty
// footer cells are padded so columns stay aligned.
func Table(headers []string, rows [][]string, footers []string) []string {
	colWidths := make([]int, len(headers))
	for i, header := range headers {
		colWidths[i] = cellWidth(header)
	}
	widen := func(cells []string) {
		for i, cell := range cells {
			if i < len(colWidths) && cellWidth(cell) > colWidths[i] {
				colWidths[i] = cellWidth(cell)
			}
		}
	}
	for _, row := range rows {
		widen(row)
	}
	widen(footers)

	format := func(cells []string) string {
		var b strings.Builder
		for i := range colWidths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(cell)
			b.WriteString(strings.Repeat(" ", colWidths[i]-cellWidth(cell)))
		}
		return strings.TrimRight(b.String(), " ")
	}

	lines := make([]string, 0, len(rows)+2)
	lines = append(lines, format(headers))
	for _, row := range rows {
		lines = append(lines, format(row))
	}
	if len(footers) > 0 {
		lines = append(lines, format(footers))
	}
	return lines
}

func cellWidth(s string) int {
	return len([]rune(s))
}
