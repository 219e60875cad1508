package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"waterlog/internal/core"
)

func TestPercentage(t *testing.T) {
	tests := []struct {
		total, goal int
		want        float64
	}{
		{1200, 2000, 60.0},
		{0, 2000, 0},
		{2000, 2000, 100},
		{5000, 2000, 100},
		{-10, 2000, 0},
		{1, 3, 100.0 / 3},
	}
	for _, tc := range tests {
		assert.InDelta(t, tc.want, Percentage(tc.total, tc.goal), 1e-9, "total=%d goal=%d", tc.total, tc.goal)
	}
}

func TestPercentageMonotoneAndBounded(t *testing.T) {
	for _, goal := range []int{1, 7, 250, 2000, 3333} {
		prev := -1.0
		for total := 0; total <= 3*goal+10; total += 1 + goal/50 {
			p := Percentage(total, goal)
			require.GreaterOrEqual(t, p, 0.0)
			require.LessOrEqual(t, p, 100.0)
			require.GreaterOrEqual(t, p, prev, "goal=%d total=%d", goal, total)
			prev = p
		}
	}
}

func TestBarFill(t *testing.T) {
	tests := []struct {
		total, goal, height, want int
	}{
		{1200, 2000, 20, 12},
		{1200, 2000, 10, 6},
		{1999, 2000, 10, 9},
		{2000, 2000, 10, 10},
		{9000, 2000, 10, 10},
		{0, 2000, 10, 0},
		{100, 2000, 0, 0},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, BarFill(tc.total, tc.goal, tc.height), "%+v", tc)
	}
}

func TestNewRendererValidates(t *testing.T) {
	_, err := NewRenderer(0, 10)
	assert.ErrorIs(t, err, ErrInvalidGoal)
	_, err = NewRenderer(2000, 0)
	assert.ErrorIs(t, err, ErrInvalidBarHeight)
}

func TestBarFillsFromBottom(t *testing.T) {
	r, err := NewRenderer(2000, 4)
	require.NoError(t, err)

	lines := r.Bar(1000) // 50% of 4 rows = 2
	require.Len(t, lines, 4+3)
	assert.Equal(t, "|  |", lines[1])
	assert.Equal(t, "|  |", lines[2])
	assert.Equal(t, "|██|", lines[3])
	assert.Equal(t, "|██|", lines[4])
	assert.Equal(t, "1000/2000 ml", lines[len(lines)-1])
}

func TestPercentText(t *testing.T) {
	r, _ := NewRenderer(2000, 10)
	assert.Equal(t, "Daily Progress: 60.0%", r.Percent(1200))
	assert.Equal(t, "Daily Progress: 100.0%", r.Percent(4000))
}

func TestWeeklyTable(t *testing.T) {
	r, _ := NewRenderer(2000, 10)
	d := core.NewDate(2025, 3, 1)
	lines := r.Weekly([]core.DayTotal{
		{Day: d, Total: 300},
		{Day: d.AddDays(1), Total: 2500},
	})

	require.Len(t, lines, 4)
	assert.Equal(t, "Day         Intake   Goal", lines[0])
	assert.Equal(t, "2025-03-01  300 ml   15%", lines[1])
	assert.Equal(t, "2025-03-02  2500 ml  100%", lines[2])
	assert.True(t, strings.HasPrefix(lines[3], "Total:"))
	assert.Contains(t, lines[3], "2800 ml")
}
