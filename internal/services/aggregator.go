package services

import (
	"context"
	"errors"
	"fmt"

	"waterlog/internal/core"
	"waterlog/internal/store"
)

// MaxWindowDays caps multi-day views; history beyond a week is out of scope.
const MaxWindowDays = 7

var ErrWindowSize = fmt.Errorf("window size must be between 1 and %d days", MaxWindowDays)

// TotalFor sums the amounts of all entries dated day. It is a pure function
// of the snapshot; an invalid entry is reported, never skipped.
func TotalFor(entries []core.Intake, day core.Date) (int, error) {
	total := 0
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return 0, err
		}
		if e.Date.Equal(day) {
			total += e.Amount
		}
	}
	return total, nil
}

// TotalsForWindow returns one DayTotal for each of the n days ending at end
// (inclusive), oldest first. Days without entries total 0 and entries outside
// the window are ignored.
func TotalsForWindow(entries []core.Intake, end core.Date, n int) ([]core.DayTotal, error) {
	if n < 1 || n > MaxWindowDays {
		return nil, ErrWindowSize
	}
	if err := end.Validate(); err != nil {
		return nil, err
	}

	start := end.AddDays(-(n - 1))
	out := make([]core.DayTotal, n)
	index := make(map[string]int, n)
	for i := range out {
		d := start.AddDays(i)
		out[i] = core.DayTotal{Day: d}
		index[d.String()] = i
	}

	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return nil, err
		}
		if i, ok := index[e.Date.String()]; ok {
			out[i].Total += e.Amount
		}
	}
	return out, nil
}

// Aggregator computes totals from the current log snapshot.
type Aggregator struct {
	reader     store.Reader
	windowDays int
}

func NewAggregator(r store.Reader, windowDays int) (*Aggregator, error) {
	if r == nil {
		return nil, errors.New("aggregator needs a reader")
	}
	if windowDays < 1 || windowDays > MaxWindowDays {
		return nil, ErrWindowSize
	}
	return &Aggregator{reader: r, windowDays: windowDays}, nil
}

// WindowDays returns the configured window length.
func (a *Aggregator) WindowDays() int { return a.windowDays }

// TotalFor reads the log and sums the entries for day.
func (a *Aggregator) TotalFor(ctx context.Context, day core.Date) (int, error) {
	entries, err := a.reader.ReadAll(ctx)
	if err != nil {
		return 0, err
	}
	return TotalFor(entries, day)
}

// Window reads the log and totals the configured window ending at end.
func (a *Aggregator) Window(ctx context.Context, end core.Date) ([]core.DayTotal, error) {
	entries, err := a.reader.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	return TotalsForWindow(entries, end, a.windowDays)
}
