package services

import (
	"context"
	"errors"
	"strconv"
	"time"

	"waterlog/internal/core"
	applog "waterlog/internal/log"
	"waterlog/internal/store"
)

// IntakeService is the only writer of the intake log. It stamps entries with
// the current calendar day and owns the reset operation.
type IntakeService struct {
	store store.Store
	now   func() time.Time
}

func NewIntakeService(s store.Store, now func() time.Time) *IntakeService {
	if now == nil {
		now = time.Now
	}
	return &IntakeService{store: s, now: now}
}

// Today returns the current local calendar day.
func (s *IntakeService) Today() core.Date {
	return core.DateOf(s.now())
}

// Log records amount ml for today. An amount outside 1..core.MaxAmount is a
// *core.ValidationError and leaves the log untouched.
func (s *IntakeService) Log(ctx context.Context, amount int) (core.Intake, error) {
	if amount <= 0 {
		return core.Intake{}, &core.ValidationError{Input: strconv.Itoa(amount), Reason: core.ErrInvalidAmount}
	}
	if amount > core.MaxAmount {
		return core.Intake{}, &core.ValidationError{Input: strconv.Itoa(amount), Reason: core.ErrAmountTooLarge}
	}

	in := core.Intake{Date: s.Today(), Amount: amount}
	if err := s.store.Append(ctx, in); err != nil {
		return core.Intake{}, err
	}

	applog.FromContext(ctx).InfoContext(ctx, "Intake logged",
		applog.NewFields().WithIntake(in.Date.String(), in.Amount).ToSlice()...)
	return in, nil
}

// Reset deletes the whole log to start a new tracking period.
func (s *IntakeService) Reset(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return err
	}
	applog.FromContext(ctx).InfoContext(ctx, "Intake log reset")
	return nil
}

// Close releases the store if it holds resources.
func (s *IntakeService) Close() error {
	if c, ok := s.store.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// IsUserError reports whether err is recoverable user input trouble rather
// than a storage or data fault.
func IsUserError(err error) bool {
	var ve *core.ValidationError
	return errors.As(err, &ve)
}
