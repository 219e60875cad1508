// Package session runs the interactive hydration menu as an explicit state
// machine. Input arrives one line at a time through Handle, so whole
// sessions can be scripted without a terminal.
package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"waterlog/internal/core"
	applog "waterlog/internal/log"
	"waterlog/internal/render"
	"waterlog/internal/services"
)

type State int

const (
	StateMenu State = iota
	StateAwaitingAmount
	StateAwaitingConfirm
	StateDone
)

func (s State) String() string {
	switch s {
	case StateMenu:
		return "MENU"
	case StateAwaitingAmount:
		return "AWAITING_AMOUNT"
	case StateAwaitingConfirm:
		return "AWAITING_CONFIRM"
	case StateDone:
		return "DONE"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// action is the mutation waiting for confirmation.
type action int

const (
	actionNone action = iota
	actionLog
	actionReset
)

const menuText = `Water Tracker
1.  Log more water        (log)
2.  View water progress   (progress)
22. View progress as %    (percent)
3.  Start a new day       (reset)
4.  View weekly progress  (week)
6.  Exit                  (exit)`

// Controller translates menu commands into log, aggregate and render calls.
// It is not safe for concurrent use; a session is strictly sequential.
type Controller struct {
	intake   *services.IntakeService
	agg      *services.Aggregator
	renderer render.Renderer
	out      io.Writer
	logger   *applog.Logger

	state   State
	pending action
	amount  int
}

func New(intake *services.IntakeService, agg *services.Aggregator, r render.Renderer, out io.Writer, logger *applog.Logger) *Controller {
	if logger == nil {
		logger = applog.Discard()
	}
	return &Controller{
		intake:   intake,
		agg:      agg,
		renderer: r,
		out:      out,
		logger: logger.
			WithComponent(applog.ComponentSession).
			With(applog.FieldSessionID, uuid.NewString()),
		state: StateMenu,
	}
}

func (c *Controller) State() State { return c.state }

func (c *Controller) Done() bool { return c.state == StateDone }

// Start prints the menu.
func (c *Controller) Start() {
	c.println(menuText)
}

// Prompt prints the input prompt for the current state.
func (c *Controller) Prompt() {
	switch c.state {
	case StateMenu:
		c.print("\nSelect an option: ")
	case StateAwaitingAmount:
		c.print("Enter water amount (ml), or 'cancel': ")
	case StateAwaitingConfirm:
		switch c.pending {
		case actionLog:
			c.print(fmt.Sprintf("Confirm logging %dml? (y/n): ", c.amount))
		case actionReset:
			c.print("Start a new day? All logged intake will be deleted. (y/n): ")
		}
	}
}

// Handle consumes one line of input and returns the resulting state.
func (c *Controller) Handle(ctx context.Context, line string) State {
	prev := c.state
	switch c.state {
	case StateMenu:
		c.handleMenu(ctx, line)
	case StateAwaitingAmount:
		c.handleAmount(ctx, line)
	case StateAwaitingConfirm:
		c.handleConfirm(ctx, line)
	}
	if c.state != prev {
		c.logger.DebugContext(ctx, "State changed", applog.FieldState, c.state.String())
	}
	return c.state
}

// Run reads lines from in until the user exits or input ends. End of input
// while a confirmation is pending declines it.
func (c *Controller) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	c.Start()
	for !c.Done() {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.Prompt()
		if !scanner.Scan() {
			c.println()
			if c.state != StateMenu {
				c.logger.WarnContext(ctx, "Input ended mid-action", applog.FieldState, c.state.String())
				c.cancel()
			}
			c.state = StateDone
			return scanner.Err()
		}
		c.Handle(ctx, scanner.Text())
	}
	return nil
}

func (c *Controller) handleMenu(ctx context.Context, line string) {
	cmd := strings.ToLower(strings.TrimSpace(line))
	c.logger.DebugContext(ctx, "Menu command", applog.FieldCommand, cmd)

	switch cmd {
	case "":
		// blank line, prompt again
	case "1", "log", "log-water":
		c.state = StateAwaitingAmount
	case "2", "progress", "view-progress":
		c.showProgress(ctx)
	case "22", "percent", "view-percent":
		c.showPercent(ctx)
	case "3", "reset", "new-day":
		c.pending = actionReset
		c.state = StateAwaitingConfirm
	case "4", "week", "weekly-view":
		c.showWeek(ctx)
	case "help", "?", "menu":
		c.Start()
	case "6", "exit", "quit", "q":
		c.println("Exiting. Stay hydrated!")
		c.state = StateDone
	default:
		c.println("Invalid choice. Please select again.")
	}
}

func (c *Controller) handleAmount(ctx context.Context, line string) {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "", "cancel":
		c.cancel()
		return
	}

	amount, err := core.ParseAmount(line)
	if err != nil {
		c.report(ctx, applog.OpValidate, err)
		return
	}
	c.amount = amount
	c.pending = actionLog
	c.state = StateAwaitingConfirm
}

func (c *Controller) handleConfirm(ctx context.Context, line string) {
	if !isYes(line) {
		c.cancel()
		return
	}

	pending, amount := c.pending, c.amount
	c.reset()

	switch pending {
	case actionLog:
		if _, err := c.intake.Log(ctx, amount); err != nil {
			c.report(ctx, applog.OpAppend, err)
			return
		}
		c.println(fmt.Sprintf("%dml logged!", amount))
	case actionReset:
		if err := c.intake.Reset(ctx); err != nil {
			c.report(ctx, applog.OpClear, err)
			return
		}
		c.println("New day started!")
	}
}

func (c *Controller) showProgress(ctx context.Context) {
	total, err := c.agg.TotalFor(ctx, c.intake.Today())
	if err != nil {
		c.report(ctx, applog.OpRead, err)
		return
	}
	c.logProgress(ctx, total)
	c.println("\nDaily Progress")
	for _, l := range c.renderer.Bar(total) {
		c.println(l)
	}
}

func (c *Controller) showPercent(ctx context.Context) {
	total, err := c.agg.TotalFor(ctx, c.intake.Today())
	if err != nil {
		c.report(ctx, applog.OpRead, err)
		return
	}
	c.logProgress(ctx, total)
	c.println(c.renderer.Percent(total))
}

func (c *Controller) logProgress(ctx context.Context, total int) {
	c.logger.DebugContext(ctx, "Progress rendered",
		applog.FieldTotalML, total,
		applog.FieldGoalML, c.renderer.Goal())
}

func (c *Controller) showWeek(ctx context.Context) {
	days, err := c.agg.Window(ctx, c.intake.Today())
	if err != nil {
		c.report(ctx, applog.OpRead, err)
		return
	}
	c.println(fmt.Sprintf("\nWeekly Progress (last %d days)", c.agg.WindowDays()))
	for _, l := range c.renderer.Weekly(days) {
		c.println(l)
	}
}

func (c *Controller) cancel() {
	c.reset()
	c.println("Action canceled.")
}

func (c *Controller) reset() {
	c.state = StateMenu
	c.pending = actionNone
	c.amount = 0
}

// report prints a user-facing message for err and logs it. The session
// always carries on; state is left as the caller set it.
func (c *Controller) report(ctx context.Context, op string, err error) {
	var (
		ve *core.ValidationError
		pe *core.PersistenceError
		de *core.DataError
	)
	switch {
	case errors.As(err, &ve):
		c.println(fmt.Sprintf("Invalid amount: please enter a whole number of ml from 1 to %d.", core.MaxAmount))
		c.logger.DebugContext(ctx, "Rejected input",
			applog.NewFields().WithError(err).WithErrorType(applog.ErrorTypeValidation).WithOperation(op).ToSlice()...)
	case errors.As(err, &de):
		c.println("Stored data is malformed: " + de.Error())
		c.logger.LogError(ctx, "Malformed intake log", err, applog.ErrorTypeData, op, nil)
	case errors.As(err, &pe):
		c.println("Could not access the intake log: " + pe.Error())
		c.logger.LogError(ctx, "Storage failure", err, applog.ErrorTypePersistence, op, nil)
	default:
		c.println("Error: " + err.Error())
		c.logger.LogError(ctx, "Unexpected failure", err, applog.ErrorTypeInternal, op, nil)
	}
}

func isYes(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return true
	}
	return false
}

func (c *Controller) print(s string) {
	fmt.Fprint(c.out, s)
}

func (c *Controller) println(a ...any) {
	fmt.Fprintln(c.out, a...)
}
