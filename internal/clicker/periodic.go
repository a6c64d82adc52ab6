package clicker

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/MarioMihret/Auto-Clicker-Mouse-for-Desktop/internal/config"
	"github.com/MarioMihret/Auto-Clicker-Mouse-for-Desktop/internal/overlay"
	"github.com/MarioMihret/Auto-Clicker-Mouse-for-Desktop/internal/session"
)

// ErrBudgetExhausted means the loop stopped itself after accumulating
// too many click errors.
var ErrBudgetExhausted = errors.New("click error budget exhausted")

// Target is one (session, window, coordinate) triple the loop clicks on
// every tick. Window is the token captured when the coordinate was
// selected; the click is skipped when that window no longer exists.
type Target struct {
	Session session.Handle
	Window  string
	X, Y    int
}

// Capture builds a Target pinned to the session's currently active window.
func Capture(h session.Handle, x, y int) (Target, error) {
	w, err := h.CurrentWindow()
	if err != nil {
		return Target{}, fmt.Errorf("capturing active window: %w", err)
	}
	return Target{Session: h, Window: w, X: x, Y: y}, nil
}

// Status is the final accounting of a Run.
type Status struct {
	Ticks  int
	Clicks int
	Errors int
	// Err is ErrBudgetExhausted when the loop stopped itself; nil when it
	// was stopped cooperatively or by context.
	Err error
}

// Loop repeatedly dispatches synthetic clicks at a set of targets on a
// fixed interval. Stopping is cooperative: the flag is checked at every
// tick boundary and before every target, and an in-flight click always
// finishes.
type Loop struct {
	logger    *zap.Logger
	interval  time.Duration
	maxErrors int

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
	started  atomic.Bool
}

func NewLoop(cfg config.ClickerConfig, logger *zap.Logger) *Loop {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	if cfg.MaxErrors <= 0 {
		cfg.MaxErrors = 5
	}
	return &Loop{
		logger:    logger.With(zap.String("component", "clicker")),
		interval:  cfg.Interval,
		maxErrors: cfg.MaxErrors,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

func (l *Loop) stopped() bool {
	select {
	case <-l.stop:
		return true
	default:
		return false
	}
}

// Run blocks, clicking every target once per tick until Stop is called,
// ctx is cancelled, or the cumulative error count reaches the budget.
// A Loop runs at most once.
func (l *Loop) Run(ctx context.Context, targets []Target) Status {
	l.started.Store(true)
	defer close(l.done)

	var st Status
	l.logger.Info("click loop started",
		zap.Int("targets", len(targets)), zap.Duration("interval", l.interval))

	for {
		if l.stopped() || ctx.Err() != nil {
			l.logger.Info("click loop stopped",
				zap.Int("ticks", st.Ticks), zap.Int("clicks", st.Clicks), zap.Int("errors", st.Errors))
			return st
		}

		for _, tgt := range targets {
			if l.stopped() || ctx.Err() != nil {
				return st
			}
			if err := l.clickOnce(tgt); err != nil {
				st.Errors++
				l.logger.Warn("click failed",
					zap.Int("session", tgt.Session.Index()),
					zap.Int("x", tgt.X), zap.Int("y", tgt.Y),
					zap.Int("errors", st.Errors), zap.Error(err))
				if st.Errors >= l.maxErrors {
					st.Err = ErrBudgetExhausted
					l.logger.Error("stopping: error budget exhausted",
						zap.Int("errors", st.Errors))
					return st
				}
				continue
			}
			st.Clicks++
		}
		st.Ticks++

		select {
		case <-l.stop:
			return st
		case <-ctx.Done():
			return st
		case <-time.After(l.interval):
		}
	}
}

// clickOnce ensures the target's captured window is still present and
// active, then dispatches the click.
func (l *Loop) clickOnce(tgt Target) error {
	tokens, err := tgt.Session.WindowTokens()
	if err != nil {
		return err
	}
	if !slices.Contains(tokens, tgt.Window) {
		return fmt.Errorf("%w: window %s is gone", session.ErrUnreachable, tgt.Window)
	}
	current, err := tgt.Session.CurrentWindow()
	if err != nil || current != tgt.Window {
		if err := tgt.Session.Focus(tgt.Window); err != nil {
			return err
		}
	}
	return overlay.ClickAt(tgt.Session, tgt.X, tgt.Y)
}

// Stop signals the loop and waits briefly for it to observe the signal.
// Implements orchestrator.Stopper. Safe to call more than once or before
// Run.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
	if !l.started.Load() {
		return
	}
	select {
	case <-l.done:
	case <-time.After(l.interval + time.Second):
		l.logger.Warn("click loop still draining at stop deadline")
	}
}
