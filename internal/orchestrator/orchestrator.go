package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/MarioMihret/Auto-Clicker-Mouse-for-Desktop/internal/session"
	"github.com/MarioMihret/Auto-Clicker-Mouse-for-Desktop/internal/task"
)

// ErrIndexOutOfRange is returned by Add when the session index does not
// name a live session.
var ErrIndexOutOfRange = errors.New("session index out of range")

// SessionFactory creates session handles. It is an interface so tests can
// substitute fakes for real browsers.
type SessionFactory interface {
	Create(ctx context.Context, count int, kind session.Kind, headless bool, locations []string) ([]session.Handle, error)
}

// Stopper is a background loop tied to the orchestrator's sessions. Stop
// must signal the loop cooperatively and return once the loop has
// observed the signal or a bounded wait has elapsed.
type Stopper interface {
	Stop()
}

type submission struct {
	task  *task.Task
	index int
}

// Orchestrator owns a set of live sessions and their records, schedules
// task execution across them, and persists the run into a recording.
//
// Tasks addressed to different sessions run concurrently; tasks addressed
// to the same session run strictly in submission order. Callers must not
// invoke SaveRecording concurrently with ExecuteAll.
type Orchestrator struct {
	logger  *zap.Logger
	factory SessionFactory

	recordingEnabled bool
	recordingDir     string
	continueOnError  bool
	runID            string

	sessions []session.Handle
	records  []*SessionRecord
	pending  []submission
	stoppers []Stopper
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithRecording toggles automatic recording and sets the directory
// recordings are written to and resolved against.
func WithRecording(enabled bool, dir string) Option {
	return func(o *Orchestrator) {
		o.recordingEnabled = enabled
		if dir != "" {
			o.recordingDir = dir
		}
	}
}

// WithContinueOnError controls whether a failed task aborts the rest of
// its session's chain. The default is to continue.
func WithContinueOnError(continueOnError bool) Option {
	return func(o *Orchestrator) { o.continueOnError = continueOnError }
}

func New(factory SessionFactory, logger *zap.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		logger:           logger.With(zap.String("component", "orchestrator")),
		factory:          factory,
		recordingEnabled: true,
		recordingDir:     "browser_recordings",
		continueOnError:  true,
		runID:            newRunID(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// RunID identifies this run; the recording filename derives from it.
func (o *Orchestrator) RunID() string { return o.runID }

// Sessions returns the live session handles in index order.
func (o *Orchestrator) Sessions() []session.Handle { return o.sessions }

// CreateSessions launches count sessions and opens a record for each one.
// Partial success is allowed: the returned slice may be shorter than
// count when individual sessions fail to start.
func (o *Orchestrator) CreateSessions(ctx context.Context, count int, kind session.Kind, headless bool, locations []string) ([]session.Handle, error) {
	handles, err := o.factory.Create(ctx, count, kind, headless, locations)
	if err != nil {
		return nil, err
	}
	for _, h := range handles {
		o.sessions = append(o.sessions, h)
		o.records = append(o.records, &SessionRecord{
			SessionIndex:    h.Index(),
			InitialLocation: h.InitialLocation(),
			CreatedAt:       h.CreatedAt(),
		})
	}
	o.logger.Info("sessions ready", zap.Int("requested", count), zap.Int("created", len(handles)))
	return handles, nil
}

// Add queues a task for execution on the session at index.
func (o *Orchestrator) Add(t *task.Task, index int) error {
	if index < 0 || index >= len(o.sessions) {
		return fmt.Errorf("%w: %d (have %d sessions)", ErrIndexOutOfRange, index, len(o.sessions))
	}
	o.pending = append(o.pending, submission{task: t, index: index})
	return nil
}

// Pending reports how many tasks are queued.
func (o *Orchestrator) Pending() int { return len(o.pending) }

// ExecuteAll runs every queued task: one worker per session with pending
// work, each executing its chain serially, all chains concurrently. It
// returns after every chain has finished. Successful tasks are captured
// into their session's record; failed tasks are logged and omitted. When
// recording is enabled the run is saved as a side effect of returning.
func (o *Orchestrator) ExecuteAll(ctx context.Context) error {
	if len(o.pending) == 0 {
		o.logger.Warn("no tasks to execute")
		return nil
	}

	chains := make(map[int][]*task.Task)
	var order []int
	for _, sub := range o.pending {
		if _, seen := chains[sub.index]; !seen {
			order = append(order, sub.index)
		}
		chains[sub.index] = append(chains[sub.index], sub.task)
	}
	o.pending = nil

	g, ctx := errgroup.WithContext(ctx)
	for _, index := range order {
		index := index
		chain := chains[index]
		handle := o.sessions[index]
		record := o.records[index]
		logger := o.logger.With(zap.Int("session", index))

		g.Go(func() error {
			for _, t := range chain {
				if err := ctx.Err(); err != nil {
					return err
				}
				if _, err := t.Execute(handle); err != nil {
					logger.Error("task failed",
						zap.String("task", t.Name), zap.Error(err))
					if !o.continueOnError {
						return nil
					}
					continue
				}
				logger.Info("task completed",
					zap.String("task", t.Name),
					zap.Float64p("seconds", t.ExecutionSeconds()))
				record.Tasks = append(record.Tasks, t.Snapshot(index))
			}
			return nil
		})
	}

	err := g.Wait()
	o.logger.Info("all chains finished", zap.Int("chains", len(order)))

	if o.recordingEnabled {
		if path, saveErr := o.SaveRecording(); saveErr != nil {
			o.logger.Error("failed to save recording", zap.Error(saveErr))
		} else {
			o.logger.Info("saved recording", zap.String("path", path))
		}
	}
	return err
}

// Track registers a background loop to be stopped before sessions are
// closed.
func (o *Orchestrator) Track(s Stopper) {
	o.stoppers = append(o.stoppers, s)
}

// CloseAll stops every tracked loop, then closes every session. Close
// failures are logged, not propagated, and do not block closing the
// rest. Records are retained so a recording can still be produced.
func (o *Orchestrator) CloseAll() {
	for _, s := range o.stoppers {
		s.Stop()
	}
	o.stoppers = nil

	for i, h := range o.sessions {
		if err := h.Close(); err != nil {
			o.logger.Error("error closing session", zap.Int("session", i), zap.Error(err))
			continue
		}
		o.logger.Info("closed session", zap.Int("session", i))
	}
	o.sessions = nil
}
