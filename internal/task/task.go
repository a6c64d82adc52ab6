package task

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/MarioMihret/Auto-Clicker-Mouse-for-Desktop/internal/session"
)

// ActionKind classifies a task for recording and replay. The set is
// closed: replay only understands these values.
type ActionKind string

const (
	KindNavigate ActionKind = "navigate"
	KindClick    ActionKind = "click"
	KindFill     ActionKind = "fill"
	KindWait     ActionKind = "wait"
	KindScroll   ActionKind = "scroll"
	KindCustom   ActionKind = "custom"
)

// Known reports whether k is a member of the closed enumeration.
func (k ActionKind) Known() bool {
	switch k {
	case KindNavigate, KindClick, KindFill, KindWait, KindScroll, KindCustom:
		return true
	}
	return false
}

// Func is the executable behavior bound into a Task.
type Func func(session.Handle) (any, error)

// Task is one recorded, executable unit of work addressed to a session.
// Identity fields are set at construction and never change; outcome
// fields are written exactly once, by Execute.
type Task struct {
	Name        string
	Kind        ActionKind
	Description string
	Args        []any
	Kwargs      map[string]any
	Run         Func

	StartedAt time.Time
	EndedAt   time.Time
	Result    any
	Err       error
	Completed bool
}

// New builds a task. description falls back to name when empty.
func New(name string, kind ActionKind, description string, run Func, args []any, kwargs map[string]any) *Task {
	if description == "" {
		description = name
	}
	if kwargs == nil {
		kwargs = map[string]any{}
	}
	return &Task{
		Name:        name,
		Kind:        kind,
		Description: description,
		Args:        args,
		Kwargs:      kwargs,
		Run:         run,
	}
}

// Execute runs the bound action against the given session, recording the
// outcome on the task. Failures are recorded and re-returned, never
// swallowed here.
func (t *Task) Execute(h session.Handle) (any, error) {
	t.StartedAt = time.Now()
	result, err := t.Run(h)
	t.EndedAt = time.Now()
	if err != nil {
		t.Err = err
		return nil, fmt.Errorf("task %q: %w", t.Name, err)
	}
	t.Result = result
	t.Completed = true
	return result, nil
}

// ExecutionSeconds returns the wall-clock duration of the last Execute,
// or nil when the task never ran.
func (t *Task) ExecutionSeconds() *float64 {
	if t.StartedAt.IsZero() || t.EndedAt.IsZero() {
		return nil
	}
	secs := t.EndedAt.Sub(t.StartedAt).Seconds()
	return &secs
}

// Snapshot is the serializable capture of an executed task as it appears
// in a session record.
type Snapshot struct {
	Name             string         `json:"name"`
	ActionKind       ActionKind     `json:"action_kind"`
	Description      string         `json:"description"`
	Args             []any          `json:"args"`
	Kwargs           map[string]any `json:"kwargs"`
	Completed        bool           `json:"completed"`
	ExecutionSeconds *float64       `json:"execution_time_seconds"`
	SessionIndex     int            `json:"session_index"`
	Timestamp        time.Time      `json:"timestamp"`
}

// Snapshot captures the task into its recordable form. Parameters that
// cannot be represented as JSON (live callables and the like) are dropped
// here, never at execution time.
func (t *Task) Snapshot(sessionIndex int) Snapshot {
	args := make([]any, 0, len(t.Args))
	for _, a := range t.Args {
		if jsonRepresentable(a) {
			args = append(args, a)
		}
	}
	kwargs := make(map[string]any, len(t.Kwargs))
	for k, v := range t.Kwargs {
		if jsonRepresentable(v) {
			kwargs[k] = v
		}
	}
	return Snapshot{
		Name:             t.Name,
		ActionKind:       t.Kind,
		Description:      t.Description,
		Args:             args,
		Kwargs:           kwargs,
		Completed:        t.Completed,
		ExecutionSeconds: t.ExecutionSeconds(),
		SessionIndex:     sessionIndex,
		Timestamp:        time.Now(),
	}
}

func jsonRepresentable(v any) bool {
	_, err := json.Marshal(v)
	return err == nil
}
