package orchestrator

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/MarioMihret/Auto-Clicker-Mouse-for-Desktop/internal/session"
	"github.com/MarioMihret/Auto-Clicker-Mouse-for-Desktop/internal/task"
)

// ReplayScrollAmount is the pixel distance used when a recorded scroll
// carries no amount.
const ReplayScrollAmount = 300

// Replay recreates the recording's sessions and re-executes its captured
// task history under the normal scheduling contract. Session records
// whose index falls outside the successfully created sessions are skipped
// with a warning, as are snapshots whose action kind is not replayable.
func (o *Orchestrator) Replay(ctx context.Context, rec *Recording, kind session.Kind, headless bool) error {
	handles, err := o.CreateSessions(ctx, rec.SessionCount, kind, headless, nil)
	if err != nil {
		return err
	}
	o.logger.Info("replaying recording",
		zap.String("run_id", rec.RunID), zap.Int("sessions", len(handles)))

	for _, sr := range rec.Sessions {
		if sr.SessionIndex < 0 || sr.SessionIndex >= len(handles) {
			o.logger.Warn("session index out of range, skipping record",
				zap.Int("session", sr.SessionIndex))
			continue
		}

		if sr.InitialLocation != "" && sr.InitialLocation != session.BlankLocation {
			if err := handles[sr.SessionIndex].Navigate(sr.InitialLocation); err != nil {
				o.logger.Error("failed to open initial location",
					zap.Int("session", sr.SessionIndex),
					zap.String("location", sr.InitialLocation), zap.Error(err))
			}
		}

		for _, snap := range sr.Tasks {
			t, ok := Reconstruct(snap)
			if !ok {
				o.logger.Warn("action kind is not replayable, skipping",
					zap.String("kind", string(snap.ActionKind)),
					zap.String("task", snap.Name))
				continue
			}
			if err := o.Add(t, sr.SessionIndex); err != nil {
				return err
			}
		}
	}

	if o.Pending() == 0 {
		o.logger.Warn("recording contains no replayable tasks")
		return nil
	}
	return o.ExecuteAll(ctx)
}

// Reconstruct rebuilds an executable task from a captured snapshot. The
// second return is false for snapshots that were captured as metadata
// only (custom and unrecognized kinds, and waits) and cannot run again.
func Reconstruct(snap task.Snapshot) (*task.Task, bool) {
	var t *task.Task
	switch snap.ActionKind {
	case task.KindNavigate:
		url, ok := argString(snap.Args, 0)
		if !ok {
			return nil, false
		}
		t = task.Navigate(url)
	case task.KindClick:
		selector, ok := argString(snap.Args, 0)
		if !ok {
			return nil, false
		}
		t = task.Click(selector, kwargTimeout(snap.Kwargs))
	case task.KindFill:
		selector, ok := argString(snap.Args, 0)
		if !ok {
			return nil, false
		}
		text, _ := argString(snap.Args, 1)
		t = task.Fill(selector, text, kwargTimeout(snap.Kwargs))
	case task.KindScroll:
		t = task.Scroll(argInt(snap.Args, 0, ReplayScrollAmount))
	default:
		return nil, false
	}
	t.Name = "replay_" + snap.Name
	t.Description = "Replay: " + snap.Description
	return t, true
}

func argString(args []any, i int) (string, bool) {
	if i >= len(args) {
		return "", false
	}
	s, ok := args[i].(string)
	return s, ok
}

// argInt reads a positional numeric argument. JSON decoding yields
// float64 for every number.
func argInt(args []any, i, fallback int) int {
	if i >= len(args) {
		return fallback
	}
	switch v := args[i].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return fallback
}

func kwargTimeout(kwargs map[string]any) time.Duration {
	if v, ok := kwargs["timeout"]; ok {
		switch n := v.(type) {
		case float64:
			return time.Duration(n * float64(time.Second))
		case int:
			return time.Duration(n) * time.Second
		}
	}
	return task.DefaultFindTimeout
}
