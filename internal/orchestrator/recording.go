package orchestrator

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/MarioMihret/Auto-Clicker-Mouse-for-Desktop/internal/task"
)

var (
	// ErrRecordingNotFound means no recording file could be resolved from
	// the given reference.
	ErrRecordingNotFound = errors.New("recording not found")

	// ErrMalformedRecording means the file exists but is not a valid
	// recording document.
	ErrMalformedRecording = errors.New("malformed recording")
)

// SessionRecord is the ordered history of tasks executed against one
// session, plus the session's creation metadata. Append-only, in
// completion order, successful tasks only.
type SessionRecord struct {
	SessionIndex    int             `json:"session_index"`
	InitialLocation string          `json:"initial_location"`
	CreatedAt       time.Time       `json:"created_at"`
	Tasks           []task.Snapshot `json:"tasks"`
}

// Recording is the persisted, replayable snapshot of all session records
// from one run. Immutable once produced.
type Recording struct {
	RunID        string          `json:"run_id"`
	CreatedAt    time.Time       `json:"created_at"`
	SessionCount int             `json:"session_count"`
	Sessions     []SessionRecord `json:"sessions"`
}

func newRunID() string {
	return time.Now().Format("20060102_150405")
}

// Filename derives the canonical recording filename for a run id.
func Filename(runID string) string {
	return "browser_session_" + runID + ".json"
}

// SaveRecording serializes the current session records and writes them
// under the recordings directory. Idempotent for unchanged records.
func (o *Orchestrator) SaveRecording() (string, error) {
	rec := Recording{
		RunID:        o.runID,
		CreatedAt:    time.Now(),
		SessionCount: len(o.records),
	}
	for _, sr := range o.records {
		rec.Sessions = append(rec.Sessions, *sr)
	}

	if err := os.MkdirAll(o.recordingDir, 0o755); err != nil {
		return "", fmt.Errorf("creating recording dir: %w", err)
	}

	data, err := json.MarshalIndent(&rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding recording: %w", err)
	}

	path := filepath.Join(o.recordingDir, Filename(o.runID))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing recording: %w", err)
	}
	return path, nil
}

// LoadRecording resolves ref against the orchestrator's recordings
// directory and parses it. Nothing is executed.
func (o *Orchestrator) LoadRecording(ref string) (*Recording, error) {
	return Load(o.recordingDir, ref)
}

// Resolve turns a recording reference into a file path. Accepted forms:
// a full or relative path, a bare filename under dir, a bare id with or
// without the .json extension.
func Resolve(dir, ref string) (string, error) {
	candidates := []string{
		ref,
		filepath.Join(dir, ref),
		ref + ".json",
		filepath.Join(dir, ref+".json"),
		filepath.Join(dir, Filename(ref)),
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrRecordingNotFound, ref)
}

// Load resolves and parses a recording document.
func Load(dir, ref string) (*Recording, error) {
	path, err := Resolve(dir, ref)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var rec Recording
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedRecording, path, err)
	}
	if rec.SessionCount < 0 {
		return nil, fmt.Errorf("%w: %s: negative session_count", ErrMalformedRecording, path)
	}
	return &rec, nil
}

// List returns the recording files under dir, newest name last.
func List(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "browser_session_*.json"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}
