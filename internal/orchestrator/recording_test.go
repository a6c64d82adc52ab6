package orchestrator_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarioMihret/Auto-Clicker-Mouse-for-Desktop/internal/orchestrator"
	"github.com/MarioMihret/Auto-Clicker-Mouse-for-Desktop/internal/task"
)

func savedRecording(t *testing.T, dir string) (runID, path string) {
	t.Helper()
	o, _ := newTestOrchestrator(t, orchestrator.WithRecording(true, dir))
	mustCreate(t, o, 1)
	require.NoError(t, o.Add(task.Navigate("https://example.com"), 0))
	require.NoError(t, o.ExecuteAll(context.Background()))
	return o.RunID(), filepath.Join(dir, orchestrator.Filename(o.RunID()))
}

func TestResolveAcceptsAllReferenceForms(t *testing.T) {
	dir := t.TempDir()
	runID, path := savedRecording(t, dir)

	refs := map[string]string{
		"full path":     path,
		"bare filename": orchestrator.Filename(runID),
		"bare id":       runID,
	}
	for form, ref := range refs {
		got, err := orchestrator.Resolve(dir, ref)
		require.NoError(t, err, form)
		assert.Equal(t, path, got, form)
	}
}

func TestLoadMissingRecording(t *testing.T) {
	_, err := orchestrator.Load(t.TempDir(), "20200101_000000")
	assert.ErrorIs(t, err, orchestrator.ErrRecordingNotFound)
}

func TestLoadMalformedRecording(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, orchestrator.Filename("bad"))
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := orchestrator.Load(dir, "bad")
	assert.ErrorIs(t, err, orchestrator.ErrMalformedRecording)
}

func TestLoadRejectsNegativeSessionCount(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, orchestrator.Filename("neg"))
	require.NoError(t, os.WriteFile(path, []byte(`{"run_id":"neg","session_count":-1}`), 0o644))

	_, err := orchestrator.Load(dir, "neg")
	assert.ErrorIs(t, err, orchestrator.ErrMalformedRecording)
}

func TestSaveIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	o, _ := newTestOrchestrator(t, orchestrator.WithRecording(true, dir))
	mustCreate(t, o, 1)
	require.NoError(t, o.Add(task.Scroll(10), 0))
	require.NoError(t, o.ExecuteAll(context.Background()))

	first, err := orchestrator.Load(dir, o.RunID())
	require.NoError(t, err)

	_, err = o.SaveRecording()
	require.NoError(t, err)

	second, err := orchestrator.Load(dir, o.RunID())
	require.NoError(t, err)

	assert.Equal(t, first.RunID, second.RunID)
	assert.Equal(t, first.SessionCount, second.SessionCount)
	require.Len(t, second.Sessions, len(first.Sessions))
	assert.Equal(t, first.Sessions[0].Tasks, second.Sessions[0].Tasks)
}

func TestListRecordings(t *testing.T) {
	dir := t.TempDir()

	files, err := orchestrator.List(dir)
	require.NoError(t, err)
	assert.Empty(t, files)

	_, path := savedRecording(t, dir)
	// An unrelated file must not show up.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	files, err = orchestrator.List(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{path}, files)
}
