package task_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarioMihret/Auto-Clicker-Mouse-for-Desktop/internal/session"
	"github.com/MarioMihret/Auto-Clicker-Mouse-for-Desktop/internal/session/sessiontest"
	"github.com/MarioMihret/Auto-Clicker-Mouse-for-Desktop/internal/task"
)

func TestExecuteSuccess(t *testing.T) {
	h := sessiontest.New(0)
	tk := task.New("t", task.KindCustom, "", func(session.Handle) (any, error) {
		return "value", nil
	}, nil, nil)

	result, err := tk.Execute(h)
	require.NoError(t, err)

	assert.Equal(t, "value", result)
	assert.Equal(t, "value", tk.Result)
	assert.True(t, tk.Completed)
	assert.NoError(t, tk.Err)
	assert.False(t, tk.StartedAt.IsZero())
	assert.False(t, tk.EndedAt.Before(tk.StartedAt))
	require.NotNil(t, tk.ExecutionSeconds())
}

func TestExecuteFailureIsRecordedAndReturned(t *testing.T) {
	h := sessiontest.New(0)
	boom := errors.New("boom")
	tk := task.New("t", task.KindCustom, "", func(session.Handle) (any, error) {
		return nil, boom
	}, nil, nil)

	_, err := tk.Execute(h)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, tk.Err, boom)
	assert.False(t, tk.Completed)
	assert.Nil(t, tk.Result)
}

func TestDescriptionFallsBackToName(t *testing.T) {
	tk := task.New("my_task", task.KindCustom, "", nil, nil, nil)
	assert.Equal(t, "my_task", tk.Description)
}

func TestSnapshotDropsNonSerializableParameters(t *testing.T) {
	tk := task.New("t", task.KindCustom, "desc",
		func(session.Handle) (any, error) { return nil, nil },
		[]any{"ok", 3, func() {}},
		map[string]any{
			"kept":    true,
			"dropped": make(chan int),
		},
	)

	snap := tk.Snapshot(2)

	assert.Equal(t, []any{"ok", 3}, snap.Args)
	assert.Equal(t, map[string]any{"kept": true}, snap.Kwargs)
	assert.Equal(t, 2, snap.SessionIndex)
	assert.False(t, snap.Timestamp.IsZero())
	assert.Nil(t, snap.ExecutionSeconds, "never-run task has no execution time")
}

func TestSnapshotAfterExecute(t *testing.T) {
	h := sessiontest.New(1)
	tk := task.Navigate("https://example.com")

	_, err := tk.Execute(h)
	require.NoError(t, err)

	snap := tk.Snapshot(1)
	assert.Equal(t, task.KindNavigate, snap.ActionKind)
	assert.True(t, snap.Completed)
	require.NotNil(t, snap.ExecutionSeconds)
	assert.GreaterOrEqual(t, *snap.ExecutionSeconds, 0.0)
}

func TestClickDefaults(t *testing.T) {
	tk := task.Click("#go", 0)
	assert.Equal(t, task.KindClick, tk.Kind)
	assert.Equal(t, []any{"#go"}, tk.Args)
	assert.Equal(t, task.DefaultFindTimeout.Seconds(), tk.Kwargs["timeout"])
}

func TestFillCarriesSelectorAndText(t *testing.T) {
	tk := task.Fill("input[name='q']", "hello", 5*time.Second)
	assert.Equal(t, []any{"input[name='q']", "hello"}, tk.Args)
	assert.Equal(t, 5.0, tk.Kwargs["timeout"])

	h := sessiontest.New(0)
	_, err := tk.Execute(h)
	require.NoError(t, err)
	assert.Equal(t, []string{"fill:input[name='q']:hello"}, h.Calls())
}

func TestScrollDefaultAmount(t *testing.T) {
	tk := task.Scroll(0)
	assert.Equal(t, []any{task.DefaultScrollAmount}, tk.Args)

	h := sessiontest.New(0)
	_, err := tk.Execute(h)
	require.NoError(t, err)
	assert.Equal(t, []string{"scroll:800"}, h.Calls())
}

func TestActionKindKnown(t *testing.T) {
	for _, k := range []task.ActionKind{
		task.KindNavigate, task.KindClick, task.KindFill,
		task.KindWait, task.KindScroll, task.KindCustom,
	} {
		assert.True(t, k.Known(), string(k))
	}
	assert.False(t, task.ActionKind("teleport").Known())
}
