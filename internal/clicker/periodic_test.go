package clicker_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/MarioMihret/Auto-Clicker-Mouse-for-Desktop/internal/clicker"
	"github.com/MarioMihret/Auto-Clicker-Mouse-for-Desktop/internal/config"
	"github.com/MarioMihret/Auto-Clicker-Mouse-for-Desktop/internal/session/sessiontest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newLoop(interval time.Duration, maxErrors int) *clicker.Loop {
	return clicker.NewLoop(config.ClickerConfig{
		Interval:  interval,
		MaxErrors: maxErrors,
	}, zap.NewNop())
}

// clickable returns a fake whose injected clicks always land.
func clickable(index int) *sessiontest.Fake {
	f := sessiontest.New(index)
	f.ScriptFn = func(string, ...any) (any, error) { return true, nil }
	return f
}

func countClicks(f *sessiontest.Fake) int {
	n := 0
	for _, c := range f.Calls() {
		if c == "script" {
			n++
		}
	}
	return n
}

func TestTickBoundsOverFixedWindow(t *testing.T) {
	a := clickable(0)
	b := clickable(1)
	targets := []clicker.Target{
		{Session: a, Window: "window-0", X: 10, Y: 20},
		{Session: b, Window: "window-1", X: 30, Y: 40},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 350*time.Millisecond)
	defer cancel()

	l := newLoop(100*time.Millisecond, 5)
	st := l.Run(ctx, targets)

	assert.NoError(t, st.Err)
	for _, f := range []*sessiontest.Fake{a, b} {
		n := countClicks(f)
		assert.GreaterOrEqual(t, n, 3, "session %d", f.Idx)
		assert.LessOrEqual(t, n, 4, "session %d", f.Idx)
	}
	assert.Equal(t, st.Clicks, countClicks(a)+countClicks(b))
}

func TestErrorBudgetStopsLoop(t *testing.T) {
	stale := sessiontest.New(0)
	stale.Windows = nil // every window is gone

	l := newLoop(time.Millisecond, 5)
	st := l.Run(context.Background(), []clicker.Target{
		{Session: stale, Window: "window-0", X: 1, Y: 1},
	})

	assert.ErrorIs(t, st.Err, clicker.ErrBudgetExhausted)
	assert.Equal(t, 5, st.Errors)
	assert.Zero(t, st.Clicks)

	// Stopping an already-stopped loop must not block or panic.
	l.Stop()
}

func TestStaleWindowSkipsClickButCountsError(t *testing.T) {
	healthy := clickable(0)
	stale := clickable(1)
	stale.Windows = []string{"some-other-window"}

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Millisecond)
	defer cancel()

	l := newLoop(50*time.Millisecond, 100)
	st := l.Run(ctx, []clicker.Target{
		{Session: healthy, Window: "window-0", X: 1, Y: 1},
		{Session: stale, Window: "window-1", X: 1, Y: 1},
	})

	assert.Positive(t, st.Clicks, "the healthy target keeps clicking")
	assert.Positive(t, st.Errors, "the stale target counts an error per tick")
	assert.Zero(t, countClicks(stale), "no click reaches a stale window")
}

func TestRefocusesWindowBeforeClicking(t *testing.T) {
	f := clickable(0)
	f.Windows = []string{"window-0", "popup"}
	f.Current = "popup" // another window grabbed focus

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	l := newLoop(10*time.Millisecond, 5)
	st := l.Run(ctx, []clicker.Target{
		{Session: f, Window: "window-0", X: 1, Y: 1},
	})

	assert.Positive(t, st.Clicks)
	assert.Contains(t, f.Calls(), "focus:window-0")
}

func TestStopIsCooperative(t *testing.T) {
	f := clickable(0)
	l := newLoop(10*time.Millisecond, 5)

	var wg sync.WaitGroup
	var st clicker.Status
	wg.Add(1)
	go func() {
		defer wg.Done()
		st = l.Run(context.Background(), []clicker.Target{
			{Session: f, Window: "window-0", X: 1, Y: 1},
		})
	}()

	time.Sleep(35 * time.Millisecond)
	l.Stop()
	wg.Wait()

	require.NoError(t, st.Err)
	assert.Positive(t, st.Clicks)
}

func TestStopBeforeRunReturnsImmediately(t *testing.T) {
	l := newLoop(time.Hour, 5)
	done := make(chan struct{})
	go func() {
		l.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked with no loop running")
	}

	st := l.Run(context.Background(), nil)
	assert.Zero(t, st.Ticks)
}

func TestCaptureRecordsActiveWindow(t *testing.T) {
	f := sessiontest.New(3)
	tgt, err := clicker.Capture(f, 120, 240)
	require.NoError(t, err)
	assert.Equal(t, "window-3", tgt.Window)
	assert.Equal(t, 120, tgt.X)
	assert.Equal(t, 240, tgt.Y)
}
