package overlay

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/MarioMihret/Auto-Clicker-Mouse-for-Desktop/internal/config"
	"github.com/MarioMihret/Auto-Clicker-Mouse-for-Desktop/internal/session"
)

// State is a session's position in the capture lifecycle:
// Idle -> Armed -> Selected -> Idle.
type State int

const (
	Idle State = iota
	Armed
	Selected
)

// Callback receives exactly one captured coordinate per Arm call.
type Callback func(sessionIndex, x, y int)

// Bridge lets a human pick a coordinate inside a running session. Arm
// injects the capture overlay and polls the in-page mailbox until a click
// arrives or the attempt budget runs out, so it never blocks forever.
type Bridge struct {
	logger       *zap.Logger
	pollInterval time.Duration
	maxAttempts  int

	mu    sync.Mutex
	armed map[int]*armState
}

type armState struct {
	state    State
	handle   session.Handle
	cancel   chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func (st *armState) signalStop() {
	st.stopOnce.Do(func() { close(st.cancel) })
}

func NewBridge(cfg config.OverlayConfig, logger *zap.Logger) *Bridge {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 100 * time.Millisecond
	}
	if cfg.PollAttempts <= 0 {
		cfg.PollAttempts = 100
	}
	return &Bridge{
		logger:       logger.With(zap.String("component", "overlay")),
		pollInterval: cfg.PollInterval,
		maxAttempts:  cfg.PollAttempts,
		armed:        make(map[int]*armState),
	}
}

// State reports the capture state of the session at index.
func (b *Bridge) State(index int) State {
	b.mu.Lock()
	defer b.mu.Unlock()
	if st, ok := b.armed[index]; ok {
		return st.state
	}
	return Idle
}

// Arm installs the capture overlay into the session and starts polling
// for one coordinate selection. A previous arm on the same session is
// replaced.
func (b *Bridge) Arm(h session.Handle, cb Callback) error {
	b.Disarm(h)

	if _, err := h.RunScript(armScript, h.Index()); err != nil {
		return fmt.Errorf("injecting capture overlay: %w", err)
	}

	st := &armState{
		state:  Armed,
		handle: h,
		cancel: make(chan struct{}),
		done:   make(chan struct{}),
	}
	b.mu.Lock()
	b.armed[h.Index()] = st
	b.mu.Unlock()

	b.logger.Info("session armed for coordinate selection", zap.Int("session", h.Index()))
	go b.poll(h, st, cb)
	return nil
}

// poll watches the mailbox. On a value it acknowledges, reports the
// coordinate once, and cleans up. After maxAttempts empty reads it cleans
// up without invoking the callback.
func (b *Bridge) poll(h session.Handle, st *armState, cb Callback) {
	defer close(st.done)

	for attempt := 0; attempt < b.maxAttempts; attempt++ {
		select {
		case <-st.cancel:
			return
		case <-time.After(b.pollInterval):
		}

		v, err := h.RunScript(pollScript)
		if err != nil {
			b.logger.Warn("coordinate poll failed",
				zap.Int("session", h.Index()), zap.Error(err))
			b.finish(h, st)
			return
		}

		x, y, ok := parseCoordinates(v)
		if !ok {
			continue
		}

		if _, err := h.RunScript(ackScript); err != nil {
			b.logger.Warn("failed to clear mailbox",
				zap.Int("session", h.Index()), zap.Error(err))
		}
		b.setState(h.Index(), st, Selected)
		cb(h.Index(), x, y)
		b.logger.Info("coordinate selected",
			zap.Int("session", h.Index()), zap.Int("x", x), zap.Int("y", y))
		b.finish(h, st)
		return
	}

	b.logger.Info("coordinate selection timed out", zap.Int("session", h.Index()))
	b.finish(h, st)
}

// finish runs the in-page cleanup and returns the session to Idle. Called
// only from the session's own poll goroutine.
func (b *Bridge) finish(h session.Handle, st *armState) {
	if _, err := h.RunScript(cleanupScript); err != nil {
		b.logger.Debug("overlay cleanup failed",
			zap.Int("session", h.Index()), zap.Error(err))
	}
	b.mu.Lock()
	if b.armed[h.Index()] == st {
		delete(b.armed, h.Index())
	}
	b.mu.Unlock()
}

func (b *Bridge) setState(index int, st *armState, s State) {
	b.mu.Lock()
	if b.armed[index] == st {
		st.state = s
	}
	b.mu.Unlock()
}

// Disarm cancels any pending capture on the session and removes overlay
// remnants. Idempotent; safe to call on a session that was never armed.
func (b *Bridge) Disarm(h session.Handle) {
	b.mu.Lock()
	st := b.armed[h.Index()]
	delete(b.armed, h.Index())
	b.mu.Unlock()

	if st != nil {
		st.signalStop()
		select {
		case <-st.done:
		case <-time.After(time.Second):
			b.logger.Warn("poll loop did not stop in time", zap.Int("session", h.Index()))
		}
	}

	if _, err := h.RunScript(cleanupScript); err != nil {
		b.logger.Debug("overlay cleanup failed",
			zap.Int("session", h.Index()), zap.Error(err))
	}
}

// Stop cancels every pending capture. Implements orchestrator.Stopper so
// CloseAll can drain poll loops before sessions are released.
func (b *Bridge) Stop() {
	b.mu.Lock()
	states := make([]*armState, 0, len(b.armed))
	for _, st := range b.armed {
		states = append(states, st)
	}
	b.armed = make(map[int]*armState)
	b.mu.Unlock()

	for _, st := range states {
		st.signalStop()
	}
	deadline := time.After(time.Second)
	for _, st := range states {
		select {
		case <-st.done:
		case <-deadline:
			b.logger.Warn("poll loops still draining at stop deadline")
			return
		}
	}
}

// ClickAt dispatches a synthetic click at a stored coordinate. The
// injected click is preferred; when no element sits under the point the
// host-side mouse is used if the handle supports it.
func ClickAt(h session.Handle, x, y int) error {
	v, err := h.RunScript(clickScript, x, y)
	if err != nil {
		return fmt.Errorf("dispatching click at (%d, %d): %w", x, y, err)
	}
	if clicked, ok := v.(bool); ok && clicked {
		return nil
	}
	if mc, ok := h.(session.MouseClicker); ok {
		return mc.MouseClickAt(x, y)
	}
	return fmt.Errorf("no element at (%d, %d)", x, y)
}

func parseCoordinates(v any) (x, y int, ok bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return 0, 0, false
	}
	xv, xok := toInt(m["x"])
	yv, yok := toInt(m["y"])
	if !xok || !yok {
		return 0, 0, false
	}
	return xv, yv, true
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	}
	return 0, false
}
