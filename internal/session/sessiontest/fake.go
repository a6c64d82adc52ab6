// Package sessiontest provides an in-memory session.Handle for tests.
package sessiontest

import (
	"fmt"
	"sync"
	"time"

	"github.com/MarioMihret/Auto-Clicker-Mouse-for-Desktop/internal/session"
)

// Fake is a scriptable session.Handle. Every operation appends a label to
// Calls; error fields and ScriptFn let tests steer outcomes. Safe for
// concurrent use so scheduler tests can hammer it.
type Fake struct {
	Idx      int
	Location string
	Created  time.Time

	NavigateErr error
	ClickErr    error
	FillErr     error
	ScrollErr   error
	FocusErr    error
	CloseErr    error

	// ScriptFn handles RunScript calls. Nil means "return nil, nil".
	ScriptFn func(js string, args ...any) (any, error)

	// Windows and Current model the session's open windows/tabs.
	Windows []string
	Current string

	// OpDelay, when set, is slept at the start of every operation.
	OpDelay time.Duration

	mu          sync.Mutex
	calls       []string
	mouseClicks [][2]int
	closed      bool
}

var _ session.Handle = (*Fake)(nil)
var _ session.MouseClicker = (*Fake)(nil)

func New(index int) *Fake {
	return &Fake{
		Idx:      index,
		Location: session.BlankLocation,
		Created:  time.Now(),
		Windows:  []string{fmt.Sprintf("window-%d", index)},
		Current:  fmt.Sprintf("window-%d", index),
	}
}

func (f *Fake) record(label string) {
	if f.OpDelay > 0 {
		time.Sleep(f.OpDelay)
	}
	f.mu.Lock()
	f.calls = append(f.calls, label)
	f.mu.Unlock()
}

// Calls returns a copy of the operation labels recorded so far.
func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

// MouseClicks returns the host-side click coordinates dispatched so far.
func (f *Fake) MouseClicks() [][2]int {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][2]int, len(f.mouseClicks))
	copy(out, f.mouseClicks)
	return out
}

func (f *Fake) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *Fake) Index() int              { return f.Idx }
func (f *Fake) InitialLocation() string { return f.Location }
func (f *Fake) CreatedAt() time.Time    { return f.Created }

func (f *Fake) Navigate(url string) error {
	f.record("navigate:" + url)
	return f.NavigateErr
}

func (f *Fake) Click(selector string, _ time.Duration) error {
	f.record("click:" + selector)
	return f.ClickErr
}

func (f *Fake) Fill(selector, text string, _ time.Duration) error {
	f.record("fill:" + selector + ":" + text)
	return f.FillErr
}

func (f *Fake) Scroll(amount int) error {
	f.record(fmt.Sprintf("scroll:%d", amount))
	return f.ScrollErr
}

func (f *Fake) RunScript(js string, args ...any) (any, error) {
	f.record("script")
	if f.ScriptFn != nil {
		return f.ScriptFn(js, args...)
	}
	return nil, nil
}

func (f *Fake) CurrentLocation() (string, error) {
	return f.Location, nil
}

func (f *Fake) WindowTokens() ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.Windows))
	copy(out, f.Windows)
	return out, nil
}

func (f *Fake) CurrentWindow() (string, error) {
	return f.Current, nil
}

func (f *Fake) Focus(token string) error {
	f.record("focus:" + token)
	if f.FocusErr != nil {
		return f.FocusErr
	}
	f.Current = token
	return nil
}

func (f *Fake) MouseClickAt(x, y int) error {
	f.mu.Lock()
	f.mouseClicks = append(f.mouseClicks, [2]int{x, y})
	f.mu.Unlock()
	return nil
}

func (f *Fake) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return f.CloseErr
}
