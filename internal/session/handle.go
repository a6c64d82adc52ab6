package session

import (
	"errors"
	"time"
)

// Kind selects the browser engine backing a session.
type Kind string

const (
	KindChrome  Kind = "chrome"
	KindFirefox Kind = "firefox"
	KindEdge    Kind = "edge"
)

// BlankLocation is the sentinel starting location of a session created
// without an initial URL. Replay treats it as "do not navigate".
const BlankLocation = "about:blank"

var (
	// ErrInvalidArgument is returned when session creation arguments are
	// inconsistent, before any session is launched.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnreachable is returned when a session handle refers to a window
	// that no longer exists.
	ErrUnreachable = errors.New("session unreachable")
)

// Handle is one independently controlled automation target. A Handle is
// owned by the orchestrator for its lifetime and is not safe for
// concurrent use; the scheduler serializes all access to it.
type Handle interface {
	// Index is the zero-based identity assigned at creation, immutable
	// for the session's life.
	Index() int
	// InitialLocation is the starting URL given at creation, or
	// BlankLocation when none was.
	InitialLocation() string
	CreatedAt() time.Time

	Navigate(url string) error
	Click(selector string, timeout time.Duration) error
	Fill(selector, text string, timeout time.Duration) error
	Scroll(amount int) error
	// RunScript evaluates a JS function body in the page and returns its
	// JSON-decoded result.
	RunScript(js string, args ...any) (any, error)

	CurrentLocation() (string, error)
	// WindowTokens lists the stable identities of every window/tab the
	// session currently owns.
	WindowTokens() ([]string, error)
	CurrentWindow() (string, error)
	// Focus re-selects the window with the given token as the session's
	// active target. Returns ErrUnreachable when the token is gone.
	Focus(token string) error

	Close() error
}

// MouseClicker is the optional host-side click primitive a Handle may
// expose, used as a fallback when an injected click finds no element.
type MouseClicker interface {
	MouseClickAt(x, y int) error
}
