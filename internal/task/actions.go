package task

import (
	"fmt"
	"time"

	"github.com/MarioMihret/Auto-Clicker-Mouse-for-Desktop/internal/session"
)

// DefaultFindTimeout bounds element lookups for click and fill tasks.
const DefaultFindTimeout = 10 * time.Second

// DefaultScrollAmount is the pixel distance used when a scroll task is
// built without an explicit amount.
const DefaultScrollAmount = 800

// Navigate builds a task that loads the given URL.
func Navigate(url string) *Task {
	return New(
		"navigate",
		KindNavigate,
		fmt.Sprintf("Navigate to %s", url),
		func(h session.Handle) (any, error) {
			return nil, h.Navigate(url)
		},
		[]any{url},
		nil,
	)
}

// Click builds a task that clicks the element matching selector. A zero
// timeout means DefaultFindTimeout.
func Click(selector string, timeout time.Duration) *Task {
	if timeout <= 0 {
		timeout = DefaultFindTimeout
	}
	return New(
		"click",
		KindClick,
		fmt.Sprintf("Click %s", selector),
		func(h session.Handle) (any, error) {
			return nil, h.Click(selector, timeout)
		},
		[]any{selector},
		map[string]any{"timeout": timeout.Seconds()},
	)
}

// Fill builds a task that clears and types text into the element matching
// selector.
func Fill(selector, text string, timeout time.Duration) *Task {
	if timeout <= 0 {
		timeout = DefaultFindTimeout
	}
	return New(
		"fill",
		KindFill,
		fmt.Sprintf("Fill %s", selector),
		func(h session.Handle) (any, error) {
			return nil, h.Fill(selector, text, timeout)
		},
		[]any{selector, text},
		map[string]any{"timeout": timeout.Seconds()},
	)
}

// Wait builds a task that pauses its session's chain for d.
func Wait(d time.Duration) *Task {
	return New(
		"wait",
		KindWait,
		fmt.Sprintf("Wait %s", d),
		func(session.Handle) (any, error) {
			time.Sleep(d)
			return nil, nil
		},
		[]any{d.Seconds()},
		nil,
	)
}

// Scroll builds a task that scrolls the page down by amount pixels. A
// non-positive amount means DefaultScrollAmount.
func Scroll(amount int) *Task {
	if amount <= 0 {
		amount = DefaultScrollAmount
	}
	return New(
		"scroll",
		KindScroll,
		fmt.Sprintf("Scroll by %d", amount),
		func(h session.Handle) (any, error) {
			return nil, h.Scroll(amount)
		},
		[]any{amount},
		nil,
	)
}

// Custom builds a task from an arbitrary function. Custom tasks are
// recorded as metadata only and cannot be replayed.
func Custom(name, description string, run Func, args []any, kwargs map[string]any) *Task {
	return New(name, KindCustom, description, run, args, kwargs)
}
