package main

import (
	"context"
	"fmt"
	"time"

	"github.com/MarioMihret/Auto-Clicker-Mouse-for-Desktop/internal/orchestrator"
	"github.com/MarioMihret/Auto-Clicker-Mouse-for-Desktop/internal/session"
	"github.com/MarioMihret/Auto-Clicker-Mouse-for-Desktop/internal/task"
)

var exampleSites = []string{
	"https://www.example.com",
	"https://www.wikipedia.org",
	"https://www.github.com",
}

// runExample drives the scripted multi-browser demo: each session gets
// its own chain of tasks and all chains run in parallel.
func runExample(ctx context.Context, o *orchestrator.Orchestrator, count int, headless bool) error {
	locations := make([]string, count)
	for i := range locations {
		locations[i] = exampleSites[i%len(exampleSites)]
	}

	fmt.Printf("→ Creating %d browser sessions... ", count)
	handles, err := o.CreateSessions(ctx, count, session.KindChrome, headless, locations)
	if err != nil {
		fmt.Println("failed")
		return err
	}
	if len(handles) == 0 {
		fmt.Println("failed")
		return fmt.Errorf("no sessions could be created")
	}
	fmt.Printf("done (%d up)\n", len(handles))

	add := func(t *task.Task, index int) {
		if index >= len(handles) {
			return
		}
		if err := o.Add(t, index); err != nil {
			fmt.Printf("  ! could not queue %s: %v\n", t.Name, err)
		}
	}

	// Session 0: a composite search, recorded as metadata only.
	add(task.Custom(
		"search_task",
		"Search for 'automation tutorial'",
		func(h session.Handle) (any, error) {
			if err := h.Navigate("https://duckduckgo.com"); err != nil {
				return nil, err
			}
			if err := h.Fill("input[name='q']", "automation tutorial", task.DefaultFindTimeout); err != nil {
				return nil, err
			}
			if _, err := h.RunScript(`() => document.querySelector('form').submit()`); err != nil {
				return nil, err
			}
			time.Sleep(2 * time.Second)
			return nil, nil
		},
		[]any{"automation tutorial"},
		nil,
	), 0)

	// Session 1: navigate then click, as two chained tasks.
	add(task.Navigate("https://www.wikipedia.org"), 1)
	add(task.Click("a#js-link-box-en", 5*time.Second), 1)

	// Session 2: a longer chain.
	add(task.Navigate("https://github.com"), 2)
	add(task.Fill("input[name='q']", "go automation", 0), 2)
	add(task.Wait(time.Second), 2)
	add(task.Scroll(500), 2)

	fmt.Printf("→ Executing %d tasks across %d sessions... ", o.Pending(), len(handles))
	if err := o.ExecuteAll(ctx); err != nil {
		fmt.Println("failed")
		return err
	}
	fmt.Println("done")

	// Leave the pages visible for a moment before teardown.
	if !headless {
		time.Sleep(5 * time.Second)
	}
	return nil
}
