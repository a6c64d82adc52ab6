package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/MarioMihret/Auto-Clicker-Mouse-for-Desktop/internal/clicker"
	"github.com/MarioMihret/Auto-Clicker-Mouse-for-Desktop/internal/config"
	"github.com/MarioMihret/Auto-Clicker-Mouse-for-Desktop/internal/orchestrator"
	"github.com/MarioMihret/Auto-Clicker-Mouse-for-Desktop/internal/overlay"
	"github.com/MarioMihret/Auto-Clicker-Mouse-for-Desktop/internal/session"
)

// runInteractive opens sessions, lets the user click once inside each one
// to pick a coordinate, then clicks every picked coordinate on a fixed
// interval until interrupted.
func runInteractive(ctx context.Context, o *orchestrator.Orchestrator, cfg *config.Config, logger *zap.Logger, count int, headless bool) error {
	if headless {
		return fmt.Errorf("interactive mode needs visible browser windows")
	}

	locations := make([]string, count)
	for i := range locations {
		locations[i] = exampleSites[i%len(exampleSites)]
	}

	fmt.Printf("→ Creating %d browser sessions... ", count)
	handles, err := o.CreateSessions(ctx, count, session.KindChrome, false, locations)
	if err != nil {
		fmt.Println("failed")
		return err
	}
	if len(handles) == 0 {
		fmt.Println("failed")
		return fmt.Errorf("no sessions could be created")
	}
	fmt.Printf("done (%d up)\n", len(handles))

	bridge := overlay.NewBridge(cfg.Overlay, logger)
	o.Track(bridge)

	picked := make(chan clicker.Target, len(handles))
	for _, h := range handles {
		err := bridge.Arm(h, func(index, x, y int) {
			tgt, err := clicker.Capture(h, x, y)
			if err != nil {
				logger.Warn("could not pin window for target",
					zap.Int("session", index), zap.Error(err))
				return
			}
			picked <- tgt
		})
		if err != nil {
			logger.Warn("could not arm session", zap.Int("session", h.Index()), zap.Error(err))
		}
	}

	fmt.Printf("→ Click once inside each browser window to pick a position (%d windows)\n", len(handles))

	// The bridge polls each session a bounded number of times, so waiting
	// a bit past that budget collects everything that will ever arrive.
	deadline := time.After(time.Duration(cfg.Overlay.PollAttempts)*cfg.Overlay.PollInterval + 2*time.Second)
	var targets []clicker.Target
collect:
	for len(targets) < len(handles) {
		select {
		case tgt := <-picked:
			targets = append(targets, tgt)
			fmt.Printf("  ✓ session %d: position (%d, %d)\n", tgt.Session.Index(), tgt.X, tgt.Y)
		case <-deadline:
			break collect
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if len(targets) == 0 {
		return fmt.Errorf("no positions were selected")
	}

	loop := clicker.NewLoop(cfg.Clicker, logger)
	o.Track(loop)

	fmt.Printf("→ Clicking %d positions every %s. Press Ctrl+C to stop.\n",
		len(targets), cfg.Clicker.Interval)
	st := loop.Run(ctx, targets)
	fmt.Printf("✓ Click loop finished: %d ticks, %d clicks, %d errors\n",
		st.Ticks, st.Clicks, st.Errors)
	if st.Err != nil {
		return st.Err
	}
	return nil
}
