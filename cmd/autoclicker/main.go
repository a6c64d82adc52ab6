package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/MarioMihret/Auto-Clicker-Mouse-for-Desktop/internal/config"
	"github.com/MarioMihret/Auto-Clicker-Mouse-for-Desktop/internal/observability"
	"github.com/MarioMihret/Auto-Clicker-Mouse-for-Desktop/internal/orchestrator"
	"github.com/MarioMihret/Auto-Clicker-Mouse-for-Desktop/internal/session"
)

var (
	browsers       int
	headless       bool
	replayRef      string
	noRecord       bool
	recordingDir   string
	autoReplay     bool
	interactive    bool
	listRecordings bool
	configPath     string
	verbose        bool
)

func main() {
	// Load .env file if present (silently ignore if not found)
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "autoclicker",
		Short: "Coordinate scripted actions across multiple browser sessions",
		Long: `autoclicker drives several independent browser sessions in parallel,
records the action sequence each one executes, and can replay a recorded
run against freshly created sessions.

Examples:
  autoclicker --browsers 3
  autoclicker --interactive --browsers 2
  autoclicker --replay 20240115_142311
  autoclicker --list-recordings`,
		Args: cobra.NoArgs,
		RunE: run,
	}

	rootCmd.Flags().IntVarP(&browsers, "browsers", "b", 3, "Number of browser sessions to create")
	rootCmd.Flags().BoolVar(&headless, "headless", false, "Run browsers in headless mode")
	rootCmd.Flags().StringVar(&replayRef, "replay", "", "Replay a recording (path or bare run id)")
	rootCmd.Flags().BoolVar(&noRecord, "no-record", false, "Disable session recording")
	rootCmd.Flags().StringVar(&recordingDir, "recording-dir", "", "Directory for recordings (default from config)")
	rootCmd.Flags().BoolVar(&autoReplay, "auto-replay", false, "Replay the session right after recording it")
	rootCmd.Flags().BoolVar(&interactive, "interactive", false, "Pick a position in each browser and click it periodically")
	rootCmd.Flags().BoolVar(&listRecordings, "list-recordings", false, "List available recordings and exit")
	rootCmd.Flags().StringVar(&configPath, "config", "", "Path to a YAML config file")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if verbose {
		cfg.Logger.Level = "debug"
	}
	dir := cfg.Recording.Dir
	if recordingDir != "" {
		dir = recordingDir
	}

	logger := observability.NewLogger(cfg.Logger)
	defer logger.Sync()

	if listRecordings {
		return printRecordings(dir)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	manager := session.NewManager(cfg.Browser, logger)

	if replayRef != "" {
		return replay(ctx, manager, logger, dir, replayRef)
	}

	o := orchestrator.New(manager, logger,
		orchestrator.WithRecording(!noRecord, dir))
	defer o.CloseAll()

	if interactive {
		return runInteractive(ctx, o, cfg, logger, browsers, headless)
	}

	if err := runExample(ctx, o, browsers, headless); err != nil {
		return err
	}

	if autoReplay && !noRecord {
		o.CloseAll()
		return replay(ctx, manager, logger, dir, o.RunID())
	}
	return nil
}

func replay(ctx context.Context, manager *session.Manager, logger *zap.Logger, dir, ref string) error {
	rec, err := orchestrator.Load(dir, ref)
	if err != nil {
		return err
	}
	fmt.Printf("→ Replaying recording %s (%d sessions)\n", rec.RunID, rec.SessionCount)

	o := orchestrator.New(manager, logger,
		orchestrator.WithRecording(false, dir))
	defer o.CloseAll()

	if err := o.Replay(ctx, rec, session.KindChrome, headless); err != nil {
		return fmt.Errorf("replay failed: %w", err)
	}
	fmt.Println("✓ Replay finished")
	return nil
}

func printRecordings(dir string) error {
	files, err := orchestrator.List(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Printf("No recordings under %s\n", dir)
		return nil
	}
	for _, f := range files {
		fmt.Println(f)
	}
	return nil
}
