package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/term"

	event_fetcher "github.com/alanbriolat/event-fetcher"
	"github.com/alanbriolat/event-fetcher/async"
	"github.com/alanbriolat/event-fetcher/fetch"
	"github.com/alanbriolat/event-fetcher/internal/session"
	"github.com/alanbriolat/event-fetcher/selection"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitConfig  = 2
)

// How long to wait for in-flight work to clean up after an interrupt. A blocked prompt read never returns.
const shutdownGrace = 5 * time.Second

// errUsage marks errors from urfave/cli itself (bad or missing flags), which happen before the action runs.
var errUsage = errors.New("usage error")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	started := false
	app := &cli.App{
		Name:  "event-fetcher",
		Usage: "download the entries of an event",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "event",
				Usage:    "read entries from event file `PATH`",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "output",
				Value: event_fetcher.DefaultOutputDir,
				Usage: "save downloads to `DIR`",
			},
			&cli.StringFlag{
				Name:  "entries",
				Usage: "only process entries with these comma-separated `NUMBERS`",
			},
			&cli.BoolFlag{
				Name:  "interactive",
				Usage: "prompt to choose between multiple download links",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Value: "info",
				Usage: "log `LEVEL`: trace, debug, info, warn or error",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "load run configuration from YAML file `PATH`",
			},
			&cli.IntFlag{
				Name:  "parallel",
				Usage: "download up to `N` entries at once (non-interactive only)",
			},
			&cli.IntFlag{
				Name:  "retries",
				Usage: "retry each failed download up to `N` times",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "give up on a download attempt after `DURATION`",
			},
		},
		Action: func(c *cli.Context) error {
			started = true
			return run(ctx, c)
		},
		HideHelpCommand: true,
	}

	result := async.Run(func() error { return app.Run(os.Args) })

	var err error
	select {
	case err = <-result:
	case <-ctx.Done():
		stop()
		select {
		case err = <-result:
		case <-time.After(shutdownGrace):
			err = ctx.Err()
		}
	}
	if err != nil && !started {
		err = fmt.Errorf("%w: %v", errUsage, err)
	}
	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errUsage):
		fmt.Fprintln(os.Stderr, err)
		return exitConfig
	case event_fetcher.IsConfigurationError(err):
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		return exitConfig
	default:
		fmt.Fprintln(os.Stderr, "error:", err)
		return exitFailure
	}
}

func run(ctx context.Context, c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger, err := event_fetcher.NewLogger(cfg.LogLevel)
	if err != nil {
		return &event_fetcher.ConfigurationError{Op: "create logger", Err: err}
	}
	defer logger.Sync()
	ctx = event_fetcher.WithLogger(ctx, logger)

	eventPath := c.String("event")
	event, err := event_fetcher.LoadEvent(eventPath)
	if err != nil {
		return err
	}
	if len(event.Entries) == 0 {
		return &event_fetcher.ConfigurationError{Op: "load event file", Path: eventPath, Err: event_fetcher.ErrNoEntries}
	}
	logger.Info("loaded event", zap.String("path", eventPath), zap.Int("entries", len(event.Entries)))

	sessionConfig := session.Config{RunConfig: cfg}
	if cfg.Interactive {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			logger.Warn("standard input is not a terminal, prompts will read answers from it anyway")
		}
		sessionConfig.Prompter = selection.NewLinePrompter(os.Stdin, os.Stdout, cfg.PromptAttempts)
	}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		sessionConfig.Progress = func(description string, total int64) fetch.ProgressTracker {
			return progressbar.DefaultBytes(total, description)
		}
	}

	s, err := session.New(ctx, sessionConfig)
	if err != nil {
		return err
	}
	summary, err := s.Run(ctx, event.Entries)
	if summary != nil {
		if renderErr := summary.Render(os.Stdout); renderErr != nil {
			logger.Error("failed to write summary", zap.Error(renderErr))
		}
	}
	return err
}

// loadConfig layers defaults, then the --config file, then any flags set explicitly.
func loadConfig(c *cli.Context) (event_fetcher.RunConfig, error) {
	cfg := event_fetcher.DefaultRunConfig()
	if path := c.String("config"); path != "" {
		var err error
		if cfg, err = event_fetcher.LoadRunConfig(path, cfg); err != nil {
			return cfg, err
		}
	}
	if c.IsSet("output") {
		cfg.OutputDir = c.String("output")
	}
	if c.IsSet("entries") {
		cfg.Entries = c.String("entries")
	}
	if c.IsSet("interactive") {
		cfg.Interactive = c.Bool("interactive")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("parallel") {
		cfg.Parallelism = c.Int("parallel")
	}
	if c.IsSet("retries") {
		cfg.Retries = c.Int("retries")
	}
	if c.IsSet("timeout") {
		cfg.Timeout = c.Duration("timeout")
	}
	return cfg, cfg.Validate()
}
