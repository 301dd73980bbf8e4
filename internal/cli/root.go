// Package cli implements the fridgeverify command tree.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ibeckermayer/fridgeverify/internal/app"
	"github.com/ibeckermayer/fridgeverify/internal/config"
	"github.com/ibeckermayer/fridgeverify/internal/fixture"
	"github.com/ibeckermayer/fridgeverify/internal/logging"
)

var (
	flagConfig      string
	flagVerbose     bool
	flagHeaded      bool
	flagBestEffort  bool
	flagWithFixture bool
)

var rootCmd = &cobra.Command{
	Use:   "fridgeverify",
	Short: "fridgeverify - Duplicate fridge name check for the fridge list page",
	Long: `fridgeverify opens the fridge list page in a headless browser, tries to add
a fridge whose name already exists and saves a screenshot of the result.

Quick start:
  fridgeverify                        # Run once against http://localhost:5173
  fridgeverify --with-fixture         # Run against the built-in test page
  fridgeverify --headed               # Watch the browser while it runs
  fridgeverify watch --every 10m      # Re-run periodically
  fridgeverify history                # Show recent runs
  fridgeverify open screenshot        # Open the last screenshot`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Config file (default: user config dir)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVar(&flagHeaded, "headed", false, "Show the browser window")

	rootCmd.Flags().BoolVar(&flagBestEffort, "best-effort", false, "Exit 0 even when the verification fails")
	rootCmd.Flags().BoolVar(&flagWithFixture, "with-fixture", false, "Serve the built-in test page and run against it")

	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(openCmd)
	rootCmd.AddCommand(fixtureCmd)
}

// Execute runs the command tree and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

// setup loads configuration and builds the logger shared by all commands.
func setup() (*config.Config, string, *slog.Logger, error) {
	cfg, path, err := config.LoadOrDefault(flagConfig, flagConfig == "")
	if cfg == nil {
		return nil, path, nil, fmt.Errorf("failed to load config: %w", err)
	}

	level := logging.ParseLevel(cfg.Log.Level)
	if flagVerbose {
		level = slog.LevelDebug
	}
	logger := logging.New(os.Stderr, level)
	if err != nil {
		logger.Warn("[cli] Using default config", "path", path, "error", err)
	}

	if flagHeaded {
		cfg.Browser.Headless = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, path, logger, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, path, logger, nil
}

// newApp opens the run history when enabled. A history that cannot be
// opened only disables recording.
func newApp(cfg *config.Config, logger *slog.Logger) *app.App {
	history, err := app.OpenHistory(cfg)
	if err != nil {
		logger.Warn("[cli] Run history disabled", "error", err)
		history = nil
	}
	return app.New(cfg, history, logger)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runRoot(cmd *cobra.Command, args []string) error {
	cfg, _, logger, err := setup()
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	if flagWithFixture {
		err = runWithFixture(ctx, cfg, logger)
	} else {
		err = runOnce(ctx, cfg, logger)
	}

	if err != nil && flagBestEffort {
		logger.Warn("[cli] Verification failed, exiting 0 (--best-effort)", "error", err)
		return nil
	}
	return err
}

func runOnce(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	a := newApp(cfg, logger)
	defer a.Close()

	_, err := a.RunOnce(ctx)
	return err
}

// runWithFixture serves the test page on a free loopback port and points
// the run at it. The server stops once the run returns.
func runWithFixture(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	g, gctx := errgroup.WithContext(ctx)
	serveCtx, stopServe := context.WithCancel(gctx)
	defer stopServe()

	ready := make(chan string, 1)
	g.Go(func() error {
		return fixture.Serve(serveCtx, "127.0.0.1:0", fixture.Options{Logger: logger}, ready)
	})

	g.Go(func() error {
		defer stopServe()
		select {
		case addr := <-ready:
			cfg.Target.BaseURL = "http://" + addr
		case <-gctx.Done():
			return gctx.Err()
		}
		return runOnce(gctx, cfg, logger)
	})

	return g.Wait()
}
