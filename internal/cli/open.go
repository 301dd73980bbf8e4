package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/ibeckermayer/fridgeverify/internal/config"
)

var openTargets = []string{"screenshot", "config", "cache"}

var openCmd = &cobra.Command{
	Use:   "open <screenshot|config|cache>",
	Short: "Open the screenshot, config file or cache directory",
	Long: `Open a file with the system's default application.

Examples:
  fridgeverify open screenshot   # Last verification screenshot
  fridgeverify open config       # Config file in your editor
  fridgeverify open cache        # Cache directory (run history)`,
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: openTargets,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := openPath(args[0])
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("nothing to open: %w", err)
		}
		if err := browser.OpenFile(path); err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		return nil
	},
}

// lastScreenshot prefers the screenshot of the most recent recorded run and
// falls back to the configured path.
func lastScreenshot(cfg *config.Config, logger *slog.Logger) string {
	a := newApp(cfg, logger)
	defer a.Close()

	if h := a.History(); h != nil {
		if run, err := h.LastRun(); err == nil && run.ScreenshotPath != "" {
			return run.ScreenshotPath
		}
	}
	return cfg.Artifact.ScreenshotPath
}

// openPath resolves an open target to an absolute path.
func openPath(target string) (string, error) {
	switch target {
	case "screenshot":
		cfg, _, logger, err := setup()
		if err != nil {
			return "", err
		}
		return filepath.Abs(lastScreenshot(cfg, logger))
	case "config":
		if flagConfig != "" {
			return filepath.Abs(flagConfig)
		}
		return config.ConfigPath()
	case "cache":
		return config.CacheDir()
	default:
		return "", fmt.Errorf("unknown target %q (want one of %v)", target, openTargets)
	}
}
