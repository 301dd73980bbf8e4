package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ibeckermayer/fridgeverify/internal/fixture"
	"github.com/ibeckermayer/fridgeverify/internal/logging"
)

var (
	flagFixtureAddr     string
	flagFixtureHang     bool
	flagFixtureNoDupe   bool
	flagFixtureAlertAdd bool
)

var fixtureCmd = &cobra.Command{
	Use:   "fixture",
	Short: "Serve a stand-in fridge list page",
	Long: `Serve a minimal /test-fridge-list page with an add modal and a duplicate
name alert, so the verification can run without the real dev server.

Examples:
  fridgeverify fixture                   # http://localhost:5173/test-fridge-list
  fridgeverify fixture --addr :8080
  fridgeverify fixture --no-duplicate-check`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if flagVerbose {
			level = slog.LevelDebug
		}

		ctx, stop := signalContext()
		defer stop()

		return fixture.Serve(ctx, flagFixtureAddr, fixture.Options{
			SkipDuplicateCheck: flagFixtureNoDupe,
			HangingRequest:     flagFixtureHang,
			AlertOnAdd:         flagFixtureAlertAdd,
			Logger:             logging.New(cmd.ErrOrStderr(), level),
		}, nil)
	},
}

func init() {
	fixtureCmd.Flags().StringVar(&flagFixtureAddr, "addr", ":5173", "Listen address")
	fixtureCmd.Flags().BoolVar(&flagFixtureNoDupe, "no-duplicate-check", false, "Accept duplicate names silently")
	fixtureCmd.Flags().BoolVar(&flagFixtureHang, "hang", false, "Keep a request open so the page never reaches network idle")
	fixtureCmd.Flags().BoolVar(&flagFixtureAlertAdd, "alert-on-add", false, "Alert after a successful add")
}
