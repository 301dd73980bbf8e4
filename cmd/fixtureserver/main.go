// Command fixtureserver serves the stand-in fridge list page on :5173 so the
// verification can be run by hand without the app's dev server.
package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ibeckermayer/fridgeverify/internal/fixture"
	"github.com/ibeckermayer/fridgeverify/internal/logging"
)

func main() {
	addr, opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(2)
	}

	logger := logging.New(os.Stderr, slog.LevelInfo)
	opts.Logger = logger
	logger.Info("[fixture] Press Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fixture.Serve(ctx, addr, opts, nil); err != nil {
		logger.Error("[fixture] Fixture server failed", "error", err)
		os.Exit(1)
	}
}

// parseFlags mirrors the flags of "fridgeverify fixture".
func parseFlags(args []string, out io.Writer) (string, fixture.Options, error) {
	fs := flag.NewFlagSet("fixtureserver", flag.ContinueOnError)
	fs.SetOutput(out)

	addr := fs.String("addr", ":5173", "listen address")
	noDupe := fs.Bool("no-duplicate-check", false, "accept duplicate names silently")
	hang := fs.Bool("hang", false, "keep a request open so the page never reaches network idle")
	alertOnAdd := fs.Bool("alert-on-add", false, "alert after a successful add")

	if err := fs.Parse(args); err != nil {
		return "", fixture.Options{}, err
	}
	return *addr, fixture.Options{
		SkipDuplicateCheck: *noDupe,
		HangingRequest:     *hang,
		AlertOnAdd:         *alertOnAdd,
	}, nil
}
