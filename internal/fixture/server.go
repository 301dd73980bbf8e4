package fixture

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// Serve runs the fixture on addr until ctx is cancelled. If ready is non-nil
// it receives the bound address once the listener is up.
func Serve(ctx context.Context, addr string, opts Options, ready chan<- string) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           Handler(opts),
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("[fixture] Serving test page", "url", "http://"+ln.Addr().String()+"/test-fridge-list")
	if ready != nil {
		ready <- ln.Addr().String()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		// hanging requests may outlive the grace period
		_ = srv.Close()
	}
	logger.Info("[fixture] Stopped")
	return nil
}
