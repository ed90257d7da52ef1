package daemon

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/manav03panchal/safecompanion/internal/logging"
)

// shutdownSignals end a foreground monitor.
var shutdownSignals = []os.Signal{syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP}

// waitForShutdown blocks until a shutdown signal arrives or ctx ends.
func waitForShutdown(ctx context.Context) {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, shutdownSignals...)
	defer signal.Stop(signals)

	select {
	case sig := <-signals:
		logging.Info("received signal", "signal", sig.String())
	case <-ctx.Done():
	}
}
