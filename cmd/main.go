package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args, os.Stdout); err != nil {
		// Use stderr for startup errors since the logger may not be available
		os.Stderr.WriteString("riskgauge: " + err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}
