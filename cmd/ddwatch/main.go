package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/kestrel-labs/ddwatch/internal/adapters/driving/cli"
)

func main() {
	// Ctrl-C cancels in-flight requests and running streams instead of
	// killing the process mid-page.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
