package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"stock_sync/internal/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := commands.Serve(ctx, false); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
