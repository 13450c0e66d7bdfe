package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/satishbabariya/queryhelper/cli/commands"
	"github.com/satishbabariya/queryhelper/cli/internal/ui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := commands.Execute(ctx); err != nil {
		ui.PrintError("%v", err)
		stop()
		os.Exit(1)
	}
}
