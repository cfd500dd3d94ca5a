// Command fishdash queries a survey catalog from the terminal
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"fishdash/internal/cli"
)

func main() {
	cli.InitLogging()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
