package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"evalgo.org/flightasset/internal/commands"
	"evalgo.org/flightasset/internal/version"
	"evalgo.org/flightasset/models"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	version.Version = Version
	version.BuildTime = BuildTime
	version.GitCommit = GitCommit

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := commands.Execute(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(models.ExitCodeOf(err))
	}
}
