package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
)

const version = "2.0.0"

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "ytsync2",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := NewRunner(RunnerOpts{Logger: logger, Args: os.Args})
	app := &cli.Command{
		Name:    "ytsync2",
		Usage:   "Reconcile a local video archive against remote playlists",
		Version: version,
		Commands: []*cli.Command{
			checkCommand(runner),
			syncCommand(runner),
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "Interrupted.")
			os.Exit(1)
		}
		logger.Fatal(err)
	}
}
