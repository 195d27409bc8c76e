package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/AJ-Gonzalez/black-orchid/internal/app"
	"github.com/AJ-Gonzalez/black-orchid/internal/cli"
)

// main is the entrypoint for the black-orchid proxy.
func main() {
	// Use a minimal logger until the full one is configured. Stdout is the
	// MCP transport, so everything diagnostic goes to stderr.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stderr, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error
// handling.
func run(errW io.Writer, args []string) error {
	appConfig, shouldExit, err := cli.Parse(args, errW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	orchid, err := app.New(errW, appConfig)
	if err != nil {
		return err
	}
	defer orchid.Close()

	return orchid.Run(ctx)
}
