package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/atelier-dev/atelier/internal/app"
	"github.com/atelier-dev/atelier/internal/cli"
	"github.com/atelier-dev/atelier/internal/diag"
	"github.com/atelier-dev/atelier/internal/wizard"
)

func main() {
	// Minimal logger until the configured one takes over.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}

		var diags diag.Diagnostics
		if errors.As(err, &diags) {
			cli.PrintDiagnostics(os.Stderr, diags)
			os.Exit(1)
		}

		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run holds the program logic so tests can drive it without a process
// boundary.
func run(outW, errW io.Writer, args []string) error {
	opts, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	prompt := func() (map[string]string, error) {
		return wizard.Run(os.Stdin, errW)
	}

	a := app.New(outW, errW, opts, prompt)
	return a.Run(context.Background(), opts)
}
