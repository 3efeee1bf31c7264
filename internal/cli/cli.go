// Package cli parses the command line into app options and renders
// collected diagnostics for humans.
package cli

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/atelier-dev/atelier/internal/app"
	"github.com/atelier-dev/atelier/internal/diag"
)

// ExitError carries a specific process exit code up to main.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return e.Message
}

const usage = `atelier — compose an agent workspace from a declarative project configuration.

Usage:
  atelier generate --config <path> --output <dir>
  atelier generate --interactive --output <dir>

The configuration document may be HCL (.hcl) or YAML (.yaml/.yml). The
generated tree holds rules/, skills/, agents/, hooks/ and one settings.json;
a settings.local.json in the target is never touched.

Options:
`

// Parse processes arguments into app options. The boolean result is true
// when the program should exit cleanly without running (help, no args).
func Parse(args []string, output io.Writer) (*app.Options, bool, error) {
	if len(args) == 0 {
		fmt.Fprint(output, usage)
		return nil, true, nil
	}
	if args[0] != "generate" {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unknown command %q (only \"generate\" is supported)", args[0])}
	}

	flagSet := flag.NewFlagSet("atelier generate", flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprint(output, usage)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "", "Path to the configuration document (.hcl, .yaml, .yml).")
	outputFlag := flagSet.String("output", "", "Directory the workspace is generated into.")
	interactiveFlag := flagSet.Bool("interactive", false, "Collect the configuration through terminal prompts instead of a document.")
	logLevelFlag := flagSet.String("log-level", "info", "Logging level: debug, info, warn, or error.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format: text or json.")

	if err := flagSet.Parse(args[1:]); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	switch *logLevelFlag {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be debug, info, warn, or error"}
	}
	switch *logFormatFlag {
	case "text", "json":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be text or json"}
	}

	if *outputFlag == "" {
		return nil, false, &ExitError{Code: 2, Message: "missing required flag --output"}
	}

	interactive := *interactiveFlag
	if *configFlag == "" && !interactive {
		// No document on a terminal means the user wants the prompts.
		if term.IsTerminal(int(os.Stdin.Fd())) {
			interactive = true
		} else {
			return nil, false, &ExitError{Code: 2, Message: "missing required flag --config (or run with --interactive on a terminal)"}
		}
	}
	if *configFlag != "" && interactive {
		return nil, false, &ExitError{Code: 2, Message: "--config and --interactive are mutually exclusive"}
	}

	return &app.Options{
		ConfigPath:  *configFlag,
		OutputDir:   *outputFlag,
		Interactive: interactive,
		LogLevel:    *logLevelFlag,
		LogFormat:   *logFormatFlag,
	}, false, nil
}

// PrintDiagnostics renders an error for stderr. Collected diagnostics are
// listed one per line, grouped exactly in the order the stages found them,
// with the class highlighted when the writer is a terminal.
func PrintDiagnostics(w io.Writer, err error) {
	diags, ok := err.(diag.Diagnostics)
	if !ok {
		fmt.Fprintln(w, "error:", err)
		return
	}

	classColor := map[diag.Class]*color.Color{
		diag.Config:     color.New(color.FgYellow),
		diag.Validation: color.New(color.FgRed),
		diag.Template:   color.New(color.FgMagenta),
		diag.IO:         color.New(color.FgCyan),
	}

	fmt.Fprintf(w, "generation failed with %d error(s):\n", len(diags))
	for _, d := range diags {
		label := string(d.Class)
		if c, ok := classColor[d.Class]; ok {
			label = c.Sprint(label)
		}
		if d.Subject != "" {
			fmt.Fprintf(w, "  %s [%s] %s", label, d.Subject, d.Summary)
		} else {
			fmt.Fprintf(w, "  %s %s", label, d.Summary)
		}
		if d.Detail != "" {
			fmt.Fprintf(w, ": %s", d.Detail)
		}
		fmt.Fprintln(w)
	}
}
