package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/specialistvlad/prefillgrid/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// pathList collects a repeatable string flag.
type pathList []string

func (p *pathList) String() string { return strings.Join(*p, ",") }

func (p *pathList) Set(v string) error {
	*p = append(*p, v)
	return nil
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
// Flags may appear before or after the command.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("prefillgrid", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
prefillgrid - resolves prefill data sources for blueprint form fields.

Usage:
  prefillgrid [options] <command>

Commands:
  inspect   Print the blueprint's nodes, edges and configured globals.
  sources   Print the grouped data sources for one node (requires -node).
  serve     Run the prefill HTTP API.

Options:
`)
		flagSet.PrintDefaults()
	}

	var configPaths pathList
	flagSet.Var(&configPaths, "config", "Path to an .hcl file or directory. May be repeated.")
	blueprintFlag := flagSet.String("blueprint", "", "Blueprint location: an http(s) URL, a file path or any afs URL.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	portFlag := flagSet.Int("port", 0, "Port for the HTTP API (serve). 0 keeps the configured value.")
	ttlFlag := flagSet.Duration("highlight-ttl", 0, "How long a newly added mapping stays highlighted.")
	nodeFlag := flagSet.String("node", "", "Target node id for the sources command.")
	formatFlag := flagSet.String("format", "text", "Output format. Options: 'text', 'json', 'yaml'.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	if flagSet.NArg() == 0 {
		slog.Debug("No command provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	command := flagSet.Arg(0)
	if err := flagSet.Parse(flagSet.Args()[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if flagSet.NArg() > 0 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unexpected arguments: %s", strings.Join(flagSet.Args(), " "))}
	}
	slog.Debug("Arguments parsed successfully.", "command", command)

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	var ttl *time.Duration
	flagSet.Visit(func(f *flag.Flag) {
		if f.Name == "highlight-ttl" {
			ttl = ttlFlag
		}
	})

	config, err := app.NewConfig(app.Config{
		Command:      app.Command(strings.ToLower(command)),
		ConfigPaths:  configPaths,
		BlueprintURL: *blueprintFlag,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
		Port:         *portFlag,
		HighlightTTL: ttl,
		NodeID:       *nodeFlag,
		Format:       strings.ToLower(*formatFlag),
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
