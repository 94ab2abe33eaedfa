package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// ExitError is an error that carries a specific process exit code.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

// Options are the parsed command-line settings. Zero values mean "use the
// config file".
type Options struct {
	ConfigPath string
	From       string
	To         string
	Limit      int
	List       bool
	Update     bool
	Serve      bool
	Permissive bool
	Lang       string
	LogLevel   slog.Level
	LogFormat  string
}

// Parse processes args. It returns the options, whether the program should
// exit cleanly right away (help or nothing to do), or an *ExitError.
func Parse(args []string, output io.Writer) (*Options, bool, error) {
	flagSet := flag.NewFlagSet("trainguide", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
Underspace Train Travel Guide - cheapest train routes between stations.

Usage:
  trainguide -from STATION -to STATION [options]
  trainguide -list
  trainguide -serve

Stations are named "<line> - <station>"; a unique part of a name is enough.

Options:
`)
		flagSet.PrintDefaults()
	}

	opts := &Options{}
	flagSet.StringVar(&opts.ConfigPath, "config", "config.yaml", "Path to the YAML config file (optional).")
	flagSet.StringVar(&opts.From, "from", "", "Source station.")
	flagSet.StringVar(&opts.To, "to", "", "Destination station.")
	flagSet.IntVar(&opts.Limit, "limit", 0, "Number of routes to show. 0 uses the configured limit.")
	flagSet.BoolVar(&opts.List, "list", false, "List all stations and exit.")
	flagSet.BoolVar(&opts.Update, "update", false, "Download the wiki page even if a cached copy exists.")
	flagSet.BoolVar(&opts.Serve, "serve", false, "Serve the JSON API instead of answering one query.")
	flagSet.BoolVar(&opts.Permissive, "permissive", false, "Mark stations visited one level late, allowing self-loop repeats.")
	flagSet.StringVar(&opts.Lang, "lang", "", "Language tag for number formatting, e.g. en-US or de. Defaults to the config, then LANG.")
	logLevelFlag := flagSet.String("log-level", "warn", "Logging level: 'debug', 'info', 'warn', 'error'.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format: 'text' or 'json'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if flagSet.NArg() > 0 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unexpected argument %q", flagSet.Arg(0))}
	}

	if !opts.List && !opts.Serve && opts.From == "" && opts.To == "" {
		flagSet.Usage()
		return nil, true, nil
	}

	if opts.Limit < 0 {
		return nil, false, &ExitError{Code: 2, Message: "invalid limit: must not be negative"}
	}

	opts.LogFormat = strings.ToLower(*logFormatFlag)
	if opts.LogFormat != "text" && opts.LogFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	switch strings.ToLower(*logLevelFlag) {
	case "debug":
		opts.LogLevel = slog.LevelDebug
	case "info":
		opts.LogLevel = slog.LevelInfo
	case "warn":
		opts.LogLevel = slog.LevelWarn
	case "error":
		opts.LogLevel = slog.LevelError
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	slog.Debug("CLI arguments parsed.", "options", opts)
	return opts, false, nil
}

// NewLogger builds the process logger described by opts.
func NewLogger(w io.Writer, opts *Options) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: opts.LogLevel}
	if opts.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts))
}
