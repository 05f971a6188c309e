package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/docopt/docopt-go"

	"lox/internal/diag"
	"lox/internal/history"
	"lox/internal/repl"
	"lox/internal/runner"
	"lox/internal/util"
)

var (
	// Version is set at build time.
	Version   = "dev"
	BuildDate = "unknown"
	Commit    = "unknown"
)

const usage = `lox

Usage:
  lox [options] [SCRIPT]
  lox -h | --help
  lox --version

Arguments:
  SCRIPT  Path to a Lox script. Without one, an interactive prompt starts.

Options:
  --config=PATH       Read settings from a .toml or .yaml file.
  --log-level=LEVEL   Log level: debug, info, warn, error. Default is error.
  --log-file=PATH     Write logs to PATH instead of stderr.
  --history=DSN       REPL history store: a sqlite path, sqlite3://PATH,
                      mysql://DSN or postgres://URL. Defaults to $LOX_HISTORY.
  --history-size=N    Lines of history to recall at startup. Default is 100.
  --max-depth=N       Maximum call depth. Default is 2048.
  --debug-ast         Write the parsed program to stderr as JSON.
  -h, --help          Display this help and exit.
  --version           Print version information and exit.
`

func main() {
	os.Exit(run())
}

func run() int {
	parser := &docopt.Parser{HelpHandler: docopt.PrintHelpOnly, OptionsFirst: false}
	opts, err := parser.ParseArgs(usage, os.Args[1:], versionString())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return diag.ExitUsage
	}
	if len(opts) == 0 {
		// help or version was printed
		return diag.ExitOK
	}

	config, err := configFromOptions(opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return diag.ExitUsage
	}

	// Creates a new Logger that uses a JSONHandler
	loggerOptions := &slog.HandlerOptions{
		AddSource: false,
		Level:     logLevelFromString(config.LogLevel),
	}
	logWriter := configureLogWriter(config.LogFile)
	slog.SetDefault(slog.New(slog.NewJSONHandler(logWriter, loggerOptions)))

	r := runner.New(config, os.Stdout, os.Stderr)

	if script, _ := opts.String("SCRIPT"); script != "" {
		return r.RunFile(script)
	}

	ctx := context.Background()
	session := &repl.Session{Runner: r, HistorySize: config.HistorySize}
	if config.HistoryDSN != "" {
		store, err := history.Open(ctx, config.HistoryDSN)
		if err != nil {
			slog.Warn("history disabled", slog.Any("error", err))
		} else {
			defer store.Close()
			session.History = store
		}
	}

	if err := session.Start(ctx, os.Stdin); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return diag.ExitIO
	}
	return diag.ExitOK
}

// configFromOptions layers the configuration file, the environment and
// then the command line over the defaults.
func configFromOptions(opts docopt.Opts) (util.Configuration, error) {
	config := util.DefaultConfiguration()
	config.Version = Version
	config.BuildDate = BuildDate
	config.Commit = Commit

	if path, _ := opts.String("--config"); path != "" {
		if err := config.LoadFile(path); err != nil {
			return config, err
		}
	}

	if dsn := os.Getenv("LOX_HISTORY"); dsn != "" {
		config.HistoryDSN = dsn
	}

	if debugAST, _ := opts.Bool("--debug-ast"); debugAST {
		config.DebugAST = true
	}
	if level, _ := opts.String("--log-level"); level != "" {
		config.LogLevel = level
	}
	if file, _ := opts.String("--log-file"); file != "" {
		config.LogFile = file
	}
	if dsn, _ := opts.String("--history"); dsn != "" {
		config.HistoryDSN = dsn
	}

	var err error
	if config.HistorySize, err = intOption(opts, "--history-size", config.HistorySize); err != nil {
		return config, err
	}
	if config.MaxCallDepth, err = intOption(opts, "--max-depth", config.MaxCallDepth); err != nil {
		return config, err
	}
	return config, nil
}

// intOption returns the option's value, or fallback when it was not given.
func intOption(opts docopt.Opts, name string, fallback int) (int, error) {
	s, _ := opts.String(name)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer, got %q", name, s)
	}
	return n, nil
}

func configureLogWriter(logFile string) *os.File {
	if logFile == "" {
		return os.Stderr
	}
	// Create parent directories if they don't exist
	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create log directory for '%s': %v; falling back to stderr\n", logFile, err)
		return os.Stderr
	}
	logWriter, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file '%s': %v; falling back to stderr\n", logFile, err)
		return os.Stderr
	}
	return logWriter
}

func versionString() string {
	return fmt.Sprintf("lox version 'v%s' %s %s", Version, BuildDate, Commit)
}

func logLevelFromString(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelError
	}
}
