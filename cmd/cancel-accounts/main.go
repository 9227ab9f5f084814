package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	cancelaccounts "github.com/goliatone/go-cancel-accounts"
	"github.com/goliatone/go-cancel-accounts/adapters/gologger"
	"github.com/goliatone/go-cancel-accounts/core"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

type cliOptions struct {
	configPath string
	envFile    string
	validate   bool
	runtime    core.Config

	// explicitKeys lists the config keys whose flags were passed, so zero
	// values such as -dry-run=false still override the config file.
	explicitKeys []string
}

var flagConfigKeys = map[string]string{
	"input":       "source.path",
	"column":      "source.column",
	"endpoint":    "api.endpoint",
	"timeout":     "api.timeout_seconds",
	"rate-limit":  "rate_limit.calls",
	"rate-window": "rate_limit.window_seconds",
	"dry-run":     "run.dry_run",
	"log-level":   "logging.level",
	"log-format":  "logging.format",
	"log-output":  "logging.output",
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	options, err := parseFlags(args, stderr)
	if err != nil {
		if err == flag.ErrHelp {
			return exitOK
		}
		return exitUsage
	}

	loader := core.ChainConfigLoader{
		core.FileConfigLoader{Path: options.configPath},
		core.NewEnvConfigLoader(options.envFile),
	}
	cfg, err := cancelaccounts.LoadConfig(ctx, loader, options.runtime, options.explicitKeys...)
	if err != nil {
		fmt.Fprintf(stderr, "cancel-accounts: invalid configuration: %v\n", err)
		return exitError
	}
	if options.validate {
		fmt.Fprintln(stderr, "cancel-accounts: configuration is valid")
		return exitOK
	}

	provider, err := gologger.New(gologger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		fmt.Fprintf(stderr, "cancel-accounts: %v\n", err)
		return exitError
	}
	defer func() { _ = provider.Sync() }()
	logger := provider.GetLogger("cli")
	core.LogEvent(ctx, logger, core.LevelDebug, "configuration loaded", cfg.LogFields())

	app, err := cancelaccounts.Setup(cfg, cancelaccounts.WithLoggerProvider(provider))
	if err != nil {
		core.LogEvent(ctx, logger, core.LevelError, "setup failed", core.ErrorFields(err))
		return exitError
	}

	core.LogEvent(ctx, logger, core.LevelInfo, "application started", map[string]any{
		"source":  cfg.Source.Path,
		"dry_run": cfg.Run.DryRun,
	})
	report, err := app.Run(ctx)
	core.LogEvent(ctx, logger, core.LevelInfo, "application finished", report.Fields())
	if err != nil {
		return exitError
	}
	return exitOK
}

func parseFlags(args []string, output io.Writer) (cliOptions, error) {
	options := cliOptions{}
	runtime := &options.runtime

	fs := flag.NewFlagSet("cancel-accounts", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&options.configPath, "config", "", "Path to the YAML configuration file")
	fs.StringVar(&options.envFile, "env-file", ".env", "Dotenv file with CANCEL_ACCOUNTS_* variables (ignored when missing)")
	fs.BoolVar(&options.validate, "validate", false, "Validate configuration and exit")

	fs.StringVar(&runtime.Source.Path, "input", "", "CSV file with the accounts to cancel")
	fs.StringVar(&runtime.Source.Column, "column", "", "CSV column holding account ids (default account_id)")
	fs.StringVar(&runtime.API.Endpoint, "endpoint", "", "GraphQL endpoint URL")
	fs.IntVar(&runtime.API.TimeoutSeconds, "timeout", 0, "Request timeout in seconds")
	fs.IntVar(&runtime.RateLimit.Calls, "rate-limit", 0, "Maximum calls per rate limit window")
	fs.IntVar(&runtime.RateLimit.WindowSeconds, "rate-window", 0, "Rate limit window in seconds")
	fs.BoolVar(&runtime.Run.DryRun, "dry-run", false, "Look up accounts and shares without revoking or canceling")
	fs.StringVar(&runtime.Logging.Level, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&runtime.Logging.Format, "log-format", "", "Log format (console, json)")
	fs.StringVar(&runtime.Logging.Output, "log-output", "", "Log output (stdout, stderr, or file path)")

	fs.Usage = func() {
		fmt.Fprintf(output, `cancel-accounts - cancel managed accounts listed in a CSV file

USAGE:
    cancel-accounts -input accounts.csv [options]

The API key is read from CANCEL_ACCOUNTS_API_KEY (environment or -env-file)
or from api.api_key in the -config file.

OPTIONS:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, err
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(output, "cancel-accounts: unexpected arguments %v\n", fs.Args())
		fs.Usage()
		return cliOptions{}, fmt.Errorf("cancel-accounts: unexpected arguments")
	}
	fs.Visit(func(f *flag.Flag) {
		if key, ok := flagConfigKeys[f.Name]; ok {
			options.explicitKeys = append(options.explicitKeys, key)
		}
	})
	return options, nil
}
