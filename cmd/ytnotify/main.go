package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"ytnotify/internal/app"
	"ytnotify/internal/config"
	logx "ytnotify/pkg/logx"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const (
	exitOK     = 0
	exitConfig = 1
	exitUsage  = 2
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.LookupEnv, os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

func run(ctx context.Context, args []string, lookup config.Env, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("ytnotify", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		cfgPath     string
		envFile     string
		dryRun      bool
		showVersion bool
	)
	fs.StringVar(&cfgPath, "config", "", "path to a JSON or YAML config file (optional)")
	fs.StringVar(&envFile, "env-file", ".env", "dotenv file; exported variables take precedence")
	fs.BoolVar(&dryRun, "dry-run", false, "fetch and render, but send and save nothing")
	fs.BoolVar(&showVersion, "version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "unexpected arguments: %v\n", fs.Args())
		fs.Usage()
		return exitUsage
	}
	if showVersion {
		fmt.Fprintln(stdout, "ytnotify", version)
		return exitOK
	}

	bootLog := logx.NewConsole("info").With(logx.String("comp", "main"))

	var err error
	envFileSet := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "env-file" {
			envFileSet = true
		}
	})
	dotenv := map[string]string{}
	if strings.TrimSpace(envFile) != "" {
		dotenv, err = config.ReadDotenv(envFile, envFileSet)
		if err != nil {
			bootLog.Error("read env file failed", logx.String("path", envFile), logx.Err(err))
			return exitConfig
		}
	}

	cfg, err := config.Load(cfgPath, config.Overlay(lookup, dotenv))
	if err != nil {
		bootLog.Error("load config failed", logx.Err(err))
		return exitConfig
	}
	if err := cfg.Validate(); err != nil {
		bootLog.Error("invalid configuration", logx.Err(err))
		return exitConfig
	}

	a, err := app.New(ctx, cfg, app.Options{DryRun: dryRun, Version: version})
	if err != nil {
		bootLog.Error("startup failed", logx.Err(err))
		return exitConfig
	}
	defer a.Close()

	// Fetch and send failures are logged by the run and still exit 0;
	// the next scheduled invocation is the retry.
	_ = a.Run(ctx)
	return exitOK
}
