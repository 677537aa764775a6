// Package main is the askhr command-line tool.
package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/garyellow/askhr-go/internal/cli"
	"github.com/garyellow/askhr-go/internal/config"
	"github.com/garyellow/askhr-go/internal/logger"
)

func main() {
	if err := run(); err != nil {
		cli.ReportError(os.Stderr, err, strings.EqualFold(os.Getenv(config.EnvLogLevel), "debug"))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Logs go to stderr so command output stays pipeable.
	level := cfg.LogLevel
	if os.Getenv(config.EnvLogLevel) == "" {
		level = "warn"
	}
	log := logger.NewWithWriter(level, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return cli.NewRootCmd(&cli.App{Config: cfg, Logger: log}).ExecuteContext(ctx)
}
