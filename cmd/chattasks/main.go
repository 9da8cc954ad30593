// Package main is the entry point for the chattasks CLI.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/runoshun/chat-tasks/internal/app"
	"github.com/runoshun/chat-tasks/internal/cli"
	"github.com/spf13/pflag"
)

// version is set at build time using -ldflags.
var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) (err error) {
	dir, configPath := globalFlags(args)

	// Create dependency injection container
	container, err := app.New(dir, configPath, os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer func() {
		if cerr := container.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Create and execute root command
	rootCmd := cli.NewRootCommand(container, version)
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// globalFlags extracts --dir and --config ahead of command parsing, since
// the container they configure must exist before the command tree is built.
func globalFlags(args []string) (dir, configPath string) {
	fs := pflag.NewFlagSet("global", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	fs.StringVar(&dir, cli.FlagDir, ".", "")
	fs.StringVar(&configPath, cli.FlagConfig, "", "")
	// Help and unknown flags are left for cobra to report.
	_ = fs.Parse(args)
	return dir, configPath
}
