package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/iota-uz/legacy-migrate/pkg/configuration"
	"github.com/iota-uz/legacy-migrate/pkg/logging"
)

type globalOptions struct {
	sourceDir string
}

func newRootCmd() *cobra.Command {
	var g globalOptions

	cmd := &cobra.Command{
		Use:           "legacy-migrate",
		Short:         "Migrate legacy CRM exports into the client portal database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&g.sourceDir, "source", "", "Directory holding the legacy exports (overrides SOURCE_DIR)")

	cmd.AddCommand(newRunCmd(&g))
	cmd.AddCommand(newProvisionCmd(&g))
	cmd.AddCommand(newInspectCmd())
	return cmd
}

// config returns the process configuration. A bad environment is a usage
// error, not a crash.
func (g *globalOptions) config() (conf *configuration.Configuration, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = withCode(exitUsage, fmt.Errorf("load configuration: %v", r))
		}
	}()
	conf = configuration.Use()
	if dir := strings.TrimSpace(g.sourceDir); dir != "" {
		conf.SourceDir = dir
	}
	return conf, nil
}

// setupTracing installs the OTLP exporter when enabled. The returned func
// flushes it and is always safe to call.
func setupTracing(ctx context.Context, conf *configuration.Configuration) (func(), error) {
	if !conf.OpenTelemetry.Enabled {
		return func() {}, nil
	}
	shutdown, err := logging.SetupTracing(ctx, conf.OpenTelemetry.ServiceName, conf.OpenTelemetry.TempoURL, conf.Logger())
	if err != nil {
		return nil, withCode(exitUsage, fmt.Errorf("setup tracing: %w", err))
	}
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(ctx); err != nil {
			conf.Logger().WithError(err).Warn("tracing shutdown failed")
		}
	}, nil
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		code := exitCode(err)
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(code)
	}
}
