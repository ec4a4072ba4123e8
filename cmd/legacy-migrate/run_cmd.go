package main

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/iota-uz/legacy-migrate/modules/migration/domain/store"
	"github.com/iota-uz/legacy-migrate/modules/migration/infrastructure/persistence"
	"github.com/iota-uz/legacy-migrate/modules/migration/services"
	"github.com/iota-uz/legacy-migrate/pkg/eventbus"
	"github.com/iota-uz/legacy-migrate/pkg/metrics"
)

type migrateOptions struct {
	sourceDir       string
	metricsTextfile string
	progress        bool
	logger          logrus.FieldLogger
	out             io.Writer
}

func newRunCmd(g *globalOptions) *cobra.Command {
	var progress bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Provision the schema and migrate every legacy export",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			conf, err := g.config()
			if err != nil {
				return err
			}
			defer conf.Unload()

			flush, err := setupTracing(ctx, conf)
			if err != nil {
				return err
			}
			defer flush()

			pool, err := connectDB(ctx, conf)
			if err != nil {
				return withCode(exitDB, err)
			}
			defer pool.Close()

			return migrate(ctx, persistence.NewPostgresStore(pool), migrateOptions{
				sourceDir:       conf.SourceDir,
				metricsTextfile: conf.MetricsTextfile,
				progress:        progress,
				logger:          conf.Logger(),
				out:             cmd.OutOrStdout(),
			})
		},
	}

	cmd.Flags().BoolVar(&progress, "progress", false, "Print one JSON line per migrated entity before the summary")
	return cmd
}

type runTotals struct {
	Attempted int `json:"attempted"`
	Succeeded int `json:"succeeded"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

type runSummary struct {
	Status     string                   `json:"status"`
	Error      string                   `json:"error,omitempty"`
	RunID      uuid.UUID                `json:"run_id"`
	SourceDir  string                   `json:"source_dir"`
	DurationMS int64                    `json:"duration_ms"`
	Totals     runTotals                `json:"totals"`
	Provision  services.ProvisionReport `json:"provision"`
	Entities   []services.EntityReport  `json:"entities"`
}

func newRunSummary(rep *services.RunReport, err error) runSummary {
	s := runSummary{Status: "completed"}
	if err != nil {
		s.Status = "aborted"
		s.Error = err.Error()
	}
	if rep == nil {
		return s
	}
	t := rep.Totals()
	s.RunID = rep.RunID
	s.SourceDir = rep.SourceDir
	s.DurationMS = rep.FinishedAt.Sub(rep.StartedAt).Milliseconds()
	s.Totals = runTotals{
		Attempted: t.Attempted,
		Succeeded: t.Succeeded,
		Skipped:   t.Skipped,
		Failed:    t.Failed,
	}
	s.Provision = rep.Provision
	s.Entities = rep.Entities
	return s
}

func migrate(ctx context.Context, s store.Store, opts migrateOptions) error {
	rec := metrics.NewRecorder()
	bus := eventbus.NewEventPublisher(opts.logger)
	if opts.progress {
		bus.Subscribe(func(e *services.EntityCompletedEvent) {
			if err := writeJSONLine(opts.out, e.Report); err != nil {
				opts.logger.WithError(err).Warn("progress line not written")
			}
		})
	}

	o := services.NewOrchestrator(s, opts.sourceDir, persistence.TableDDL,
		services.WithLogger(opts.logger),
		services.WithEventBus(bus),
		services.WithMetrics(rec),
	)
	rep, runErr := o.Run(ctx)

	if opts.metricsTextfile != "" {
		if err := rec.WriteTextfile(opts.metricsTextfile); err != nil {
			opts.logger.WithError(err).WithField("path", opts.metricsTextfile).Warn("metrics textfile not written")
		}
	}
	if err := writeJSONLine(opts.out, newRunSummary(rep, runErr)); err != nil {
		return err
	}
	return runFailure(runErr)
}
