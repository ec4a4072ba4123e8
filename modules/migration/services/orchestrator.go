package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/iota-uz/legacy-migrate/modules/migration/domain/registry"
	"github.com/iota-uz/legacy-migrate/modules/migration/domain/store"
	"github.com/iota-uz/legacy-migrate/modules/migration/infrastructure/source"
	"github.com/iota-uz/legacy-migrate/pkg/eventbus"
	"github.com/iota-uz/legacy-migrate/pkg/metrics"
)

const tracerName = "github.com/iota-uz/legacy-migrate/modules/migration/services"

var (
	ErrSourceUnreadable = errors.New("source file unreadable")
	ErrMigratorPanic    = errors.New("migrator panicked")
)

// DefaultPipeline lists the migrators in dependency order: anchors first,
// then everything that references them.
func DefaultPipeline() []Migrator {
	return []Migrator{
		AccountsMigrator{},
		UsersMigrator{},
		ProjectsMigrator{},
		TasksMigrator{},
		MeetingsMigrator{},
		DocumentsMigrator{},
		TimePackagesMigrator{},
		ScheduleLinksMigrator{},
	}
}

type RunReport struct {
	RunID      uuid.UUID       `json:"run_id"`
	SourceDir  string          `json:"source_dir"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Provision  ProvisionReport `json:"provision"`
	Entities   []EntityReport  `json:"entities"`
}

// Totals sums the per-entity counters.
func (r *RunReport) Totals() EntityReport {
	var t EntityReport
	for _, e := range r.Entities {
		t.Attempted += e.Attempted
		t.Succeeded += e.Succeeded
		t.Skipped += e.Skipped
		t.Failed += e.Failed
		t.Duration += e.Duration
	}
	t.DurationMS = t.Duration.Milliseconds()
	return t
}

type Orchestrator struct {
	store       store.Store
	sourceDir   string
	pipeline    []Migrator
	provisioner *Provisioner
	logger      logrus.FieldLogger
	bus         eventbus.EventBus
	metrics     *metrics.Recorder
	tracer      trace.Tracer
	readFile    func(path string) (*source.Table, error)
}

type Option func(*Orchestrator)

func WithLogger(l logrus.FieldLogger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

func WithEventBus(b eventbus.EventBus) Option {
	return func(o *Orchestrator) { o.bus = b }
}

func WithMetrics(r *metrics.Recorder) Option {
	return func(o *Orchestrator) { o.metrics = r }
}

func WithPipeline(p []Migrator) Option {
	return func(o *Orchestrator) { o.pipeline = p }
}

// WithProvisioner replaces the provisioner; nil disables provisioning.
func WithProvisioner(p *Provisioner) Option {
	return func(o *Orchestrator) { o.provisioner = p }
}

func WithTracer(t trace.Tracer) Option {
	return func(o *Orchestrator) { o.tracer = t }
}

// NewOrchestrator wires a run against s reading exports from sourceDir. ddl
// feeds the default provisioner.
func NewOrchestrator(s store.Store, sourceDir string, ddl DDLFunc, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		store:     s,
		sourceDir: sourceDir,
		pipeline:  DefaultPipeline(),
		logger:    logrus.StandardLogger(),
		readFile:  source.ReadFile,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.bus == nil {
		o.bus = eventbus.NewEventPublisher(o.logger)
	}
	if o.tracer == nil {
		o.tracer = otel.Tracer(tracerName)
	}
	if o.provisioner == nil && ddl != nil {
		o.provisioner = NewProvisioner(s, ddl, o.logger, o.metrics)
	}
	return o
}

// SourcePath returns where the export of e is expected. A workbook saved
// under the same base name is accepted in place of the CSV.
func SourcePath(dir string, e store.Entity) string {
	p := filepath.Join(dir, e.SourceFile())
	if _, err := os.Stat(p); err == nil {
		return p
	}
	alt := strings.TrimSuffix(p, filepath.Ext(p)) + ".xlsx"
	if _, err := os.Stat(alt); err == nil {
		return alt
	}
	return p
}

// LoadSources reads every export up front so a missing file stops the run
// before anything is written.
func (o *Orchestrator) LoadSources(ctx context.Context) (Sources, error) {
	_, span := o.tracer.Start(ctx, "migrate.load_sources")
	defer span.End()

	out := make(Sources, len(o.pipeline))
	for _, m := range o.pipeline {
		e := m.Entity()
		if _, ok := out[e]; ok {
			continue
		}
		path := SourcePath(o.sourceDir, e)
		t, err := o.readFile(path)
		if err != nil {
			err = fmt.Errorf("%w: %s: %w", ErrSourceUnreadable, e, err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "source unreadable")
			return nil, err
		}
		o.logger.WithFields(logrus.Fields{
			"entity": e,
			"path":   path,
			"format": t.Format,
			"rows":   t.Len(),
		}).Info("source loaded")
		out[e] = t
	}
	// Time package synthesis reads the accounts export too.
	if _, ok := out[store.EntityAccounts]; !ok && o.hasEntity(store.EntityTimePackages) {
		path := SourcePath(o.sourceDir, store.EntityAccounts)
		t, err := o.readFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrSourceUnreadable, store.EntityAccounts, err)
		}
		out[store.EntityAccounts] = t
	}
	span.SetAttributes(attribute.Int("sources", len(out)))
	return out, nil
}

func (o *Orchestrator) hasEntity(e store.Entity) bool {
	for _, m := range o.pipeline {
		if m.Entity() == e {
			return true
		}
	}
	return false
}

// Provision runs only the schema step.
func (o *Orchestrator) Provision(ctx context.Context) ProvisionReport {
	if o.provisioner == nil {
		return ProvisionReport{}
	}
	ctx, span := o.tracer.Start(ctx, "migrate.provision")
	defer span.End()

	rep := o.provisioner.Provision(ctx)
	span.SetAttributes(
		attribute.Int("tables.created", len(rep.Created)),
		attribute.Int("tables.failed", len(rep.Failed)),
	)
	return rep
}

// Run loads the sources, provisions the schema and runs the pipeline in
// order. Row failures are counted, never fatal; the returned error is set
// only for unreadable sources, cancellation or a migrator that panicked. The
// report covers whatever completed.
func (o *Orchestrator) Run(ctx context.Context) (rep *RunReport, err error) {
	rep = &RunReport{
		RunID:     uuid.New(),
		SourceDir: o.sourceDir,
		StartedAt: time.Now().UTC(),
	}
	log := o.logger.WithField("run_id", rep.RunID)

	ctx, span := o.tracer.Start(ctx, "migrate.run", trace.WithAttributes(
		attribute.String("run.id", rep.RunID.String()),
	))
	defer func() {
		rep.FinishedAt = time.Now().UTC()
		o.metrics.MarkRunFinished(rep.FinishedAt)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "migration aborted")
			log.WithError(err).Error("migration aborted")
		}
		span.End()
		o.bus.Publish(&RunCompletedEvent{Report: rep, Err: err})
	}()

	o.bus.Publish(&RunStartedEvent{RunID: rep.RunID, SourceDir: o.sourceDir})

	sources, err := o.LoadSources(ctx)
	if err != nil {
		return rep, err
	}

	rep.Provision = o.Provision(ctx)
	if err := ctx.Err(); err != nil {
		return rep, err
	}

	env := &Env{
		RunID:    rep.RunID,
		Store:    o.store,
		Registry: registry.New(),
		Sources:  sources,
		Logger:   log,
		Bus:      o.bus,
		Metrics:  o.metrics,
	}
	for _, m := range o.pipeline {
		er, err := o.step(ctx, m, env)
		rep.Entities = append(rep.Entities, er)
		if err != nil {
			return rep, err
		}
	}

	t := rep.Totals()
	log.WithFields(logrus.Fields{
		"attempted": t.Attempted,
		"succeeded": t.Succeeded,
		"skipped":   t.Skipped,
		"failed":    t.Failed,
	}).Info("migration finished")
	return rep, nil
}

func (o *Orchestrator) step(ctx context.Context, m Migrator, env *Env) (rep EntityReport, err error) {
	e := m.Entity()
	ctx, span := o.tracer.Start(ctx, "migrate."+string(e), trace.WithAttributes(
		attribute.String("entity", string(e)),
	))
	start := time.Now()
	o.bus.Publish(&EntityStartedEvent{RunID: env.RunID, Entity: e})

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", ErrMigratorPanic, e, r)
			env.logger().WithField("stack", string(debug.Stack())).Error(err)
		}
		rep.Entity = e
		rep.Duration = time.Since(start)
		rep.DurationMS = rep.Duration.Milliseconds()
		o.metrics.ObserveEntity(string(e), rep.Duration)

		span.SetAttributes(
			attribute.Int("rows.attempted", rep.Attempted),
			attribute.Int("rows.succeeded", rep.Succeeded),
			attribute.Int("rows.skipped", rep.Skipped),
			attribute.Int("rows.failed", rep.Failed),
		)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()

		if err == nil {
			env.logger().WithFields(logrus.Fields{
				"entity":    e,
				"attempted": rep.Attempted,
				"succeeded": rep.Succeeded,
				"skipped":   rep.Skipped,
				"failed":    rep.Failed,
			}).Info("entity migrated")
			o.bus.Publish(&EntityCompletedEvent{RunID: env.RunID, Report: rep})
		}
	}()

	return m.Migrate(ctx, env)
}
