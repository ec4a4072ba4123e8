package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/legacy-migrate/modules/migration/domain/registry"
	"github.com/iota-uz/legacy-migrate/modules/migration/domain/store"
	"github.com/iota-uz/legacy-migrate/modules/migration/infrastructure/source"
	"github.com/iota-uz/legacy-migrate/pkg/eventbus"
	"github.com/iota-uz/legacy-migrate/pkg/metrics"
)

// Migrator moves one entity's source rows into the destination store.
// Row-level problems are counted in the report; a returned error aborts the
// whole run and is reserved for cancellation and similar fatal conditions.
type Migrator interface {
	Entity() store.Entity
	Migrate(ctx context.Context, env *Env) (EntityReport, error)
}

// Sources holds the loaded export file of every entity.
type Sources map[store.Entity]*source.Table

func (s Sources) Rows(e store.Entity) []source.Row {
	if t := s[e]; t != nil {
		return t.Rows
	}
	return nil
}

// Env is everything a migrator may touch during a run.
type Env struct {
	RunID    uuid.UUID
	Store    store.Store
	Registry *registry.Registry
	Sources  Sources
	Logger   logrus.FieldLogger
	Bus      eventbus.EventBus
	Metrics  *metrics.Recorder
}

type EntityReport struct {
	Entity     store.Entity  `json:"entity"`
	Attempted  int           `json:"attempted"`
	Succeeded  int           `json:"succeeded"`
	Skipped    int           `json:"skipped"`
	Failed     int           `json:"failed"`
	Duration   time.Duration `json:"-"`
	DurationMS int64         `json:"duration_ms"`
}

// outcome is the explicit result of processing one source row.
type outcome struct {
	status string
	key    string
	reason string
	err    error
}

func succeeded(key string) outcome {
	return outcome{status: metrics.OutcomeSucceeded, key: key}
}

func skipped(key, reason string) outcome {
	return outcome{status: metrics.OutcomeSkipped, key: key, reason: reason}
}

func failed(key string, err error) outcome {
	return outcome{status: metrics.OutcomeFailed, key: key, err: err}
}

// ignored marks a row the pass does not apply to; it is not counted.
func ignored() outcome {
	return outcome{}
}

type rowFunc func(ctx context.Context, row source.Row) outcome

// eachRow drives fn over the entity's rows and tallies the outcomes. It only
// stops early when ctx is done.
func (env *Env) eachRow(ctx context.Context, entity store.Entity, rep *EntityReport, fn rowFunc) error {
	for _, row := range env.Sources.Rows(entity) {
		if err := ctx.Err(); err != nil {
			return err
		}
		out := fn(ctx, row)
		if out.err != nil && ctx.Err() != nil {
			return ctx.Err()
		}
		if out.status == "" {
			continue
		}
		env.record(rep, row.Line, out)
	}
	return nil
}

func (env *Env) record(rep *EntityReport, line int, out outcome) {
	rep.Attempted++
	log := env.logger().WithFields(logrus.Fields{
		"entity": rep.Entity,
		"key":    out.key,
		"line":   line,
	})

	switch out.status {
	case metrics.OutcomeSucceeded:
		rep.Succeeded++
	case metrics.OutcomeSkipped:
		rep.Skipped++
		log.WithField("reason", out.reason).Warn("row skipped")
	default:
		rep.Failed++
		log.WithError(out.err).Warn("row failed")
		if env.Bus != nil {
			env.Bus.Publish(&RowFailedEvent{
				RunID:  env.RunID,
				Entity: rep.Entity,
				Line:   line,
				Key:    out.key,
				Err:    out.err,
			})
		}
	}
	env.Metrics.RecordRow(string(rep.Entity), out.status)
}

func (env *Env) logger() logrus.FieldLogger {
	if env.Logger == nil {
		return logrus.StandardLogger()
	}
	return env.Logger
}

// ref resolves the first alias the registry knows. Unknown aliases yield a
// NULL reference, never an error.
func (env *Env) ref(kind registry.Kind, aliases ...string) any {
	for _, a := range aliases {
		if id, ok := env.Registry.Get(kind, a); ok {
			return id
		}
	}
	return nil
}

// relink looks up an anchor that an earlier run already created, so its id
// can still be registered for the entities that follow.
func (env *Env) relink(ctx context.Context, table string, filter store.Record) (uuid.UUID, bool) {
	recs, err := env.Store.Read(ctx, table, filter, 1)
	if err != nil || len(recs) == 0 {
		return uuid.Nil, false
	}
	return recs[0].UUID("id")
}

func isDuplicate(err error) bool {
	return errors.Is(err, store.ErrDuplicate)
}
