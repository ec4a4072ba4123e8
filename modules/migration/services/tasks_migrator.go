package services

import (
	"context"

	"github.com/iota-uz/legacy-migrate/modules/migration/domain/registry"
	"github.com/iota-uz/legacy-migrate/modules/migration/domain/store"
	"github.com/iota-uz/legacy-migrate/modules/migration/domain/vocabulary"
	"github.com/iota-uz/legacy-migrate/modules/migration/infrastructure/source"
)

type TasksMigrator struct{}

func (TasksMigrator) Entity() store.Entity { return store.EntityTasks }

func (m TasksMigrator) Migrate(ctx context.Context, env *Env) (EntityReport, error) {
	rep := EntityReport{Entity: m.Entity()}
	err := env.eachRow(ctx, m.Entity(), &rep, func(ctx context.Context, row source.Row) outcome {
		t := decodeTask(row)
		if err := validate.Struct(t); err != nil {
			return skipped(t.Project, invalidReason(err))
		}

		_, err := env.Store.Insert(ctx, store.TableTasks, store.Record{
			"title":       t.Title,
			"description": nullable(t.Description),
			"status":      vocabulary.NormalizeStatus(t.Status),
			"priority":    vocabulary.NormalizePriority(t.Priority),
			"project_id":  env.ref(registry.Projects, t.Project),
			"client_id":   env.ref(registry.Accounts, t.Account),
			"assignee_id": env.ref(registry.Users, t.Assignee),
			"due_date":    nullableTime(t.DueDate),
		})
		if err != nil {
			return failed(t.Title, err)
		}
		return succeeded(t.Title)
	})
	return rep, err
}
