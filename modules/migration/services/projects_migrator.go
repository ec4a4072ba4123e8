package services

import (
	"context"

	"github.com/iota-uz/legacy-migrate/modules/migration/domain/registry"
	"github.com/iota-uz/legacy-migrate/modules/migration/domain/store"
	"github.com/iota-uz/legacy-migrate/modules/migration/domain/vocabulary"
	"github.com/iota-uz/legacy-migrate/modules/migration/infrastructure/source"
)

type ProjectsMigrator struct{}

func (ProjectsMigrator) Entity() store.Entity { return store.EntityProjects }

func (m ProjectsMigrator) Migrate(ctx context.Context, env *Env) (EntityReport, error) {
	rep := EntityReport{Entity: m.Entity()}
	err := env.eachRow(ctx, m.Entity(), &rep, func(ctx context.Context, row source.Row) outcome {
		p := decodeProject(row)
		if err := validate.Struct(p); err != nil {
			return skipped(p.RecordID, invalidReason(err))
		}

		id, err := env.Store.Insert(ctx, store.TableProjects, store.Record{
			"name":        p.Name,
			"description": nullable(p.Description),
			"status":      vocabulary.NormalizeStatus(p.Status),
			"client_id":   env.ref(registry.Accounts, p.Account),
			"start_date":  nullableTime(p.StartDate),
			"due_date":    nullableTime(p.DueDate),
			"legacy_id":   nullable(p.RecordID),
		})
		if err != nil {
			return failed(p.Name, err)
		}
		env.Registry.Register(registry.Projects, id, p.Name, p.RecordID)
		return succeeded(p.Name)
	})
	return rep, err
}
