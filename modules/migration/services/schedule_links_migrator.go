package services

import (
	"context"

	"github.com/iota-uz/legacy-migrate/modules/migration/domain/store"
	"github.com/iota-uz/legacy-migrate/modules/migration/infrastructure/source"
)

type ScheduleLinksMigrator struct{}

func (ScheduleLinksMigrator) Entity() store.Entity { return store.EntityScheduleLinks }

func (m ScheduleLinksMigrator) Migrate(ctx context.Context, env *Env) (EntityReport, error) {
	rep := EntityReport{Entity: m.Entity()}
	err := env.eachRow(ctx, m.Entity(), &rep, func(ctx context.Context, row source.Row) outcome {
		l := decodeScheduleLink(row)
		if err := validate.Struct(l); err != nil {
			return skipped("", "no name or url")
		}
		key := l.Name
		if key == "" {
			key = l.URL
		}

		_, err := env.Store.Insert(ctx, store.TableScheduleLinks, store.Record{
			"name":          nullable(l.Name),
			"url":           nullable(l.URL),
			"formatted_url": nullable(l.FormattedURL),
		})
		if err != nil {
			return failed(key, err)
		}
		return succeeded(key)
	})
	return rep, err
}
