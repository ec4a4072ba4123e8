package services

import (
	"context"

	"github.com/iota-uz/legacy-migrate/modules/migration/domain/registry"
	"github.com/iota-uz/legacy-migrate/modules/migration/domain/store"
	"github.com/iota-uz/legacy-migrate/modules/migration/infrastructure/source"
)

// UsersMigrator creates portal users from the contacts export.
type UsersMigrator struct{}

func (UsersMigrator) Entity() store.Entity { return store.EntityUsers }

func (m UsersMigrator) Migrate(ctx context.Context, env *Env) (EntityReport, error) {
	rep := EntityReport{Entity: m.Entity()}
	err := env.eachRow(ctx, m.Entity(), &rep, func(ctx context.Context, row source.Row) outcome {
		u := decodeUser(row)
		if err := validate.Struct(u); err != nil {
			return skipped(u.RecordID, invalidReason(err))
		}

		id, err := env.Store.Insert(ctx, store.TableUsers, store.Record{
			"email":      u.Email,
			"first_name": nullable(u.FirstName),
			"last_name":  nullable(u.LastName),
			"phone":      nullable(u.Phone),
			"role":       nullable(u.Role),
			"company":    env.ref(registry.Accounts, u.Account),
			"legacy_id":  nullable(u.RecordID),
		})
		if err != nil {
			if isDuplicate(err) {
				if existing, ok := env.relink(ctx, store.TableUsers, store.Record{"email": u.Email}); ok {
					env.Registry.Register(registry.Users, existing, u.Email, u.RecordID)
					return skipped(u.Email, "already migrated")
				}
			}
			return failed(u.Email, err)
		}
		env.Registry.Register(registry.Users, id, u.Email, u.RecordID)
		return succeeded(u.Email)
	})
	return rep, err
}
