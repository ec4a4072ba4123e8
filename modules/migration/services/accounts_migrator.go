package services

import (
	"context"

	"github.com/iota-uz/legacy-migrate/modules/migration/domain/registry"
	"github.com/iota-uz/legacy-migrate/modules/migration/domain/store"
	"github.com/iota-uz/legacy-migrate/modules/migration/infrastructure/source"
)

// AccountsMigrator creates clients and registers them under company name and
// legacy record id.
type AccountsMigrator struct{}

func (AccountsMigrator) Entity() store.Entity { return store.EntityAccounts }

func (m AccountsMigrator) Migrate(ctx context.Context, env *Env) (EntityReport, error) {
	rep := EntityReport{Entity: m.Entity()}
	err := env.eachRow(ctx, m.Entity(), &rep, func(ctx context.Context, row source.Row) outcome {
		a := decodeAccount(row)
		if err := validate.Struct(a); err != nil {
			return skipped(a.RecordID, invalidReason(err))
		}

		id, err := env.Store.Insert(ctx, store.TableClients, store.Record{
			"name":            a.Company,
			"email":           nullable(a.Email),
			"phone":           nullable(a.Phone),
			"website":         nullable(a.Website),
			"address":         nullable(a.Address),
			"notes":           nullable(a.Notes),
			"hours_purchased": nullableDecimal(a.PurchasedHours),
			"hours_used":      nullableDecimal(a.UsedHours),
			"legacy_id":       nullable(a.RecordID),
		})
		if err != nil {
			if isDuplicate(err) {
				if existing, ok := env.relink(ctx, store.TableClients, store.Record{"name": a.Company}); ok {
					env.Registry.Register(registry.Accounts, existing, a.Company, a.RecordID)
					return skipped(a.Company, "already migrated")
				}
			}
			return failed(a.Company, err)
		}
		env.Registry.Register(registry.Accounts, id, a.Company, a.RecordID)
		return succeeded(a.Company)
	})
	return rep, err
}
