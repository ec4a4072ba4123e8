package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/iota-uz/legacy-migrate/modules/migration/domain/registry"
	"github.com/iota-uz/legacy-migrate/modules/migration/domain/store"
	"github.com/iota-uz/legacy-migrate/modules/migration/infrastructure/source"
)

const synthesizedPackageNotes = "Synthesized from account totals"

// TimePackagesMigrator imports explicit hour purchases, then synthesizes one
// package for every account that only carries aggregate purchased hours.
type TimePackagesMigrator struct{}

func (TimePackagesMigrator) Entity() store.Entity { return store.EntityTimePackages }

func (m TimePackagesMigrator) Migrate(ctx context.Context, env *Env) (EntityReport, error) {
	rep := EntityReport{Entity: m.Entity()}
	purchased := map[uuid.UUID]bool{}

	err := env.eachRow(ctx, m.Entity(), &rep, func(ctx context.Context, row source.Row) outcome {
		p := decodePurchase(row)
		if err := validate.Struct(p); err != nil {
			return skipped("", invalidReason(err))
		}
		clientID, ok := env.Registry.Get(registry.Accounts, p.Account)
		if !ok {
			return skipped(p.Account, "account not resolved")
		}
		purchased[clientID] = true

		_, err := env.Store.Insert(ctx, store.TableTimePackages, store.Record{
			"client_id":       clientID,
			"hours_purchased": decimalOrZero(p.Hours),
			"hours_used":      decimalOrZero(p.HoursUsed),
			"purchase_date":   nullableTime(p.PurchaseDate),
			"amount":          nullableDecimal(p.Amount),
			"notes":           nullable(p.Notes),
		})
		if err != nil {
			return failed(p.Account, err)
		}
		return succeeded(p.Account)
	})
	if err != nil {
		return rep, err
	}

	err = env.eachRow(ctx, store.EntityAccounts, &rep, func(ctx context.Context, row source.Row) outcome {
		a := decodeAccount(row)
		if a.Company == "" || a.rawPurchased == "" {
			return ignored()
		}
		clientID, ok := env.Registry.Get(registry.Accounts, a.Company)
		if !ok {
			return skipped(a.Company, "account not resolved")
		}
		if purchased[clientID] {
			return ignored()
		}
		if !a.PurchasedHours.Valid {
			return skipped(a.Company, "purchased hours not numeric")
		}

		existing, err := env.Store.Read(ctx, store.TableTimePackages, store.Record{"client_id": clientID}, 1)
		if err != nil {
			return failed(a.Company, err)
		}
		if len(existing) > 0 {
			return skipped(a.Company, "package already exists")
		}

		_, err = env.Store.Insert(ctx, store.TableTimePackages, store.Record{
			"client_id":       clientID,
			"hours_purchased": a.PurchasedHours.Decimal,
			"hours_used":      decimalOrZero(a.UsedHours),
			"notes":           synthesizedPackageNotes,
		})
		if err != nil {
			return failed(a.Company, err)
		}
		return succeeded(a.Company)
	})
	return rep, err
}
