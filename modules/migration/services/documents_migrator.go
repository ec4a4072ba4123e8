package services

import (
	"context"

	"github.com/iota-uz/legacy-migrate/modules/migration/domain/store"
	"github.com/iota-uz/legacy-migrate/modules/migration/infrastructure/source"
)

// The legacy export only carries a link per document; every other column is a
// fixed placeholder.
const (
	documentName        = "Imported document"
	documentDescription = "Imported from legacy export"
	documentFileType    = "link"
)

type DocumentsMigrator struct{}

func (DocumentsMigrator) Entity() store.Entity { return store.EntityDocuments }

func (m DocumentsMigrator) Migrate(ctx context.Context, env *Env) (EntityReport, error) {
	rep := EntityReport{Entity: m.Entity()}
	err := env.eachRow(ctx, m.Entity(), &rep, func(ctx context.Context, row source.Row) outcome {
		d := decodeDocument(row)
		if err := validate.Struct(d); err != nil {
			return skipped("", invalidReason(err))
		}

		_, err := env.Store.Insert(ctx, store.TableDocuments, store.Record{
			"name":        documentName,
			"description": documentDescription,
			"file_url":    d.Link,
			"file_type":   documentFileType,
			"file_size":   int64(0),
			"client_id":   nil,
		})
		if err != nil {
			return failed(d.Link, err)
		}
		return succeeded(d.Link)
	})
	return rep, err
}
