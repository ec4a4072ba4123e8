// Package store defines the contract the migration pipeline expects from the
// destination database, plus the entity and table names it writes.
package store

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
)

var (
	// ErrRelationNotExist is returned by Read when the table is missing.
	ErrRelationNotExist = errors.New("relation does not exist")
	ErrDuplicate        = errors.New("duplicate key")
	ErrForeignKey       = errors.New("foreign key violation")
	ErrNotNull          = errors.New("not null violation")
	ErrEmptyRecord      = errors.New("record has no columns")
)

// Record is a column -> value mapping. A nil value is written as NULL and,
// in a filter, matches NULL.
type Record map[string]any

// Columns returns the record's keys sorted, so generated SQL is stable.
func (r Record) Columns() []string {
	cols := make([]string, 0, len(r))
	for c := range r {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

// UUID extracts a uuid column; the bool is false for NULL or unparsable values.
func (r Record) UUID(col string) (uuid.UUID, bool) {
	switch v := r[col].(type) {
	case uuid.UUID:
		return v, v != uuid.Nil
	case *uuid.UUID:
		if v != nil {
			return *v, true
		}
	case [16]byte:
		return uuid.UUID(v), true
	case string:
		id, err := uuid.Parse(v)
		return id, err == nil
	}
	return uuid.Nil, false
}

type Store interface {
	Read(ctx context.Context, table string, filter Record, limit int) ([]Record, error)
	Insert(ctx context.Context, table string, record Record) (uuid.UUID, error)
	Update(ctx context.Context, table string, record Record, filter Record) (int64, error)
	ExecSchema(ctx context.Context, ddl string) error
	CallProcedure(ctx context.Context, name string, args ...any) (any, error)
}
