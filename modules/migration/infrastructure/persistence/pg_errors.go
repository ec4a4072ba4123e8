package persistence

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/iota-uz/legacy-migrate/modules/migration/domain/store"
)

// mapPgError tags Postgres failures with the store sentinel matching their
// SQLSTATE. The original error stays in the chain.
func mapPgError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case "42P01": // undefined_table
		return fmt.Errorf("%w: %w", store.ErrRelationNotExist, err)
	case "23505": // unique_violation
		return fmt.Errorf("%w (%s): %w", store.ErrDuplicate, pgErr.ConstraintName, err)
	case "23503": // foreign_key_violation
		return fmt.Errorf("%w (%s): %w", store.ErrForeignKey, pgErr.ConstraintName, err)
	case "23502": // not_null_violation
		return fmt.Errorf("%w (%s): %w", store.ErrNotNull, pgErr.ColumnName, err)
	default:
		return err
	}
}
