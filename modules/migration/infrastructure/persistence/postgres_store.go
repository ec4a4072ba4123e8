// Package persistence implements the migration destination store on Postgres.
package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iota-uz/legacy-migrate/modules/migration/domain/store"
)

var ErrUnfilteredUpdate = gerrors.New("update without filter")

// Querier is the subset of pgx shared by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresStore struct {
	db Querier
}

var _ store.Store = (*PostgresStore)(nil)

func NewPostgresStore(db Querier) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Read(ctx context.Context, table string, filter store.Record, limit int) ([]store.Record, error) {
	name, err := quoteIdent(table)
	if err != nil {
		return nil, err
	}
	where, args, err := whereClause(filter, 1)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString("SELECT * FROM ")
	b.WriteString(name)
	b.WriteString(where)
	if limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", limit)
	}

	rows, err := s.db.Query(ctx, b.String(), args...)
	if err != nil {
		return nil, gerrors.Wrapf(mapPgError(err), "read %s", table)
	}
	defer rows.Close()

	var out []store.Record
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, gerrors.Wrapf(err, "read %s values", table)
		}
		fields := rows.FieldDescriptions()
		rec := make(store.Record, len(values))
		for i, v := range values {
			col := fmt.Sprintf("column%d", i+1)
			if i < len(fields) {
				col = fields[i].Name
			}
			rec[col] = normalizeValue(v)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, gerrors.Wrapf(mapPgError(err), "read %s", table)
	}
	return out, nil
}

func (s *PostgresStore) Insert(ctx context.Context, table string, record store.Record) (uuid.UUID, error) {
	if len(record) == 0 {
		return uuid.Nil, gerrors.Wrapf(store.ErrEmptyRecord, "insert into %s", table)
	}
	name, err := quoteIdent(table)
	if err != nil {
		return uuid.Nil, err
	}
	cols := record.Columns()
	quoted, err := quoteColumns(cols)
	if err != nil {
		return uuid.Nil, err
	}

	args := make([]any, len(cols))
	placeholders := make([]string, len(cols))
	for i, c := range cols {
		args[i] = record[c]
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	sql := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) RETURNING id",
		name, strings.Join(quoted, ", "), strings.Join(placeholders, ", "),
	)

	var id uuid.UUID
	if err := s.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return uuid.Nil, gerrors.Wrapf(mapPgError(err), "insert into %s", table)
	}
	return id, nil
}

func (s *PostgresStore) Update(ctx context.Context, table string, record store.Record, filter store.Record) (int64, error) {
	if len(record) == 0 {
		return 0, gerrors.Wrapf(store.ErrEmptyRecord, "update %s", table)
	}
	if len(filter) == 0 {
		return 0, gerrors.Wrapf(ErrUnfilteredUpdate, "update %s", table)
	}
	name, err := quoteIdent(table)
	if err != nil {
		return 0, err
	}
	cols := record.Columns()
	quoted, err := quoteColumns(cols)
	if err != nil {
		return 0, err
	}

	args := make([]any, 0, len(cols)+len(filter))
	sets := make([]string, len(cols))
	for i, c := range cols {
		args = append(args, record[c])
		sets[i] = fmt.Sprintf("%s = $%d", quoted[i], i+1)
	}
	where, whereArgs, err := whereClause(filter, len(args)+1)
	if err != nil {
		return 0, err
	}
	args = append(args, whereArgs...)

	sql := fmt.Sprintf("UPDATE %s SET %s%s", name, strings.Join(sets, ", "), where)
	tag, err := s.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, gerrors.Wrapf(mapPgError(err), "update %s", table)
	}
	return tag.RowsAffected(), nil
}

func (s *PostgresStore) ExecSchema(ctx context.Context, ddl string) error {
	if strings.TrimSpace(ddl) == "" {
		return nil
	}
	if _, err := s.db.Exec(ctx, ddl); err != nil {
		return gerrors.Wrap(mapPgError(err), "exec schema")
	}
	return nil
}

// CallProcedure runs SELECT name($1, ...) and returns the single result value.
func (s *PostgresStore) CallProcedure(ctx context.Context, name string, args ...any) (any, error) {
	fn, err := quoteIdent(name)
	if err != nil {
		return nil, err
	}
	placeholders := make([]string, len(args))
	for i := range args {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	sql := fmt.Sprintf("SELECT %s(%s)", fn, strings.Join(placeholders, ", "))

	var out any
	if err := s.db.QueryRow(ctx, sql, args...).Scan(&out); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, gerrors.Wrapf(mapPgError(err), "call %s", name)
	}
	return normalizeValue(out), nil
}

// whereClause builds ANDed equality predicates over the sorted filter
// columns, numbering placeholders from start.
func whereClause(filter store.Record, start int) (string, []any, error) {
	if len(filter) == 0 {
		return "", nil, nil
	}
	cols := filter.Columns()
	quoted, err := quoteColumns(cols)
	if err != nil {
		return "", nil, err
	}

	preds := make([]string, 0, len(cols))
	var args []any
	n := start
	for i, c := range cols {
		v := filter[c]
		if isNull(v) {
			preds = append(preds, quoted[i]+" IS NULL")
			continue
		}
		preds = append(preds, fmt.Sprintf("%s = $%d", quoted[i], n))
		args = append(args, v)
		n++
	}
	return " WHERE " + strings.Join(preds, " AND "), args, nil
}

func isNull(v any) bool {
	switch p := v.(type) {
	case nil:
		return true
	case *uuid.UUID:
		return p == nil
	case *string:
		return p == nil
	case *time.Time:
		return p == nil
	}
	return false
}

// normalizeValue turns pgx's decoded uuid representation into uuid.UUID so
// callers can compare ids directly.
func normalizeValue(v any) any {
	switch x := v.(type) {
	case [16]byte:
		return uuid.UUID(x)
	case pgtype.UUID:
		if !x.Valid {
			return nil
		}
		return uuid.UUID(x.Bytes)
	}
	return v
}
