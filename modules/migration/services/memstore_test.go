package services

import (
	"context"
	"errors"
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/legacy-migrate/modules/migration/domain/registry"
	"github.com/iota-uz/legacy-migrate/modules/migration/domain/store"
	"github.com/iota-uz/legacy-migrate/modules/migration/infrastructure/source"
	"github.com/iota-uz/legacy-migrate/pkg/eventbus"
	"github.com/iota-uz/legacy-migrate/pkg/metrics"
)

type insertCall struct {
	table  string
	record store.Record
}

// memStore is an in-memory store.Store. Tables listed in missing behave like
// absent relations until ExecSchema creates them.
type memStore struct {
	tables    map[string][]store.Record
	missing   map[string]bool
	unique    map[string]string
	readErr   map[string]error
	execErr   error
	insertErr func(table string, rec store.Record) error
	regclass  func(table string) any

	inserts []insertCall
	reads   []insertCall
	ddl     []string
}

func newMemStore() *memStore {
	return &memStore{
		tables:  map[string][]store.Record{},
		missing: map[string]bool{},
		unique: map[string]string{
			store.TableClients: "name",
			store.TableUsers:   "email",
		},
		readErr: map[string]error{},
	}
}

func (m *memStore) seed(table string, rec store.Record) uuid.UUID {
	id := uuid.New()
	cp := store.Record{"id": id}
	for k, v := range rec {
		cp[k] = v
	}
	m.tables[table] = append(m.tables[table], cp)
	return id
}

func (m *memStore) rows(table string) []store.Record {
	return m.tables[table]
}

func matches(rec, filter store.Record) bool {
	for k, want := range filter {
		if rec[k] != want {
			return false
		}
	}
	return true
}

func (m *memStore) Read(ctx context.Context, table string, filter store.Record, limit int) ([]store.Record, error) {
	m.reads = append(m.reads, insertCall{table: table, record: filter})
	if err := m.readErr[table]; err != nil {
		return nil, err
	}
	if m.missing[table] {
		return nil, store.ErrRelationNotExist
	}
	var out []store.Record
	for _, rec := range m.tables[table] {
		if !matches(rec, filter) {
			continue
		}
		out = append(out, rec)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *memStore) Insert(ctx context.Context, table string, record store.Record) (uuid.UUID, error) {
	m.inserts = append(m.inserts, insertCall{table: table, record: record})
	if m.missing[table] {
		return uuid.Nil, store.ErrRelationNotExist
	}
	if m.insertErr != nil {
		if err := m.insertErr(table, record); err != nil {
			return uuid.Nil, err
		}
	}
	if col, ok := m.unique[table]; ok {
		for _, rec := range m.tables[table] {
			if rec[col] == record[col] {
				return uuid.Nil, store.ErrDuplicate
			}
		}
	}
	return m.seed(table, record), nil
}

func (m *memStore) Update(ctx context.Context, table string, record store.Record, filter store.Record) (int64, error) {
	var n int64
	for _, rec := range m.tables[table] {
		if matches(rec, filter) {
			for k, v := range record {
				rec[k] = v
			}
			n++
		}
	}
	return n, nil
}

var createTableRe = regexp.MustCompile(`CREATE TABLE IF NOT EXISTS (\w+)`)

func (m *memStore) ExecSchema(ctx context.Context, ddl string) error {
	m.ddl = append(m.ddl, ddl)
	if m.execErr != nil {
		return m.execErr
	}
	if sm := createTableRe.FindStringSubmatch(ddl); sm != nil {
		delete(m.missing, sm[1])
	}
	return nil
}

func (m *memStore) CallProcedure(ctx context.Context, name string, args ...any) (any, error) {
	if name != "to_regclass" || len(args) != 1 {
		return nil, errors.New("unsupported procedure")
	}
	table := strings.TrimPrefix(args[0].(string), "public.")
	if m.regclass != nil {
		return m.regclass(table), nil
	}
	if m.missing[table] {
		return nil, nil
	}
	return table, nil
}

func (m *memStore) insertsInto(table string) []store.Record {
	var out []store.Record
	for _, c := range m.inserts {
		if c.table == table {
			out = append(out, c.record)
		}
	}
	return out
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestEnv(s store.Store, sources Sources) *Env {
	log := quietLogger()
	return &Env{
		RunID:    uuid.New(),
		Store:    s,
		Registry: registry.New(),
		Sources:  sources,
		Logger:   log,
		Bus:      eventbus.NewEventPublisher(log),
		Metrics:  metrics.NewRecorder(),
	}
}

func table(headers []string, rows ...map[string]string) *source.Table {
	return source.RowsFromMaps(headers, rows...)
}

func mustUUID(t *testing.T, v any) uuid.UUID {
	t.Helper()
	id, ok := store.Record{"v": v}.UUID("v")
	if !ok {
		t.Fatalf("expected uuid, got %#v", v)
	}
	return id
}
