package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/legacy-migrate/modules/migration/domain/store"
	"github.com/iota-uz/legacy-migrate/modules/migration/services"
)

// acceptingStore reports every table as present and accepts every insert.
type acceptingStore struct {
	inserts map[string]int
	missing map[string]bool
	ddl     int
}

func newAcceptingStore() *acceptingStore {
	return &acceptingStore{inserts: map[string]int{}, missing: map[string]bool{}}
}

func (s *acceptingStore) Read(_ context.Context, table string, _ store.Record, _ int) ([]store.Record, error) {
	if s.missing[table] {
		return nil, store.ErrRelationNotExist
	}
	return nil, nil
}

func (s *acceptingStore) Insert(_ context.Context, table string, _ store.Record) (uuid.UUID, error) {
	s.inserts[table]++
	return uuid.New(), nil
}

func (s *acceptingStore) Update(context.Context, string, store.Record, store.Record) (int64, error) {
	return 0, nil
}

func (s *acceptingStore) ExecSchema(context.Context, string) error {
	s.ddl++
	return nil
}

// CallProcedure answers to_regclass with nil, so created tables never verify.
func (s *acceptingStore) CallProcedure(context.Context, string, ...any) (any, error) {
	return nil, nil
}

func discardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func writeSources(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"accounts.csv":         "Company\nAcme Co\n",
		"contacts.csv":         "Email,Full Name,Account\njane@acme.co,Jane Doe,Acme Co\n",
		"projects.csv":         "Project Name\n",
		"tasks.csv":            "Project,1\n,Fix bug\n",
		"meetings.csv":         "Title,Date\n",
		"documents.csv":        "Link\n",
		"time_purchases.csv":   "Account,Hours\n",
		"scheduling_links.csv": "Name,URL\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestMigrate_PrintsSummary(t *testing.T) {
	dir := writeSources(t)
	s := newAcceptingStore()
	textfile := filepath.Join(t.TempDir(), "migrate.prom")

	var out bytes.Buffer
	err := migrate(context.Background(), s, migrateOptions{
		sourceDir:       dir,
		metricsTextfile: textfile,
		progress:        true,
		logger:          discardLogger(),
		out:             &out,
	})
	require.NoError(t, err)
	require.Equal(t, 1, s.inserts[store.TableClients])
	require.Equal(t, 1, s.inserts[store.TableUsers])
	require.Equal(t, 1, s.inserts[store.TableTasks])

	var lines []string
	sc := bufio.NewScanner(&out)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	require.Len(t, lines, len(store.Entities)+1)

	var progress services.EntityReport
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &progress))
	require.Equal(t, store.EntityAccounts, progress.Entity)

	var summary runSummary
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &summary))
	require.Equal(t, "completed", summary.Status)
	require.Equal(t, runTotals{Attempted: 3, Succeeded: 3}, summary.Totals)
	require.Len(t, summary.Entities, len(store.Entities))
	require.Len(t, summary.Provision.Existing, len(store.Entities))

	body, err := os.ReadFile(textfile)
	require.NoError(t, err)
	require.Contains(t, string(body), `legacy_migrate_rows_total{entity="users",outcome="succeeded"} 1`)
}

func TestMigrate_UnreadableSource(t *testing.T) {
	dir := writeSources(t)
	require.NoError(t, os.Remove(filepath.Join(dir, "tasks.csv")))
	s := newAcceptingStore()

	var out bytes.Buffer
	err := migrate(context.Background(), s, migrateOptions{
		sourceDir: dir,
		logger:    discardLogger(),
		out:       &out,
	})
	require.ErrorIs(t, err, services.ErrSourceUnreadable)
	require.Equal(t, exitValidation, exitCode(err))
	require.Empty(t, s.inserts)

	var summary runSummary
	require.NoError(t, json.Unmarshal(out.Bytes(), &summary))
	require.Equal(t, "aborted", summary.Status)
	require.Contains(t, summary.Error, "tasks")
}

func TestProvision_ReportsUnverifiedCreates(t *testing.T) {
	s := newAcceptingStore()
	s.missing[store.TableMeetings] = true

	var out bytes.Buffer
	err := provision(context.Background(), s, discardLogger(), &out)
	require.Error(t, err)
	require.Equal(t, exitDBWrite, exitCode(err))
	require.Equal(t, 1, s.ddl)

	var rep services.ProvisionReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &rep))
	require.Equal(t, []string{store.TableMeetings}, rep.Failed)
	require.Len(t, rep.Existing, len(store.Entities)-1)
}

func TestProvision_NothingToDo(t *testing.T) {
	s := newAcceptingStore()
	var out bytes.Buffer
	require.NoError(t, provision(context.Background(), s, discardLogger(), &out))
	require.Zero(t, s.ddl)
}
