package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/iota-uz/legacy-migrate/modules/migration/domain/store"
	"github.com/iota-uz/legacy-migrate/pkg/metrics"
)

// DDLFunc returns the CREATE statement of a destination table.
type DDLFunc func(table string) (string, bool)

type ProvisionReport struct {
	Existing   []string `json:"existing"`
	Created    []string `json:"created"`
	Unverified []string `json:"unverified,omitempty"`
	Failed     []string `json:"failed,omitempty"`
}

// Provisioner makes sure every destination table exists before migrating.
// It never aborts the run: a table it cannot create is reported and the
// inserts into it fail row by row later.
type Provisioner struct {
	store   store.Store
	ddl     DDLFunc
	logger  logrus.FieldLogger
	metrics *metrics.Recorder
}

func NewProvisioner(s store.Store, ddl DDLFunc, logger logrus.FieldLogger, rec *metrics.Recorder) *Provisioner {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Provisioner{store: s, ddl: ddl, logger: logger, metrics: rec}
}

// Provision probes each table in dependency order and creates the missing
// ones, so foreign keys only point at tables handled earlier.
func (p *Provisioner) Provision(ctx context.Context) ProvisionReport {
	var rep ProvisionReport
	for _, e := range store.Entities {
		table := e.Table()
		log := p.logger.WithField("table", table)

		_, err := p.store.Read(ctx, table, nil, 1)
		switch {
		case err == nil:
			rep.Existing = append(rep.Existing, table)
			continue
		case !errors.Is(err, store.ErrRelationNotExist):
			log.WithError(err).Warn("table probe failed, not creating")
			rep.Unverified = append(rep.Unverified, table)
			continue
		}

		if err := p.create(ctx, table); err != nil {
			log.WithError(err).Error("table creation failed")
			rep.Failed = append(rep.Failed, table)
			continue
		}
		log.Info("table created")
		p.metrics.RecordTableCreated(table)
		rep.Created = append(rep.Created, table)
	}
	return rep
}

var (
	ErrNoDDL         = errors.New("no schema definition")
	ErrTableNotFound = errors.New("table not visible after create")
)

func (p *Provisioner) create(ctx context.Context, table string) error {
	ddl, ok := p.ddl(table)
	if !ok {
		return ErrNoDDL
	}
	if err := p.store.ExecSchema(ctx, ddl); err != nil {
		return err
	}
	oid, err := p.store.CallProcedure(ctx, "to_regclass", "public."+table)
	if err != nil {
		return err
	}
	if oid == nil {
		return ErrTableNotFound
	}
	return nil
}
