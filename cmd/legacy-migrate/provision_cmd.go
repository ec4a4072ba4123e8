package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/iota-uz/legacy-migrate/modules/migration/domain/store"
	"github.com/iota-uz/legacy-migrate/modules/migration/infrastructure/persistence"
	"github.com/iota-uz/legacy-migrate/modules/migration/services"
)

func newProvisionCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "provision",
		Short: "Create missing destination tables without migrating any rows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			conf, err := g.config()
			if err != nil {
				return err
			}
			defer conf.Unload()

			pool, err := connectDB(ctx, conf)
			if err != nil {
				return withCode(exitDB, err)
			}
			defer pool.Close()

			return provision(ctx, persistence.NewPostgresStore(pool), conf.Logger(), cmd.OutOrStdout())
		},
	}
}

func provision(ctx context.Context, s store.Store, logger logrus.FieldLogger, out io.Writer) error {
	rep := services.NewProvisioner(s, persistence.TableDDL, logger, nil).Provision(ctx)
	if err := writeJSONLine(out, rep); err != nil {
		return err
	}
	if len(rep.Failed) > 0 {
		return withCode(exitDBWrite, fmt.Errorf("tables not provisioned: %s", strings.Join(rep.Failed, ", ")))
	}
	return nil
}
