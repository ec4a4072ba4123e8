package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iota-uz/legacy-migrate/modules/migration/infrastructure/source"
)

type inspectSummary struct {
	Path    string   `json:"path"`
	Format  string   `json:"format"`
	Headers []string `json:"headers"`
	Rows    int      `json:"rows"`
}

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file>",
		Short: "Print the detected format, headers and row count of an export file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := source.ReadFile(args[0])
			if err != nil {
				return withCode(exitValidation, fmt.Errorf("inspect: %w", err))
			}
			return writeJSONLine(cmd.OutOrStdout(), inspectSummary{
				Path:    t.Path,
				Format:  t.Format,
				Headers: t.Headers,
				Rows:    t.Len(),
			})
		},
	}
}
