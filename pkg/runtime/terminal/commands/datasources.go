package commands

import (
	"fmt"
	"strconv"

	"github.com/de-tools/report-atlas/pkg/adapters"
	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/de-tools/report-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/report-atlas/pkg/store/client"
	"github.com/spf13/cobra"
)

func NewDataSourcesCmd(c *client.Client, reporter *export.Reporter) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "datasources",
		Aliases: []string{"ds"},
		Short:   "Inspect data sources registered with the report service",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List data sources",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sources, err := c.ListDataSources(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list data sources: %w", err)
			}
			out := make([]domain.DataSource, 0, len(sources))
			for _, s := range sources {
				out = append(out, adapters.MapAPIDataSourceToDomain(s))
			}
			return reporter.DataSources(out)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "schema <id>",
		Short: "Show tables, keys and suggested joins of a data source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := c.GetSchema(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("failed to load schema of data source %d: %w", id, err)
			}
			schema := adapters.MapAPISchemaToDomain(*s)
			return reporter.Schema(&schema)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "test <id>",
		Short: "Test the connection of a data source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			result, err := c.TestConnection(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("failed to test data source %d: %w", id, err)
			}
			fmt.Fprintf(reporter.Writer(), "%s: %s\n", result.Status, result.Message)
			if !result.Success {
				return fmt.Errorf("connection test failed")
			}
			return nil
		},
	})

	return cmd
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}
