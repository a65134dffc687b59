package commands

import (
	"fmt"
	"strings"

	"github.com/de-tools/report-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/report-atlas/pkg/services/schema"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type SchemaCmd struct {
	profilePath string
	dialect     string
	registry    schema.Registry
	reporter    *export.Reporter
}

func NewSchemaCmd(registry schema.Registry, reporter *export.Reporter) *cobra.Command {
	sc := &SchemaCmd{registry: registry, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Inspect databases directly",
	}

	inspect := &cobra.Command{
		Use:   "inspect",
		Short: "List tables, columns and keys of a database and suggest joins",
		RunE:  sc.inspect,
	}
	inspect.Flags().StringVar(&sc.profilePath, "profile", "", "Path to the connection profile")
	inspect.Flags().StringVar(&sc.dialect, "dialect", "",
		fmt.Sprintf("Database dialect (%s)", strings.Join(registry.ListDialects(), ", ")))
	_ = inspect.MarkFlagRequired("profile")
	_ = inspect.MarkFlagRequired("dialect")
	cmd.AddCommand(inspect)

	return cmd
}

func (sc *SchemaCmd) inspect(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	inspector, err := sc.registry.Create(sc.dialect, sc.profilePath)
	if err != nil {
		return fmt.Errorf("failed to open %s inspector: %w", sc.dialect, err)
	}
	defer func() {
		if err := inspector.Close(); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to close inspector")
		}
	}()

	s, err := inspector.Inspect(ctx)
	if err != nil {
		return fmt.Errorf("failed to inspect schema: %w", err)
	}
	return sc.reporter.Schema(s)
}
