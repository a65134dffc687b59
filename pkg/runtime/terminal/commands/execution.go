package commands

import (
	"errors"
	"fmt"

	"github.com/de-tools/report-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/report-atlas/pkg/services/execution"
	"github.com/de-tools/report-atlas/pkg/store/client"
	history "github.com/de-tools/report-atlas/pkg/store/duckdb/execution"
	"github.com/spf13/cobra"
)

func NewExecutionCmd(c *client.Client, runner *execution.Runner, store history.Store, reporter *export.Reporter) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "execution",
		Short: "Inspect report executions",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status <execution-id>",
		Short: "Show the current state of an execution",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			e, err := c.GetExecution(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("failed to load execution %d: %w", id, err)
			}
			d := execution.Describe(e)
			out := reporter.Writer()
			fmt.Fprintf(out, "Execution %d of report #%d: %s\n", d.ID, d.ReportID, d.Status)
			if d.FilePath != "" {
				fmt.Fprintf(out, "File: %s\n", d.FilePath)
			}
			if d.RowCount != nil {
				fmt.Fprintf(out, "Rows: %d\n", *d.RowCount)
			}
			if d.ErrorMessage != "" {
				fmt.Fprintf(out, "Error: %s\n", d.ErrorMessage)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "retry <execution-id>",
		Short: "Rerun a failed execution and wait for it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			result, err := runner.Retry(cmd.Context(), id)
			if result != nil {
				if rerr := reporter.Execution(result); rerr != nil {
					return rerr
				}
			}
			if errors.Is(err, execution.ErrStillRunning) {
				return nil
			}
			return err
		},
	})

	var (
		reportID int64
		statuses []string
		limit    uint64
	)
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List executions started or polled from this machine",
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter := history.Filter{Statuses: statuses, Limit: limit}
			if reportID > 0 {
				filter.ReportID = &reportID
			}
			records, err := store.List(cmd.Context(), filter)
			if err != nil {
				return fmt.Errorf("failed to read execution history: %w", err)
			}
			return reporter.History(records)
		},
	}
	historyCmd.Flags().Int64Var(&reportID, "report", 0, "Only executions of this report")
	historyCmd.Flags().StringSliceVar(&statuses, "status", nil, "Only these statuses")
	historyCmd.Flags().Uint64Var(&limit, "limit", 50, "Maximum number of entries")
	cmd.AddCommand(historyCmd)

	return cmd
}
