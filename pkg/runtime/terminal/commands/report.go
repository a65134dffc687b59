package commands

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"path"

	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/de-tools/report-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/report-atlas/pkg/services/execution"
	"github.com/de-tools/report-atlas/pkg/store/artifacts"
	"github.com/de-tools/report-atlas/pkg/store/client"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type ReportCmd struct {
	client   *client.Client
	runner   *execution.Runner
	reporter *export.Reporter
	wait     bool
	out      string
}

func NewReportCmd(c *client.Client, runner *execution.Runner, reporter *export.Reporter) *cobra.Command {
	rc := &ReportCmd{client: c, runner: runner, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Work with saved reports",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List saved reports",
		RunE: func(cmd *cobra.Command, _ []string) error {
			reports, err := rc.client.ListReports(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list reports: %w", err)
			}
			out := rc.reporter.Writer()
			for _, r := range reports {
				fmt.Fprintf(out, "#%-6d %-32s %-10s %s\n", r.ID, r.Name, r.ReportFormat, r.ScheduleSummary)
			}
			return nil
		},
	})

	execute := &cobra.Command{
		Use:   "execute <report-id>",
		Short: "Run a saved report",
		Args:  cobra.ExactArgs(1),
		RunE:  rc.execute,
	}
	execute.Flags().BoolVar(&rc.wait, "wait", false, "Poll until the execution completes")
	execute.Flags().StringVar(&rc.out, "out", "", "Store the generated file in a directory, file:// or s3:// target (implies --wait)")
	cmd.AddCommand(execute)

	return cmd
}

func (rc *ReportCmd) execute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	reportID, err := parseID(args[0])
	if err != nil {
		return err
	}

	if !rc.wait && rc.out == "" {
		executionID, err := rc.runner.Start(ctx, reportID)
		if err != nil {
			return err
		}
		fmt.Fprintf(rc.reporter.Writer(), "Started execution %d\n", executionID)
		return nil
	}

	result, err := rc.runner.Execute(ctx, reportID)
	if result != nil {
		if rerr := rc.reporter.Execution(result); rerr != nil {
			return rerr
		}
	}
	switch {
	case errors.Is(err, execution.ErrStillRunning):
		fmt.Fprintf(rc.reporter.Writer(), "Still running, check again with `execution status %d`\n", result.ExecutionID)
		return nil
	case err != nil:
		return err
	}

	if rc.out != "" && result.Status == domain.ExecutionStatusCompleted {
		return rc.store(cmd, result)
	}
	return nil
}

func (rc *ReportCmd) store(cmd *cobra.Command, result *domain.ExecutionResult) error {
	ctx := cmd.Context()

	sink, err := artifacts.Open(ctx, rc.out)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	n, err := rc.client.Download(ctx, result.FileURL, &buf)
	if err != nil {
		return err
	}
	zerolog.Ctx(ctx).Debug().Int64("bytes", n).Str("file", result.FileURL).Msg("report downloaded")

	location, err := sink.Put(ctx, artifactName(result), &buf)
	if err != nil {
		return err
	}
	fmt.Fprintf(rc.reporter.Writer(), "Saved %s\n", location)
	return nil
}

func artifactName(result *domain.ExecutionResult) string {
	if u, err := url.Parse(result.FileURL); err == nil {
		if name := path.Base(u.Path); name != "." && name != "/" {
			return name
		}
	}
	return fmt.Sprintf("execution-%d", result.ExecutionID)
}
