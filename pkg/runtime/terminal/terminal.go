package terminal

import (
	"io"
	"os"
	"time"

	"github.com/de-tools/report-atlas/pkg/expression"
	"github.com/de-tools/report-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/report-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/report-atlas/pkg/services/builder"
	"github.com/de-tools/report-atlas/pkg/services/execution"
	"github.com/de-tools/report-atlas/pkg/services/schema"
	"github.com/de-tools/report-atlas/pkg/store/client"
	history "github.com/de-tools/report-atlas/pkg/store/duckdb/execution"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	opts     Options
	reporter *export.Reporter
	rootCmd  *cobra.Command
}

// Options contain the collaborators the commands run against
type Options struct {
	Client  *client.Client
	Engine  *expression.Engine
	Builder builder.Builder
	Runner  *execution.Runner
	History history.Store
	Schemas schema.Registry
	Now     func() time.Time
	Output  io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Engine == nil {
		opts.Engine = expression.NewEngine()
	}
	if opts.Schemas == nil {
		opts.Schemas = schema.DefaultRegistry()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	cli := &CLI{
		opts:     opts,
		reporter: export.NewReporter(opts.Output),
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Root() *cobra.Command {
	return cli.rootCmd
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "report-atlas",
		Short:         "Build, publish and run reports",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(cli.opts.Output)

	o := cli.opts
	cmd.AddCommand(commands.NewExprCmd(o.Engine, cli.reporter))
	cmd.AddCommand(commands.NewSchemaCmd(o.Schemas, cli.reporter))
	cmd.AddCommand(commands.NewScheduleCmd(o.Now))

	if o.Client != nil {
		cmd.AddCommand(commands.NewLoginCmd(o.Client))
		cmd.AddCommand(commands.NewLogoutCmd(o.Client))
		cmd.AddCommand(commands.NewWhoamiCmd(o.Client, cli.reporter))
		cmd.AddCommand(commands.NewDataSourcesCmd(o.Client, cli.reporter))
		cmd.AddCommand(commands.NewUsersCmd(o.Client, cli.reporter))
	}
	if o.Builder != nil {
		var schemas commands.SchemaSource
		if o.Client != nil {
			schemas = o.Client
		}
		cmd.AddCommand(commands.NewDraftCmd(o.Builder, schemas, cli.reporter))
	}
	if o.Client != nil && o.Runner != nil {
		cmd.AddCommand(commands.NewReportCmd(o.Client, o.Runner, cli.reporter))
		if o.History != nil {
			cmd.AddCommand(commands.NewExecutionCmd(o.Client, o.Runner, o.History, cli.reporter))
		}
	}

	return cmd
}
