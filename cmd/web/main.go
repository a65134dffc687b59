package main

import (
	"fmt"
	"net"
	"os"

	"github.com/de-tools/report-atlas/pkg/runtime/app"
	"github.com/de-tools/report-atlas/pkg/server"
	"github.com/de-tools/report-atlas/pkg/services/config"
	"github.com/de-tools/report-atlas/pkg/services/execution"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for Report Atlas",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to the config file (default is $HOME/.report-atlas.yaml)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	cfg, err := config.LoadApp(cfgPath)
	if err != nil {
		return err
	}

	logger := app.Logger(cfg, false)
	ctx := logger.WithContext(cmd.Context())

	components, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := components.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close database")
		}
	}()

	if profiles, err := components.Sessions.Profiles(ctx); err == nil {
		for _, p := range profiles {
			logger.Info().Msgf("Session profile: `%s` (%s)", p.Name, p.APIURL)
		}
	}

	api := server.NewWebAPI(logger, server.Config{
		Addr: net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Dependencies: server.Dependencies{
			Engine:     components.Engine,
			Builder:    components.Builder,
			Controller: execution.NewController(components.Runner),
			History:    components.History,
		},
	})

	logger.Info().Str("api", cfg.APIURL).Msg("report service")
	return api.Start()
}
