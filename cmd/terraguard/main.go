package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/katiamach/terraguard/internal/api"
	"github.com/katiamach/terraguard/internal/config"
	"github.com/katiamach/terraguard/internal/logger"
	"github.com/spf13/cobra"
)

var configFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   "terraguard",
		Short: "Natural hazard risk analysis for property locations",
		Long: `TerraGuard sends property coordinates to a risk scoring service
and presents the result as a dashboard with a map, or on the command line.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML configuration file")

	addServeCmd(rootCmd)
	addAnalyzeCmd(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// addServeCmd adds the 'serve' subcommand running the web server
func addServeCmd(rootCmd *cobra.Command) {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the risk analysis web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := api.RunAPI(ctx, cfg); err != nil {
				logger.Error(fmt.Errorf("failed to run risk api: %w", err))
				return err
			}

			return nil
		},
	}

	rootCmd.AddCommand(serveCmd)
}
