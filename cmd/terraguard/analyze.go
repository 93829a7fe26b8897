package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/katiamach/terraguard/internal/api"
	"github.com/katiamach/terraguard/internal/config"
	"github.com/katiamach/terraguard/internal/logger"
	"github.com/katiamach/terraguard/internal/metrics"
	"github.com/katiamach/terraguard/internal/presenter"
	"github.com/katiamach/terraguard/internal/risk"
	"github.com/spf13/cobra"
)

var errAnalysisFailed = errors.New("analysis failed")

// addAnalyzeCmd adds the 'analyze' subcommand scoring one location without the web server
func addAnalyzeCmd(rootCmd *cobra.Command) {
	var lat, lon, year string

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a single location and print the results",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := logger.SetLevel(cfg.LogLevel); err != nil {
				return fmt.Errorf("invalid log level: %w", err)
			}
			logger.SetOutput(cmd.ErrOrStderr())

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			m := metrics.New()
			p := presenter.New(api.NewScorer(cfg, m), api.PresenterOptions(cfg, m))

			view, err := analyze(ctx, p, presenter.SubmitMsg{Latitude: lat, Longitude: lon, Year: year})
			if err != nil {
				return err
			}
			if view.Error != "" {
				return fmt.Errorf("%w: %s", errAnalysisFailed, view.Error)
			}

			return printView(cmd.OutOrStdout(), view)
		},
	}

	analyzeCmd.Flags().StringVar(&lat, "lat", "", "Latitude in decimal degrees")
	analyzeCmd.Flags().StringVar(&lon, "lon", "", "Longitude in decimal degrees")
	analyzeCmd.Flags().StringVar(&year, "year", "", "Target year (optional)")
	_ = analyzeCmd.MarkFlagRequired("lat")
	_ = analyzeCmd.MarkFlagRequired("lon")

	rootCmd.AddCommand(analyzeCmd)
}

// analyze runs p headless for a single submission and returns the settled view.
func analyze(ctx context.Context, p *presenter.Presenter, msg presenter.SubmitMsg) (presenter.View, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	prog := presenter.NewProgram(p)
	go func() {
		_ = prog.Run(ctx)
	}()

	if err := prog.Send(ctx, msg); err != nil {
		return presenter.View{}, err
	}

	return prog.AwaitIdle(ctx)
}

func printView(w io.Writer, v presenter.View) error {
	if v.Panel == nil || v.Query == nil {
		return errAnalysisFailed
	}

	fmt.Fprintf(w, "Location: %s, %s\n", risk.FormatNumber(v.Query.Latitude, 6), risk.FormatNumber(v.Query.Longitude, 6))
	if v.Query.HasYear() {
		fmt.Fprintf(w, "Year: %d\n", v.Query.Year)
	}
	fmt.Fprintf(w, "General Risk: %s (%s)\n", v.Panel.OverallText, v.Panel.OverallLevel)

	for _, g := range v.Panel.Gauges {
		fmt.Fprintf(w, "  %-14s %5s  %s\n", g.Name, g.PercentText, risk.Classify(g.Percent))
	}

	fmt.Fprintf(w, "\n%s\n", v.Panel.Summary)
	return nil
}
