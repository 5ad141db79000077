package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/IshaanNene/ReviewScout/internal/app"
	"github.com/IshaanNene/ReviewScout/internal/config"
	"github.com/IshaanNene/ReviewScout/internal/logging"
	"github.com/IshaanNene/ReviewScout/internal/observability"
)

var (
	cfgFile string
	verbose bool

	targetURL   string
	query       string
	mode        string
	backend     string
	modelPath   string
	outputDir   string
	reportPath  string
	headless    bool
	showBrowser bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "reviewscout",
		Short: "ReviewScout: product review sentiment router",
		Long: `ReviewScout searches a shopping site for a product, reads its customer
reviews and sorts them by sentiment.

Positive reviews are written to the advertisement file and, quoted, to the
social media file. Negative reviews are counted but not written.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(scoreCmd())
	rootCmd.AddCommand(extractCmd())
	rootCmd.AddCommand(modelCmd())
	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// runCmd creates the "run" subcommand.
func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Search, extract, score and write reviews",
		Args:  cobra.NoArgs,
		RunE:  runReviews,
	}

	cmd.Flags().StringVarP(&targetURL, "url", "u", "", "site to search (default from config)")
	cmd.Flags().StringVarP(&query, "query", "q", "", "search query")
	cmd.Flags().StringVar(&mode, "mode", "", "page loading mode: browser, http")
	cmd.Flags().StringVar(&backend, "backend", "", "sentiment backend: onnx, vader")
	cmd.Flags().StringVar(&modelPath, "model", "", "model directory for the onnx backend")
	cmd.Flags().StringVarP(&outputDir, "out", "o", "", "directory for output files")
	cmd.Flags().StringVar(&reportPath, "report", "", "also write scored reviews to this .jsonl, .json or .csv file")
	cmd.Flags().BoolVar(&headless, "headless", true, "run the browser without a window")
	cmd.Flags().BoolVar(&showBrowser, "show-browser", false, "shorthand for --headless=false")

	return cmd
}

// runReviews executes the run command.
func runReviews(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := setupLogger(cfg)

	applyCLIOverrides(cmd, cfg)

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := observability.NewMetrics(logger)
	if cfg.Metrics.Enabled {
		if err := metrics.StartServer(cfg.Metrics.Port, cfg.Metrics.Path); err != nil {
			logger.Warn("failed to start metrics server", "error", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			metrics.Shutdown(shutdownCtx)
		}()
	}

	logger.Info("starting run",
		"url", cfg.Target.URL,
		"query", cfg.Target.Query,
		"mode", cfg.Browser.Mode,
		"backend", cfg.Model.Backend,
		"output", cfg.Output.Dir,
	)

	runner, closeAll, err := app.Build(cfg, metrics, logger)
	defer func() {
		if err := closeAll(); err != nil {
			logger.Warn("cleanup failed", "error", err)
		}
	}()
	if err != nil {
		return err
	}

	summary, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	var counters map[string]float64
	if verbose {
		counters = metrics.Snapshot()
	}
	printSummary(cmd.OutOrStdout(), summary, counters)
	return nil
}

// printSummary reports a finished run. counters, when non-nil, are the
// run's metric values and are listed in name order.
func printSummary(w io.Writer, summary *app.Summary, counters map[string]float64) {
	fmt.Fprintln(w, "Process completed.")
	fmt.Fprintf(w, "   Reviews:   %d extracted, %d good, %d bad\n", summary.Extracted, summary.Good, summary.Bad)
	for _, f := range summary.Files {
		fmt.Fprintf(w, "   Output:    %s\n", f)
	}
	if summary.WriteErrors > 0 {
		fmt.Fprintf(w, "   Errors:    %d write failures (see log)\n", summary.WriteErrors)
	}
	if counters == nil {
		return
	}
	fmt.Fprintln(w, "   Metrics:")
	for _, name := range slices.Sorted(maps.Keys(counters)) {
		fmt.Fprintf(w, "     %s %g\n", name, counters[name])
	}
}

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("ReviewScout %s\n", config.Version)
		},
	}
}

// configCmd creates the "config" subcommand for inspecting configuration.
func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(cfg)
		},
	}
}

// setupLogger creates the structured logger described by cfg.
func setupLogger(cfg *config.Config) *slog.Logger {
	return logging.New(cfg.Logging, os.Stderr, verbose)
}

// loadConfig loads and validates configuration for the helper commands.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, setupLogger(cfg), nil
}

// applyCLIOverrides applies command-line flag values to the config. Only
// flags the user set override the loaded values.
func applyCLIOverrides(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if targetURL != "" {
		cfg.Target.URL = targetURL
	}
	if query != "" {
		cfg.Target.Query = query
	}
	if mode != "" {
		cfg.Browser.Mode = strings.ToLower(mode)
	}
	if backend != "" {
		cfg.Model.Backend = strings.ToLower(backend)
	}
	if modelPath != "" {
		cfg.Model.Path = modelPath
	}
	if outputDir != "" {
		cfg.Output.Dir = outputDir
	}
	if reportPath != "" {
		cfg.Output.Report = reportPath
	}
	if flags.Changed("headless") {
		cfg.Browser.Headless = headless
	}
	if showBrowser {
		cfg.Browser.Headless = false
	}
}
