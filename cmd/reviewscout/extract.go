package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/IshaanNene/ReviewScout/internal/fetcher"
	"github.com/IshaanNene/ReviewScout/internal/pipeline"
	"github.com/IshaanNene/ReviewScout/internal/review"
)

var extractSelector string

// extractCmd creates the "extract" subcommand.
func extractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <file|url>",
		Short: "Print the reviews found in a saved HTML file or a fetched page",
		Long: `Apply the review selector to static HTML and print one review per line.
URLs are fetched over plain HTTP, so reviews loaded by JavaScript are not seen.`,
		Args: cobra.ExactArgs(1),
		RunE: runExtract,
	}
	cmd.Flags().StringVar(&extractSelector, "selector", "", "override the review selector (XPath when it starts with /)")
	return cmd
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	rule := cfg.Extract.Review
	if extractSelector != "" {
		rule.Selector = extractSelector
		rule.Type = "css"
		if strings.HasPrefix(strings.TrimSpace(extractSelector), "/") {
			rule.Type = "xpath"
		}
	}
	pl := pipeline.Default(logger, cfg.Extract.MinLength)

	var src review.Source
	target := args[0]
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		f, err := fetcher.NewHTTPFetcher(cfg.Browser, logger)
		if err != nil {
			return err
		}
		defer f.Close()
		src = review.NewHTTPSource(f, target, rule, pl, nil, logger)
	} else {
		src = review.NewFileSource(target, rule, pl, nil, logger)
	}

	reviews, err := src.Reviews(cmd.Context())
	if err != nil {
		return err
	}
	for _, r := range reviews {
		fmt.Fprintln(cmd.OutOrStdout(), r.Text)
	}
	return nil
}
