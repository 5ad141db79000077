package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/IshaanNene/ReviewScout/internal/sentiment"
	"github.com/IshaanNene/ReviewScout/internal/types"
)

var scoreBackend string

// scoreCmd creates the "score" subcommand.
func scoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score [text...]",
		Short: "Score texts and show the bucket each would be routed to",
		Long: `Score each argument with the configured sentiment backend. With no
arguments, every non-empty line of stdin is scored.`,
		RunE: runScore,
	}
	cmd.Flags().StringVar(&scoreBackend, "backend", "", "sentiment backend: onnx, vader")
	return cmd
}

func runScore(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if scoreBackend != "" {
		cfg.Model.Backend = strings.ToLower(scoreBackend)
	}

	texts := args
	if len(texts) == 0 {
		texts, err = readLines(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
	}

	scorer, err := sentiment.New(cfg.Model, logger)
	if err != nil {
		return fmt.Errorf("load sentiment model: %w", err)
	}
	defer scorer.Close()

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.AppendHeader(table.Row{"#", "Text", "Score", "Bucket"})
	for i, text := range texts {
		score, err := scorer.Score(cmd.Context(), text)
		if err != nil {
			return err
		}
		t.AppendRow(table.Row{i + 1, truncate(text, 60), fmt.Sprintf("%+.4f", score), types.BucketFor(score, cfg.Classify.Threshold)})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
	return nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

