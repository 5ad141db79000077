package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IshaanNene/ReviewScout/internal/sentiment"
)

// modelCmd creates the "model" command group.
func modelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "model",
		Short: "Manage the sentiment model",
	}

	var name string
	download := &cobra.Command{
		Use:   "download",
		Short: "Download the configured model into model.path",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			if name != "" {
				cfg.Model.Name = name
			}
			dir, err := sentiment.EnsureModel(cfg.Model, logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Model ready at %s\n", dir)
			return nil
		},
	}
	download.Flags().StringVar(&name, "name", "", "Hugging Face model to download (default from config)")

	cmd.AddCommand(download)
	return cmd
}
