package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/amaumene/vidarr/internal/services/ytdlp"
	"github.com/amaumene/vidarr/internal/utils"
	"github.com/spf13/cobra"
)

func newInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <url>",
		Short: "Print the format catalog of a media URL as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			// stdout carries the catalog
			logger.SetOutput(os.Stderr)

			client := ytdlp.NewClient(cfg, logger)
			if err := client.ValidateURL(cmd.Context(), args[0]); err != nil {
				return err
			}
			catalog, err := client.Inspect(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "%s (%s)\n", catalog.Title, utils.FormatDuration(catalog.DurationSeconds))

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(catalog)
		},
	}
}
