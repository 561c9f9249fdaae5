package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/amaumene/vidarr/internal/models"
	"github.com/amaumene/vidarr/internal/resolver"
	"github.com/spf13/cobra"
)

func newResolveCommand() *cobra.Command {
	var (
		catalogPath string
		criteria    models.SelectionCriteria
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Pick a format from a saved catalog without touching the network",
		Example: `  vidarr inspect https://example.com/v > catalog.json
  vidarr resolve --catalog catalog.json --resolution 1080 --container mp4
  vidarr resolve --catalog catalog.json --audio --audio-container m4a`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := loadCatalog(catalogPath, cmd.InOrStdin())
			if err != nil {
				return err
			}

			format, err := resolver.Resolve(catalog, criteria)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(format)
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "-", "catalog JSON file produced by inspect, - for stdin")
	cmd.Flags().BoolVar(&criteria.AudioOnly, "audio", false, "select an audio-only format")
	cmd.Flags().StringVar(&criteria.AudioContainer, "audio-container", "", "audio container, e.g. m4a")
	cmd.Flags().IntVar(&criteria.ResolutionP, "resolution", 0, "vertical resolution, e.g. 1080")
	cmd.Flags().StringVar(&criteria.Container, "container", "", "video container, e.g. mp4")
	cmd.Flags().IntVar(&criteria.FrameRate, "fps", 0, "frame rate, optional")

	return cmd
}

func loadCatalog(path string, stdin io.Reader) (*models.MediaCatalog, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open catalog: %w", err)
		}
		defer f.Close()
		r = f
	}

	var catalog models.MediaCatalog
	if err := json.NewDecoder(r).Decode(&catalog); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	return &catalog, nil
}
