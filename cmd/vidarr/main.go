package main

import (
	"fmt"
	"os"

	"github.com/amaumene/vidarr/internal/config"
	"github.com/amaumene/vidarr/internal/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return newRootCommand().Execute()
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "vidarr",
		Short:         "Inspect media URLs and queue downloads in a chosen format",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("log-level", "", "log level (overrides LOG_LEVEL)")
	root.PersistentFlags().String("port", "", "HTTP port (overrides SERVER_PORT)")
	_ = viper.BindPFlag("LOG_LEVEL", root.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("SERVER_PORT", root.PersistentFlags().Lookup("port"))

	root.AddCommand(newServeCommand(), newInspectCommand(), newResolveCommand())
	return root
}

// setup loads configuration and builds the logger shared by every command
func setup() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := utils.NewLogger(cfg.LogLevel, cfg.LogFormat)
	return cfg, logger, nil
}
