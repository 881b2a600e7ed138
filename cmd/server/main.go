package main

import (
	"log"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stanstork/timeline-notify/internal/config"
	"github.com/stanstork/timeline-notify/internal/migration"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the timeline HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath)
		},
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(configPath)
			if err != nil {
				return err
			}
			return migration.RunMigrations(cfg.DatabaseURL, logger)
		},
	}

	root := &cobra.Command{
		Use:          "timeline-notify",
		Short:        "Timeline server with the notification plugin",
		SilenceUsage: true,
		RunE:         serveCmd.RunE,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ./config.yaml or ./config/config.yaml)")
	root.AddCommand(serveCmd, migrateCmd)
	return root
}

// setup loads configuration and builds the process logger.
func setup(configPath string) (*config.Config, zerolog.Logger, error) {
	// Set up structured, level-based logging.
	consoleWriter := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}
	logger := zerolog.New(consoleWriter).With().Timestamp().Logger()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.SetFlags(0)
	log.SetOutput(logger)

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, logger, err
	}

	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	} else {
		logger.Warn().Str("log_level", cfg.LogLevel).Msg("Unknown log level, using info")
	}

	return cfg, logger, nil
}
