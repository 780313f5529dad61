package main

import (
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tracker/internal/platform/config"
	"tracker/internal/platform/logger"
)

type rootOptions struct {
	configFile string
	envFile    string
	v          *viper.Viper

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{v: newRootViper()}

	cmd := &cobra.Command{
		Use:          "tracker",
		Short:        "Data dictionary, configuration store and audit log writer",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "config file (yaml, json or toml)")
	flags.StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	flags.String("log-level", "info", "log level: debug, info, warn or error")
	_ = opts.v.BindPFlag("logging.level", flags.Lookup("log-level"))

	cmd.AddCommand(
		newServeCmd(opts),
		newMigrateCmd(opts),
		newSeedCmd(opts),
	)
	return cmd
}

func newRootViper() *viper.Viper {
	v := config.New()
	_ = v.BindEnv("config", "TRACKER_CONFIG")
	return v
}

func (o *rootOptions) load() error {
	if o.envFile != "" {
		// A missing .env is normal outside development.
		_ = godotenv.Load(o.envFile)
	}
	file := o.configFile
	if file == "" {
		file = o.v.GetString("config")
	}

	cfg, err := config.Load(o.v, file)
	if err != nil {
		return err
	}
	o.cfg = cfg
	o.logger = logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if file != "" {
		o.logger.Debug("configuration loaded", "file", file)
	}
	return nil
}

func requirePostgres(cfg *config.Config, command string) error {
	if cfg.Database.URL == "" {
		return fmt.Errorf("%s needs database.url (TRACKER_DATABASE_URL)", command)
	}
	return nil
}
