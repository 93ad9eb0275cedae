// Package commands implements the splitledger command line.
package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mmynk/splitledger/internal/config"
	"github.com/mmynk/splitledger/internal/storage/sqlite"
	"github.com/mmynk/splitledger/pkg/logging"
)

var (
	cfg    *config.Config
	logger *slog.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "splitledger",
	Short: "SplitLedger - shared expense ledger",
	Long: `SplitLedger records shared expenses, splits them between friends
to the cent and keeps running balances of who owes whom.

Settings come from the environment (DB_PATH, ADDR, JWT_SECRET, TOKEN_TTL,
LOG_LEVEL, LOG_FORMAT), optionally via a .env file. Flags override both.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		envFile, _ := cmd.Flags().GetString("env-file")
		loaded, err := config.Load(envFile)
		if err != nil {
			return err
		}
		applyFlags(cmd, loaded)
		cfg = loaded
		logger = logging.Setup(cfg.LogLevel, cfg.LogFormat)
		return nil
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("env-file", ".env", "dotenv file to load before reading the environment")
	rootCmd.PersistentFlags().String("db", "", "path to the SQLite database (overrides DB_PATH)")
	rootCmd.PersistentFlags().String("log-level", "", "debug, info, warn or error (overrides LOG_LEVEL)")
	rootCmd.PersistentFlags().String("log-format", "", "text or json (overrides LOG_FORMAT)")
}

// applyFlags copies explicitly set flags over the loaded configuration.
func applyFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("db") {
		c.DBPath, _ = flags.GetString("db")
	}
	if flags.Changed("log-level") {
		c.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-format") {
		c.LogFormat, _ = flags.GetString("log-format")
	}
	if f := flags.Lookup("addr"); f != nil && f.Changed {
		c.Addr = f.Value.String()
	}
}

// openStore opens the configured database and brings its schema up to date.
func openStore() (*sqlite.SQLiteStore, error) {
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	logger.Info("Storage initialized", "database", cfg.DBPath)
	return store, nil
}
