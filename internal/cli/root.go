// Package cli provides the account command line: the API server plus
// offline import, export and reporting against the same database.
package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/timlee789/account/internal/config"
	"github.com/timlee789/account/internal/database"
	"github.com/timlee789/account/internal/logger"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "account",
	Short: "Small-business ledger, sales register and dashboard",
	Long: `account keeps a restaurant's books in one SQLite file:
bank and card statements, supplier invoices, the cash book and the
daily sales register.

Example:
  account serve
  account import statement.csv --target ledger
  account summary --month 2024-03`,
	SilenceUsage: true,
}

// Execute runs the root command. Called once by main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd, importCmd, exportCmd, summaryCmd, recomputeCmd)
}

// app holds what every command opens: config, logger and database.
type app struct {
	cfg    *config.Config
	log    *slog.Logger
	db     *gorm.DB
	closer io.Closer
}

func openApp() (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if debug {
		cfg.Log.Level = "debug"
	}
	log, closer, err := logger.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(log)

	db, err := database.Init(cfg.Database)
	if err != nil {
		closer.Close()
		return nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		_ = database.Close(db)
		closer.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	log.With("component", logger.ComponentDatabase).Debug("database ready", "path", cfg.Database.Path)
	return &app{cfg: cfg, log: log, db: db, closer: closer}, nil
}

func (a *app) Close() {
	if err := database.Close(a.db); err != nil {
		a.log.Warn("close database", "error", err)
	}
	a.closer.Close()
}
