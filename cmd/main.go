package main

import (
	"context"
	"database/sql"
	"errors"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/staybook/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "error", err)
		}
	}
	if err := shared.ApplyEnv(config, ".env"); err != nil {
		logger.Warn("failed to apply environment overrides", "error", err)
	}
	shared.SetLogLevel(logger, shared.ParseLogLevel(config.Log.Level))

	runner := NewRunner(RunnerOpts{
		Config: config,
		DB:     openStorage(config, logger),
		Logger: logger,
	})
	defer runner.Close()

	app := &cli.Command{
		Name:     "staybook",
		Usage:    "Search, book and save stays from the terminal",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		switch {
		case errors.Is(err, shared.ErrAuthRequired):
			logger.Warn("you need to log in first: staybook auth login", "error", err)
		default:
			logger.Error("application error", "error", err)
		}
		runner.Close()
		os.Exit(1)
	}
}

// openStorage opens and migrates the client storage database. On failure the
// runner keeps client storage in memory for this invocation.
func openStorage(config *shared.Config, logger *log.Logger) *sql.DB {
	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		logger.Warn("client storage unavailable, using memory", "path", config.Database.Path, "error", err)
		return nil
	}
	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		logger.Warn("failed to migrate client storage, using memory", "error", err)
		db.Close()
		return nil
	}
	return db
}
