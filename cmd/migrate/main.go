package main

import (
	"database/sql"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/kavinrajasekaran/TennisTracker/internal/config"
	"github.com/kavinrajasekaran/TennisTracker/internal/logger"
	"github.com/kavinrajasekaran/TennisTracker/internal/repository"
)

const migrationsDir = "migrations/goose_sql"

// usage: migrate [up|down|status|version]
func main() {
	command, args := "up", []string(nil)
	if len(os.Args) > 1 {
		command, args = os.Args[1], os.Args[2:]
	}

	path := os.Getenv("APP_CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config loading failed: %v", err)
	}
	appLogger, err := logger.New(&cfg.Logger)
	if err != nil {
		log.Fatalf("logger initialization failed: %v", err)
	}
	l := appLogger.With().Str("module", "migrate").Logger()

	db, err := sql.Open("pgx", repository.DSN(cfg.Postgres))
	if err != nil {
		l.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		l.Fatal().Err(err).Msg("set dialect")
	}
	if err := goose.Run(command, db, migrationsDir, args...); err != nil {
		l.Fatal().Err(err).Str("command", command).Msg("migration failed")
	}
	l.Info().Str("command", command).Msg("migration finished")
}
