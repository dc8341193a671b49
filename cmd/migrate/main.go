package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"cine-lens/config"
	"cine-lens/logging"
	"cine-lens/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: os.Stderr})

	var (
		dataPath = flag.String("data", cfg.Data.Path, "Path to database directory")
		command  = flag.String("cmd", "up", "Migration command: up, down, status, version, reset")
	)
	flag.Parse()

	sqliteStorage := storage.NewSQLiteStorage(*dataPath)
	if err := sqliteStorage.Open(); err != nil {
		logging.Error().Err(err).Msg("Failed to open storage")
		os.Exit(1)
	}
	defer sqliteStorage.Close()

	if err := run(os.Stdout, sqliteStorage, *command); err != nil {
		logging.Error().Err(err).Str("cmd", *command).Msg("Migration command failed")
		sqliteStorage.Close()
		os.Exit(1)
	}
}

func run(w io.Writer, s *storage.SQLiteStorage, command string) error {
	switch command {
	case "up":
		if err := s.RunMigrations(); err != nil {
			return err
		}
		fmt.Fprintln(w, "Migrations completed successfully")

	case "down":
		if err := s.RollbackMigration(); err != nil {
			return err
		}
		fmt.Fprintln(w, "Migration rolled back successfully")

	case "status":
		return s.MigrationStatus()

	case "version":
		version, err := s.GetDatabaseVersion()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Database version: %d\n", version)

	case "reset":
		if err := s.ResetDatabase(); err != nil {
			return err
		}
		fmt.Fprintln(w, "Database reset completed successfully")

	default:
		return fmt.Errorf("unknown command %q, available: up, down, status, version, reset", command)
	}
	return nil
}
