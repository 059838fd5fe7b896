package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/config"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/database"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/logger"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(os.Args[1:]); err != nil {
		logger.Get().Fatalf("Migration error: %v", err)
	}
}

func run(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: migrate <up|down|version|force> [N]")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	dbCfg := database.NewConfig(cfg)

	m, err := migrate.New(dbCfg.MigrationsSource(), dbCfg.URL())
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			logger.Get().Warnf("migrate source close error: %v", srcErr)
		}
		if dbErr != nil {
			logger.Get().Warnf("migrate database close error: %v", dbErr)
		}
	}()

	switch command := args[0]; command {
	case "up":
		if err := m.Up(); err != nil && err != migrate.ErrNoChange {
			return fmt.Errorf("migration up failed: %w", err)
		}
		logger.Get().Info("Migrations applied successfully")

	case "down":
		steps, err := stepCount(args, 1)
		if err != nil {
			return err
		}
		if err := m.Steps(-steps); err != nil && err != migrate.ErrNoChange {
			return fmt.Errorf("migration down failed: %w", err)
		}
		logger.Get().Infof("Rolled back %d migration(s)", steps)

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return fmt.Errorf("failed to get version: %w", err)
		}
		logger.Get().Infof("Version: %d, Dirty: %v", version, dirty)

	case "force":
		if len(args) < 2 {
			return fmt.Errorf("usage: migrate force <version>")
		}
		version, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid version: %w", err)
		}
		if err := m.Force(version); err != nil {
			return fmt.Errorf("force failed: %w", err)
		}
		logger.Get().Infof("Forced version %d", version)

	default:
		return fmt.Errorf("unknown command: %s (use up, down, version or force)", command)
	}

	return nil
}

func stepCount(args []string, fallback int) (int, error) {
	if len(args) < 2 {
		return fallback, nil
	}
	steps, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, fmt.Errorf("invalid step count: %w", err)
	}
	if steps < 1 {
		return 0, fmt.Errorf("step count must be positive")
	}
	return steps, nil
}
