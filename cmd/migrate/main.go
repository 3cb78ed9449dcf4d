package main

import (
	"fmt"
	"os"
	"strconv"

	"campusledger/internal/config"
	"campusledger/internal/database"
	"campusledger/internal/logger"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Migration error: %v", err)
	}
}

func run() error {
	if len(os.Args) < 2 {
		return fmt.Errorf("usage: migrate <up|goto|version> [N]")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	command := os.Args[1]

	switch command {
	case "up":
		if err := database.RunMigrations(cfg.DBPath); err != nil {
			return fmt.Errorf("migration up failed: %w", err)
		}
		logger.Get().Info("Migrations applied successfully")

	case "goto":
		if len(os.Args) < 3 {
			return fmt.Errorf("usage: migrate goto <version>")
		}
		version, err := strconv.ParseUint(os.Args[2], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid version: %w", err)
		}
		if err := database.MigrateTo(cfg.DBPath, uint(version)); err != nil {
			return fmt.Errorf("migration goto failed: %w", err)
		}
		logger.Get().Infof("Migrated to version %d", version)

	case "version":
		version, dirty, err := database.Version(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("failed to get version: %w", err)
		}
		logger.Get().Infof("Version: %d, Dirty: %v", version, dirty)

	default:
		return fmt.Errorf("unknown command: %s (use up, goto, or version)", command)
	}

	return nil
}
