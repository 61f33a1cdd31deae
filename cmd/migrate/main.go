//go:build migrate

package main

import (
	"os"
	"strconv"

	log "github.com/sirupsen/logrus"

	"github.com/forexpro/backend/internal/config"
	"github.com/forexpro/backend/internal/repository"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate <up|down [n]|version|force <version>>")
	}

	m, err := repository.NewMigrator(config.LoadDatabase().DSN())
	if err != nil {
		log.Fatalf("Failed to create migrator: %v", err)
	}
	defer m.Close()

	switch os.Args[1] {
	case "up":
		if err := m.Up(); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		log.Info("Migrations applied successfully")

	case "down":
		steps := 1
		if len(os.Args) > 2 {
			if steps, err = strconv.Atoi(os.Args[2]); err != nil || steps < 1 {
				log.Fatalf("Invalid step count: %s", os.Args[2])
			}
		}
		if err := m.Down(steps); err != nil {
			log.Fatalf("Failed to rollback migration: %v", err)
		}
		log.Infof("Rolled back %d migration(s)", steps)

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			log.Fatalf("Failed to get version: %v", err)
		}
		log.Infof("Version: %d, Dirty: %v", version, dirty)

	case "force":
		if len(os.Args) < 3 {
			log.Fatal("Usage: migrate force <version>")
		}
		version, err := strconv.Atoi(os.Args[2])
		if err != nil {
			log.Fatalf("Invalid version: %v", err)
		}
		if err := m.Force(version); err != nil {
			log.Fatalf("Failed to force version: %v", err)
		}
		log.Infof("Forced version to %d", version)

	default:
		log.Fatalf("Unknown command: %s", os.Args[1])
	}
}
