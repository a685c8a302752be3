package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"invexa/internal/config"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: migrate <up|down|steps N|version>")
	os.Exit(2)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	m, err := migrate.New("file://db/migrations", cfg.DB.DSN())
	if err != nil {
		log.Fatalf("failed to create migrate instance: %v", err)
	}
	defer m.Close()

	if len(os.Args) < 2 {
		usage()
	}

	switch os.Args[1] {
	case "up":
		if err := m.Up(); err != nil {
			if err == migrate.ErrNoChange {
				log.Println("schema already up to date")
				return
			}
			log.Fatalf("migrate up: %v", err)
		}
		log.Println("schema migrated to latest version")

	case "down":
		if err := m.Down(); err != nil {
			if err == migrate.ErrNoChange {
				log.Println("nothing to roll back")
				return
			}
			log.Fatalf("migrate down: %v", err)
		}
		log.Println("schema rolled back")

	case "steps":
		if len(os.Args) < 3 {
			log.Fatal("steps requires a number argument")
		}
		n, err := strconv.Atoi(os.Args[2])
		if err != nil {
			log.Fatalf("invalid steps argument: %v", err)
		}
		if err := m.Steps(n); err != nil && err != migrate.ErrNoChange {
			log.Fatalf("migrate steps: %v", err)
		}
		log.Printf("moved schema by %d step(s)", n)

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			log.Fatalf("failed to read schema version: %v", err)
		}
		fmt.Printf("schema version %d (dirty=%v)\n", version, dirty)

	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		usage()
	}
}
