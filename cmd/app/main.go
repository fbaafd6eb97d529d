// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	"codeberg.org/oliverandrich/uptask/internal/config"
	"codeberg.org/oliverandrich/uptask/internal/database"
	"codeberg.org/oliverandrich/uptask/internal/server"
	"github.com/urfave/cli/v3"
)

// Version information (set via ldflags during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	cmd := &cli.Command{
		Name:    "uptask",
		Usage:   "Account service for the UpTask web application",
		Version: fmt.Sprintf("%s (built %s)", Version, BuildTime),
		Flags:   config.Flags(),
		Action:  server.Run,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the web application",
				Action: server.Run,
			},
			{
				Name:  "migrate",
				Usage: "Manage the database schema",
				Commands: []*cli.Command{
					{Name: "up", Usage: "Apply all pending migrations", Action: migrate(nil)},
					{Name: "down", Usage: "Roll back the last migration", Action: migrate(database.MigrateDown)},
					{Name: "reset", Usage: "Roll back all migrations", Action: migrate(database.MigrateReset)},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// migrate opens the database, which applies pending migrations, then runs
// step if given and prints the resulting schema version.
func migrate(step func(db *sql.DB) error) cli.ActionFunc {
	return func(_ context.Context, cmd *cli.Command) error {
		cfg := config.NewFromCLI(cmd)

		db, err := database.Open(cfg.Database.DSN)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer func() { _ = database.Close(db) }()

		if step != nil {
			if err := step(db.DB); err != nil {
				return err
			}
		}

		version, err := database.Version(db.DB)
		if err != nil {
			return err
		}
		fmt.Printf("schema version %d\n", version)
		return nil
	}
}
