package main

import (
	"fmt"
	"io/fs"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mitrahealth/fhirterm/internal/database"
	"github.com/mitrahealth/fhirterm/schemas"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("loadConfig() > %w", err)
			}

			db, err := database.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("database.Open() > %w", err)
			}
			defer func() {
				_ = db.Close()
			}()

			files, err := fs.Glob(schemas.Migrations, "migrations/*.sql")
			if err != nil {
				return fmt.Errorf("fs.Glob() > %w", err)
			}
			sort.Strings(files)

			for _, file := range files {
				contents, err := fs.ReadFile(schemas.Migrations, file)
				if err != nil {
					return fmt.Errorf("fs.ReadFile(%s) > %w", file, err)
				}
				if _, err := db.ExecContext(cmd.Context(), string(contents)); err != nil {
					return fmt.Errorf("apply %s > %w", file, err)
				}
				color.Green("applied %s", file)
			}
			return nil
		},
	}
}
