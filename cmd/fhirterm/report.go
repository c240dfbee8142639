package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mitrahealth/fhirterm/internal/audit"
	"github.com/mitrahealth/fhirterm/internal/database"
	"github.com/mitrahealth/fhirterm/internal/report"
	"github.com/mitrahealth/fhirterm/internal/terminology"
)

func newReportCommand() *cobra.Command {
	var pdfPath string

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Print catalogue statistics",
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

			var recorder audit.Recorder
			if cfg.Audit.Enabled {
				recorder = audit.NewDBRecorder(db)
			}
			builder := report.NewBuilder(
				terminology.NewDBCodeRepository(db),
				terminology.NewDBConceptMapRepository(db),
				recorder,
			)

			stats, err := builder.Collect(cmd.Context())
			if err != nil {
				return fmt.Errorf("builder.Collect() > %w", err)
			}

			markdown := stats.Markdown()
			fmt.Print(markdown)

			if pdfPath != "" {
				written, err := report.WritePDF(markdown, pdfPath)
				if err != nil {
					return fmt.Errorf("report.WritePDF() > %w", err)
				}
				color.Green("PDF written to %s", written)
			}
			return nil
		},
	}
	reportCmd.Flags().StringVar(&pdfPath, "pdf", "", "also write the report as a PDF file")
	return reportCmd
}
