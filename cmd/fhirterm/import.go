package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mitrahealth/fhirterm/internal/database"
	"github.com/mitrahealth/fhirterm/internal/ingest"
	"github.com/mitrahealth/fhirterm/internal/terminology"
)

type dataset string

func (d *dataset) Set(val string) error {
	for _, kind := range allDatasets {
		if val == string(kind) {
			*d = kind
			return nil
		}
	}
	return fmt.Errorf("invalid dataset: %s", val)
}

func (d dataset) String() string {
	return string(d)
}

func (d *dataset) Type() string {
	return "dataset"
}

const (
	datasetCodes       dataset = "codes"
	datasetConceptMaps dataset = "conceptmaps"
)

var (
	_           pflag.Value = (*dataset)(nil)
	allDatasets             = []dataset{datasetCodes, datasetConceptMaps}
)

func newImportCommand() *cobra.Command {
	kind := datasetCodes

	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Load catalogue CSV files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), args[0], kind)
		},
	}
	importCmd.Flags().Var(&kind, "dataset", fmt.Sprintf("Dataset to import. Possible values are %v", allDatasets))
	return importCmd
}

func runImport(ctx context.Context, path string, kind dataset) error {
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

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("os.Open(%s) > %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	importer := ingest.NewImporter(
		terminology.NewDBCodeRepository(db),
		terminology.NewDBConceptMapRepository(db),
		cfg.Namaste.Version,
	)
	var runImport func(ctx context.Context, reader io.Reader) (*ingest.Summary, error)
	switch kind {
	case datasetConceptMaps:
		runImport = importer.ImportMappings
	default:
		runImport = importer.ImportCodes
	}

	summary, err := runImport(ctx, file)
	if err != nil {
		return fmt.Errorf("import %s > %w", path, err)
	}

	color.Green("Imported %d rows from %s", summary.Imported, path)
	for _, failure := range summary.Failures {
		color.Red("line %d skipped: %s", failure.Line, failure.Reason)
	}
	if len(summary.Failures) > 0 {
		return fmt.Errorf("%d rows were skipped", len(summary.Failures))
	}
	return nil
}
