// Package ingest loads code system entries and concept mappings from CSV
// uploads into the local catalogue.
package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/mitrahealth/fhirterm/internal/terminology"
)

const uploadProvenance = "CSV Upload"

type codeRow struct {
	System     string `csv:"system"`
	Code       string `csv:"code"`
	Display    string `csv:"display"`
	Definition string `csv:"definition"`
}

type mappingRow struct {
	SourceSystem string `csv:"sourceSystem"`
	SourceCode   string `csv:"sourceCode"`
	TargetSystem string `csv:"targetSystem"`
	TargetCode   string `csv:"targetCode"`
	Equivalence  string `csv:"equivalence"`
	Comment      string `csv:"comment"`
}

// RowFailure records one skipped CSV row. Line is 1-based and counts the
// header line.
type RowFailure struct {
	Line   int
	Reason string
}

// Summary reports how an import went. Failed rows are skipped, the rest are
// stored.
type Summary struct {
	Imported int
	Failures []RowFailure
}

type Importer struct {
	codes    terminology.CodeRepository
	mappings terminology.ConceptMapRepository
	version  string
}

// NewImporter creates an Importer stamping every stored row with version.
func NewImporter(codes terminology.CodeRepository, mappings terminology.ConceptMapRepository, version string) *Importer {
	return &Importer{
		codes:    codes,
		mappings: mappings,
		version:  version,
	}
}

// ImportCodes reads code rows (system,code,display,definition) and upserts
// them by (system, code).
func (i *Importer) ImportCodes(ctx context.Context, reader io.Reader) (*Summary, error) {
	var rows []codeRow
	if err := gocsv.Unmarshal(reader, &rows); err != nil {
		return nil, fmt.Errorf("gocsv.Unmarshal > %w", err)
	}

	summary := &Summary{}
	for index, row := range rows {
		line := index + 2
		if row.System == "" || row.Code == "" || row.Display == "" {
			summary.fail(line, "system, code and display are required")
			continue
		}

		entry := &terminology.CodeEntry{
			SystemURI: row.System,
			Code:      row.Code,
			Display:   row.Display,
			Version:   i.version,
		}
		if row.Definition != "" {
			entry.Definition = sql.NullString{String: row.Definition, Valid: true}
		}
		if err := i.codes.Upsert(ctx, entry); err != nil {
			summary.fail(line, err.Error())
			continue
		}
		summary.Imported++
	}
	return summary, nil
}

// ImportMappings reads concept-map rows
// (sourceSystem,sourceCode,targetSystem,targetCode,equivalence,comment) and
// upserts them by (sourceSystem, sourceCode, targetSystem). Rows with an
// unknown equivalence are skipped, not defaulted.
func (i *Importer) ImportMappings(ctx context.Context, reader io.Reader) (*Summary, error) {
	var rows []mappingRow
	if err := gocsv.Unmarshal(reader, &rows); err != nil {
		return nil, fmt.Errorf("gocsv.Unmarshal > %w", err)
	}

	summary := &Summary{}
	for index, row := range rows {
		line := index + 2
		if row.SourceSystem == "" || row.SourceCode == "" || row.TargetSystem == "" || row.TargetCode == "" {
			summary.fail(line, "sourceSystem, sourceCode, targetSystem and targetCode are required")
			continue
		}
		equivalence, err := terminology.ParseEquivalence(row.Equivalence)
		if err != nil {
			summary.fail(line, err.Error())
			continue
		}

		mapping := &terminology.ConceptMapping{
			SourceSystem:    row.SourceSystem,
			SourceCode:      row.SourceCode,
			TargetSystem:    row.TargetSystem,
			TargetCodeOrURI: row.TargetCode,
			Equivalence:     equivalence,
			Provenance:      uploadProvenance,
			Version:         i.version,
		}
		if row.Comment != "" {
			mapping.Comment = sql.NullString{String: row.Comment, Valid: true}
		}
		if err := i.mappings.Upsert(ctx, mapping); err != nil {
			summary.fail(line, err.Error())
			continue
		}
		summary.Imported++
	}
	return summary, nil
}

func (s *Summary) fail(line int, reason string) {
	s.Failures = append(s.Failures, RowFailure{Line: line, Reason: reason})
}
