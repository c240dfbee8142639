// Package report renders catalogue statistics as markdown and optionally PDF.
package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mitrahealth/fhirterm/internal/audit"
	"github.com/mitrahealth/fhirterm/internal/terminology"
)

const recentTranslationLimit = 10

// Stats holds catalogue and usage counts for one report.
type Stats struct {
	GeneratedAt        time.Time
	CodeEntries        int64
	ConceptMappings    int64
	Translations       int64
	RecentTranslations []audit.TranslationRecord
}

type Builder struct {
	codes    terminology.CodeRepository
	mappings terminology.ConceptMapRepository
	recorder audit.Recorder
}

// NewBuilder creates a Builder. recorder may be nil when no translation
// history is kept.
func NewBuilder(codes terminology.CodeRepository, mappings terminology.ConceptMapRepository, recorder audit.Recorder) *Builder {
	return &Builder{
		codes:    codes,
		mappings: mappings,
		recorder: recorder,
	}
}

func (b *Builder) Collect(ctx context.Context) (*Stats, error) {
	stats := &Stats{GeneratedAt: time.Now()}

	var err error
	if stats.CodeEntries, err = b.codes.Count(ctx); err != nil {
		return nil, fmt.Errorf("codes.Count > %w", err)
	}
	if stats.ConceptMappings, err = b.mappings.Count(ctx); err != nil {
		return nil, fmt.Errorf("mappings.Count > %w", err)
	}
	if b.recorder == nil {
		return stats, nil
	}

	records, total, err := b.recorder.History(ctx, 0, recentTranslationLimit)
	if err != nil {
		return nil, fmt.Errorf("recorder.History > %w", err)
	}
	stats.Translations = total
	stats.RecentTranslations = records
	return stats, nil
}

// Markdown renders the stats as a report document.
func (s *Stats) Markdown() string {
	var sb strings.Builder
	sb.WriteString("# Terminology Service Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated at %s\n\n", s.GeneratedAt.Format(time.RFC3339)))

	sb.WriteString("## Catalogue\n\n")
	sb.WriteString("| Resource | Count |\n")
	sb.WriteString("| --- | --- |\n")
	sb.WriteString(fmt.Sprintf("| Code entries | %d |\n", s.CodeEntries))
	sb.WriteString(fmt.Sprintf("| Concept mappings | %d |\n", s.ConceptMappings))
	sb.WriteString(fmt.Sprintf("| Recorded translations | %d |\n", s.Translations))

	if len(s.RecentTranslations) > 0 {
		sb.WriteString("\n## Recent translations\n\n")
		for _, record := range s.RecentTranslations {
			sb.WriteString(fmt.Sprintf("- %s %s %s\n",
				record.CreatedAt.Format(time.RFC3339), record.SourceSystem, record.SourceCode))
		}
	}
	return sb.String()
}
