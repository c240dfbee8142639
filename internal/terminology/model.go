// Package terminology implements concept translation, value set expansion and
// code lookup over the local catalogue, with ICD-11 fallback.
package terminology

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Equivalence is the relationship strength between a source and a target
// concept, following the FHIR concept-map-equivalence value set.
type Equivalence string

const (
	EquivalenceRelatedTo   Equivalence = "relatedto"
	EquivalenceEquivalent  Equivalence = "equivalent"
	EquivalenceEqual       Equivalence = "equal"
	EquivalenceWider       Equivalence = "wider"
	EquivalenceSubsumes    Equivalence = "subsumes"
	EquivalenceNarrower    Equivalence = "narrower"
	EquivalenceSpecializes Equivalence = "specializes"
	EquivalenceInexact     Equivalence = "inexact"
	EquivalenceUnmatched   Equivalence = "unmatched"
	EquivalenceDisjoint    Equivalence = "disjoint"
)

var equivalences = map[Equivalence]bool{
	EquivalenceRelatedTo:   true,
	EquivalenceEquivalent:  true,
	EquivalenceEqual:       true,
	EquivalenceWider:       true,
	EquivalenceSubsumes:    true,
	EquivalenceNarrower:    true,
	EquivalenceSpecializes: true,
	EquivalenceInexact:     true,
	EquivalenceUnmatched:   true,
	EquivalenceDisjoint:    true,
}

// ParseEquivalence converts free text into an Equivalence, accepting any
// letter case. Unknown values are rejected.
func ParseEquivalence(value string) (Equivalence, error) {
	eq := Equivalence(strings.ToLower(strings.TrimSpace(value)))
	if !equivalences[eq] {
		return "", fmt.Errorf("unknown equivalence: %q", value)
	}
	return eq, nil
}

// CodeEntry is a single code of one coding system in the local catalogue.
// Uniquely identified by (system_uri, code).
type CodeEntry struct {
	ID         int64          `db:"id"`
	SystemURI  string         `db:"system_uri"`
	Code       string         `db:"code"`
	Display    string         `db:"display"`
	Definition sql.NullString `db:"definition"`
	Version    string         `db:"version"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

// ConceptMapping is a stored cross-system equivalence between one source code
// and one target code or URI. Uniquely identified by
// (source_system, source_code, target_system).
type ConceptMapping struct {
	ID              int64          `db:"id"`
	SourceSystem    string         `db:"source_system"`
	SourceCode      string         `db:"source_code"`
	TargetSystem    string         `db:"target_system"`
	TargetCodeOrURI string         `db:"target_code_or_uri"`
	Equivalence     Equivalence    `db:"equivalence"`
	Comment         sql.NullString `db:"comment"`
	Provenance      string         `db:"provenance"`
	Version         string         `db:"version"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

// Coding identifies a concept in a coding system. Display may be empty.
type Coding struct {
	System  string
	Code    string
	Display string
}

// TranslationMatch is one translated concept. Comment is empty when the
// stored mapping carried none.
type TranslationMatch struct {
	Equivalence string
	Concept     Coding
	Comment     string
}

// TranslationResult is the outcome of a translate call. A nil Matches slice
// means the match list is absent from the rendered result, which is distinct
// from an empty list.
type TranslationResult struct {
	Found   bool
	Matches []TranslationMatch
}

// ExpansionItem is one code in an expanded value set page.
type ExpansionItem struct {
	System  string
	Code    string
	Display string
}

// ExpansionPage is one page of an expanded value set. Total counts local
// catalogue matches only; Items may hold additional externally sourced codes
// beyond that count.
type ExpansionPage struct {
	Total  int
	Offset int
	Items  []ExpansionItem
}

// LookupResult is the descriptive metadata of a single code. Definition and
// Version are omitted from the rendered result when empty.
type LookupResult struct {
	Display    string
	Definition string
	Version    string
}
