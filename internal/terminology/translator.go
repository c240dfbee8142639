package terminology

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// icdSystemMarker identifies target systems served by the external authority.
const icdSystemMarker = "who.int/icd"

// maxIcdCandidates bounds how many search results become candidate matches.
const maxIcdCandidates = 5

const candidateComment = "Candidate match from ICD search - requires review"

// Translator resolves a source concept to equivalent concepts. Stored
// mappings win; when none apply and the target is the ICD-11 system, search
// results are offered as unconfirmed candidates.
type Translator struct {
	mappings     ConceptMapRepository
	authority    Authority
	icdSystemURI string
}

// NewTranslator creates a new Translator. icdSystemURI is the canonical
// system URI stamped onto candidate concepts.
func NewTranslator(mappings ConceptMapRepository, authority Authority, icdSystemURI string) *Translator {
	return &Translator{
		mappings:     mappings,
		authority:    authority,
		icdSystemURI: icdSystemURI,
	}
}

// Translate resolves (sourceSystem, sourceCode) to matches in targetSystem.
// An empty targetSystem accepts every stored target system. Found stays false
// when only ICD candidates are returned.
func (t *Translator) Translate(ctx context.Context, sourceSystem, sourceCode, targetSystem string) (TranslationResult, error) {
	entries, err := t.mappings.FindBySource(ctx, sourceSystem, sourceCode)
	if err != nil {
		return TranslationResult{}, fmt.Errorf("mappings.FindBySource > %w", err)
	}

	found := false
	var matches []TranslationMatch
	for _, entry := range entries {
		if targetSystem != "" && entry.TargetSystem != targetSystem {
			continue
		}

		match := TranslationMatch{
			Equivalence: strings.ToLower(string(entry.Equivalence)),
			Concept: Coding{
				System: entry.TargetSystem,
				Code:   entry.TargetCodeOrURI,
			},
		}
		if entry.Comment.Valid {
			match.Comment = entry.Comment.String
		}
		matches = append(matches, match)
		found = true
	}

	if !found && (targetSystem == "" || strings.Contains(targetSystem, icdSystemMarker)) {
		matches = append(matches, t.icdCandidates(ctx, sourceCode)...)
	}

	slog.Default().Info("translation request processed",
		"system", sourceSystem,
		"code", sourceCode,
		"found", found,
		"matches", len(matches),
	)
	return TranslationResult{Found: found, Matches: matches}, nil
}

// icdCandidates searches the authority for the source code and returns up to
// maxIcdCandidates relatedto matches. Search failures degrade to zero
// candidates.
func (t *Translator) icdCandidates(ctx context.Context, sourceCode string) []TranslationMatch {
	results, err := t.authority.SearchEntities(ctx, sourceCode)
	if err != nil {
		slog.Default().Error("failed to find ICD candidates",
			"code", sourceCode,
			"error", err,
		)
		return nil
	}
	if len(results) > maxIcdCandidates {
		results = results[:maxIcdCandidates]
	}

	candidates := make([]TranslationMatch, 0, len(results))
	for _, entity := range results {
		candidates = append(candidates, TranslationMatch{
			Equivalence: string(EquivalenceRelatedTo),
			Concept: Coding{
				System:  t.icdSystemURI,
				Code:    entity.Code,
				Display: entity.Title,
			},
			Comment: candidateComment,
		})
	}
	return candidates
}
