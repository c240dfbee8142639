package terminology

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Lookup resolves descriptive metadata for a single code, consulting the
// catalogue first and the ICD-11 API for foreign codes.
type Lookup struct {
	codes     CodeRepository
	authority Authority
}

// NewLookup creates a new Lookup.
func NewLookup(codes CodeRepository, authority Authority) *Lookup {
	return &Lookup{codes: codes, authority: authority}
}

// Find returns the metadata of (system, code), or nil when the code is
// unknown both locally and externally. The version argument is accepted for
// the FHIR contract but does not narrow the lookup.
func (l *Lookup) Find(ctx context.Context, system, code, version string) (*LookupResult, error) {
	entry, err := l.codes.FindBySystemAndCode(ctx, system, code)
	if err != nil {
		return nil, fmt.Errorf("codes.FindBySystemAndCode > %w", err)
	}
	if entry != nil {
		result := &LookupResult{
			Display: entry.Display,
			Version: entry.Version,
		}
		if entry.Definition.Valid {
			result.Definition = entry.Definition.String
		}
		return result, nil
	}

	if strings.Contains(system, icdSystemMarker) {
		return l.findIcd(ctx, code), nil
	}

	slog.Default().Warn("code not found",
		"system", system,
		"code", code,
	)
	return nil, nil
}

// findIcd resolves code as an ICD entity id. Resolution failures degrade to
// not found.
func (l *Lookup) findIcd(ctx context.Context, entityID string) *LookupResult {
	entity, err := l.authority.ResolveEntity(ctx, entityID)
	if err != nil {
		slog.Default().Error("failed to look up ICD entity",
			"entityID", entityID,
			"error", err,
		)
		return nil
	}
	if entity == nil {
		return nil
	}
	return &LookupResult{
		Display:    entity.Title,
		Definition: entity.Definition,
	}
}
