package terminology

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Expander produces a filtered, paginated view of the catalogue, padding a
// short page with ICD-11 search results.
type Expander struct {
	codes        CodeRepository
	authority    Authority
	icdSystemURI string
}

// NewExpander creates a new Expander.
func NewExpander(codes CodeRepository, authority Authority, icdSystemURI string) *Expander {
	return &Expander{
		codes:        codes,
		authority:    authority,
		icdSystemURI: icdSystemURI,
	}
}

// Expand returns one page of codes matching filter. The page is addressed as
// offset/count using integer division, so offsets that are not multiples of
// count snap to the enclosing page. systemURI narrows a filtered query only;
// without a filter the full catalogue is paged. Total counts local matches
// only. When the filtered local page is short of count, ICD search results
// fill the remainder without being counted in Total.
func (e *Expander) Expand(ctx context.Context, systemURI, filter string, count, offset int) (ExpansionPage, error) {
	if count < 1 {
		return ExpansionPage{}, fmt.Errorf("count must be positive, got %d", count)
	}
	page := offset / count

	var (
		entries []CodeEntry
		total   int
		err     error
	)
	filtered := strings.TrimSpace(filter) != ""
	if filtered {
		entries, total, err = e.codes.FindFiltered(ctx, systemURI, filter, page, count)
	} else {
		entries, total, err = e.codes.FindPage(ctx, page, count)
	}
	if err != nil {
		return ExpansionPage{}, fmt.Errorf("load catalogue page: %w", err)
	}

	items := make([]ExpansionItem, 0, count)
	for _, entry := range entries {
		items = append(items, ExpansionItem{
			System:  entry.SystemURI,
			Code:    entry.Code,
			Display: entry.Display,
		})
	}

	if filtered && len(items) < count {
		items = append(items, e.icdAugment(ctx, filter, count-len(items))...)
	}

	slog.Default().Info("expanded value set",
		"filter", filter,
		"total", total,
		"items", len(items),
	)
	return ExpansionPage{Total: total, Offset: offset, Items: items}, nil
}

// icdAugment returns up to remaining search results mapped onto the ICD
// system URI. Search failures degrade to zero items.
func (e *Expander) icdAugment(ctx context.Context, filter string, remaining int) []ExpansionItem {
	results, err := e.authority.SearchEntities(ctx, filter)
	if err != nil {
		slog.Default().Warn("failed to augment with ICD results",
			"filter", filter,
			"error", err,
		)
		return nil
	}
	if len(results) > remaining {
		results = results[:remaining]
	}

	items := make([]ExpansionItem, 0, len(results))
	for _, entity := range results {
		items = append(items, ExpansionItem{
			System:  e.icdSystemURI,
			Code:    entity.Code,
			Display: entity.Title,
		})
	}
	return items
}
