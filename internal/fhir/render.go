package fhir

import (
	"strconv"

	"github.com/mitrahealth/fhirterm/internal/terminology"
)

// RenderTranslation converts a translation outcome into a Parameters resource.
// The match parameters appear only when the engine produced matches.
func RenderTranslation(result *terminology.TranslationResult) *Parameters {
	parameters := []Parameter{
		{Name: "result", ValueString: strconv.FormatBool(result.Found)},
	}
	for _, match := range result.Matches {
		parts := []Parameter{
			{Name: "equivalence", ValueString: match.Equivalence},
			{
				Name: "concept",
				ValueCoding: &Coding{
					System:  match.Concept.System,
					Code:    match.Concept.Code,
					Display: match.Concept.Display,
				},
			},
		}
		if match.Comment != "" {
			parts = append(parts, Parameter{Name: "comment", ValueString: match.Comment})
		}
		parameters = append(parameters, Parameter{Name: "match", Part: parts})
	}
	return NewParameters(parameters...)
}

// RenderLookup converts a lookup outcome into a Parameters resource. Empty
// definition and version are omitted entirely.
func RenderLookup(result *terminology.LookupResult) *Parameters {
	parameters := []Parameter{
		{Name: "display", ValueString: result.Display},
	}
	if result.Definition != "" {
		parameters = append(parameters, Parameter{Name: "definition", ValueString: result.Definition})
	}
	if result.Version != "" {
		parameters = append(parameters, Parameter{Name: "version", ValueString: result.Version})
	}
	return NewParameters(parameters...)
}

// RenderExpansion converts an expansion page into a ValueSet resource.
func RenderExpansion(url string, page *terminology.ExpansionPage) *ValueSet {
	contains := make([]Contains, 0, len(page.Items))
	for _, item := range page.Items {
		contains = append(contains, Contains{
			System:  item.System,
			Code:    item.Code,
			Display: item.Display,
		})
	}
	return &ValueSet{
		ResourceType: "ValueSet",
		URL:          url,
		Expansion: Expansion{
			Total:    page.Total,
			Offset:   page.Offset,
			Contains: contains,
		},
	}
}
