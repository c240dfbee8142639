package terminology_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mock_terminology "github.com/mitrahealth/fhirterm/internal/mocks/terminology"
	"github.com/mitrahealth/fhirterm/internal/terminology"
)

const icdURI = "http://id.who.int/icd/release/11/mms"

func TestTranslatorTranslate(t *testing.T) {
	tests := []struct {
		name         string
		sourceSystem string
		sourceCode   string
		targetSystem string
		setup        func(mappings *mock_terminology.MockConceptMapRepository, authority *mock_terminology.MockAuthority)
		want         terminology.TranslationResult
		wantErr      bool
	}{
		{
			name:         "stored mapping wins and suppresses the search",
			sourceSystem: "http://namaste.gov.in/codes",
			sourceCode:   "NAM001",
			setup: func(mappings *mock_terminology.MockConceptMapRepository, authority *mock_terminology.MockAuthority) {
				mappings.EXPECT().FindBySource(gomock.Any(), "http://namaste.gov.in/codes", "NAM001").
					Return([]terminology.ConceptMapping{
						{
							SourceSystem:    "http://namaste.gov.in/codes",
							SourceCode:      "NAM001",
							TargetSystem:    icdURI,
							TargetCodeOrURI: "XYZ1",
							Equivalence:     terminology.EquivalenceEquivalent,
						},
					}, nil)
			},
			want: terminology.TranslationResult{
				Found: true,
				Matches: []terminology.TranslationMatch{
					{
						Equivalence: "equivalent",
						Concept:     terminology.Coding{System: icdURI, Code: "XYZ1"},
					},
				},
			},
		},
		{
			name:         "mapping comment is carried over",
			sourceSystem: "http://namaste.gov.in/codes",
			sourceCode:   "NAM002",
			setup: func(mappings *mock_terminology.MockConceptMapRepository, authority *mock_terminology.MockAuthority) {
				mappings.EXPECT().FindBySource(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]terminology.ConceptMapping{
						{
							TargetSystem:    icdURI,
							TargetCodeOrURI: "AB12",
							Equivalence:     terminology.EquivalenceWider,
							Comment:         sql.NullString{String: "approximate", Valid: true},
						},
					}, nil)
			},
			want: terminology.TranslationResult{
				Found: true,
				Matches: []terminology.TranslationMatch{
					{
						Equivalence: "wider",
						Concept:     terminology.Coding{System: icdURI, Code: "AB12"},
						Comment:     "approximate",
					},
				},
			},
		},
		{
			name:         "target system filter drops non-matching mappings and falls back to search",
			sourceSystem: "http://namaste.gov.in/codes",
			sourceCode:   "NAM003",
			targetSystem: icdURI,
			setup: func(mappings *mock_terminology.MockConceptMapRepository, authority *mock_terminology.MockAuthority) {
				mappings.EXPECT().FindBySource(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]terminology.ConceptMapping{
						{TargetSystem: "http://snomed.info/sct", TargetCodeOrURI: "123", Equivalence: terminology.EquivalenceEqual},
					}, nil)
				authority.EXPECT().SearchEntities(gomock.Any(), "NAM003").
					Return([]terminology.Entity{{Code: "CA01", Title: "Cholera"}}, nil)
			},
			want: terminology.TranslationResult{
				Found: false,
				Matches: []terminology.TranslationMatch{
					{
						Equivalence: "relatedto",
						Concept:     terminology.Coding{System: icdURI, Code: "CA01", Display: "Cholera"},
						Comment:     "Candidate match from ICD search - requires review",
					},
				},
			},
		},
		{
			name:         "search candidates are capped at five",
			sourceSystem: "http://namaste.gov.in/codes",
			sourceCode:   "fever",
			setup: func(mappings *mock_terminology.MockConceptMapRepository, authority *mock_terminology.MockAuthority) {
				mappings.EXPECT().FindBySource(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, nil)
				entities := make([]terminology.Entity, 8)
				for i := range entities {
					entities[i] = terminology.Entity{Code: fmt.Sprintf("C%d", i), Title: fmt.Sprintf("Result %d", i)}
				}
				authority.EXPECT().SearchEntities(gomock.Any(), "fever").Return(entities, nil)
			},
			want: terminology.TranslationResult{
				Found: false,
				Matches: []terminology.TranslationMatch{
					{Equivalence: "relatedto", Concept: terminology.Coding{System: icdURI, Code: "C0", Display: "Result 0"}, Comment: "Candidate match from ICD search - requires review"},
					{Equivalence: "relatedto", Concept: terminology.Coding{System: icdURI, Code: "C1", Display: "Result 1"}, Comment: "Candidate match from ICD search - requires review"},
					{Equivalence: "relatedto", Concept: terminology.Coding{System: icdURI, Code: "C2", Display: "Result 2"}, Comment: "Candidate match from ICD search - requires review"},
					{Equivalence: "relatedto", Concept: terminology.Coding{System: icdURI, Code: "C3", Display: "Result 3"}, Comment: "Candidate match from ICD search - requires review"},
					{Equivalence: "relatedto", Concept: terminology.Coding{System: icdURI, Code: "C4", Display: "Result 4"}, Comment: "Candidate match from ICD search - requires review"},
				},
			},
		},
		{
			name:         "non-ICD target system skips the search entirely",
			sourceSystem: "http://namaste.gov.in/codes",
			sourceCode:   "UNKNOWN",
			targetSystem: "http://snomed.info/sct",
			setup: func(mappings *mock_terminology.MockConceptMapRepository, authority *mock_terminology.MockAuthority) {
				mappings.EXPECT().FindBySource(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, nil)
			},
			want: terminology.TranslationResult{Found: false, Matches: nil},
		},
		{
			name:         "search failure degrades to zero candidates",
			sourceSystem: "http://namaste.gov.in/codes",
			sourceCode:   "UNKNOWN",
			setup: func(mappings *mock_terminology.MockConceptMapRepository, authority *mock_terminology.MockAuthority) {
				mappings.EXPECT().FindBySource(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, nil)
				authority.EXPECT().SearchEntities(gomock.Any(), "UNKNOWN").
					Return(nil, fmt.Errorf("connection refused"))
			},
			want: terminology.TranslationResult{Found: false, Matches: nil},
		},
		{
			name:         "storage failure propagates",
			sourceSystem: "http://namaste.gov.in/codes",
			sourceCode:   "NAM001",
			setup: func(mappings *mock_terminology.MockConceptMapRepository, authority *mock_terminology.MockAuthority) {
				mappings.EXPECT().FindBySource(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, fmt.Errorf("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mappings := mock_terminology.NewMockConceptMapRepository(ctrl)
			authority := mock_terminology.NewMockAuthority(ctrl)
			tt.setup(mappings, authority)

			translator := terminology.NewTranslator(mappings, authority, icdURI)
			got, err := translator.Translate(context.Background(), tt.sourceSystem, tt.sourceCode, tt.targetSystem)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
