package server_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mitrahealth/fhirterm/internal/audit"
	"github.com/mitrahealth/fhirterm/internal/fhir"
	mock_audit "github.com/mitrahealth/fhirterm/internal/mocks/audit"
	mock_terminology "github.com/mitrahealth/fhirterm/internal/mocks/terminology"
	"github.com/mitrahealth/fhirterm/internal/server"
	"github.com/mitrahealth/fhirterm/internal/terminology"
)

const (
	namasteURI = "http://namaste.gov.in/codes"
	icdURI     = "http://id.who.int/icd/release/11/mms"
)

type handlerMocks struct {
	codes     *mock_terminology.MockCodeRepository
	mappings  *mock_terminology.MockConceptMapRepository
	authority *mock_terminology.MockAuthority
	recorder  *mock_audit.MockRecorder
}

func newFHIRHandler(t *testing.T, withRecorder bool) (*server.FHIRHandler, handlerMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mocks := handlerMocks{
		codes:     mock_terminology.NewMockCodeRepository(ctrl),
		mappings:  mock_terminology.NewMockConceptMapRepository(ctrl),
		authority: mock_terminology.NewMockAuthority(ctrl),
	}

	var recorder audit.Recorder
	if withRecorder {
		mocks.recorder = mock_audit.NewMockRecorder(ctrl)
		recorder = mocks.recorder
	}

	handler := server.NewFHIRHandler(
		terminology.NewTranslator(mocks.mappings, mocks.authority, icdURI),
		terminology.NewExpander(mocks.codes, mocks.authority, icdURI),
		terminology.NewLookup(mocks.codes, mocks.authority),
		recorder,
		namasteURI,
	)
	return handler, mocks
}

func decodeParameters(t *testing.T, body string) fhir.Parameters {
	t.Helper()
	var parameters fhir.Parameters
	require.NoError(t, json.Unmarshal([]byte(body), &parameters))
	return parameters
}

func parameterValue(parameters fhir.Parameters, name string) string {
	for _, parameter := range parameters.Parameter {
		if parameter.Name == name {
			return parameter.ValueString
		}
	}
	return ""
}

func TestFHIRHandlerTranslate(t *testing.T) {
	t.Run("GET with a stored mapping", func(t *testing.T) {
		handler, mocks := newFHIRHandler(t, false)
		mocks.mappings.EXPECT().FindBySource(gomock.Any(), namasteURI, "NAM001").Return([]terminology.ConceptMapping{
			{
				SourceSystem:    namasteURI,
				SourceCode:      "NAM001",
				TargetSystem:    icdURI,
				TargetCodeOrURI: "SK25",
				Equivalence:     terminology.EquivalenceEquivalent,
			},
		}, nil)

		recorder := httptest.NewRecorder()
		handler.Translate(recorder, httptest.NewRequest(http.MethodGet,
			"/fhir/ConceptMap/$translate?system="+namasteURI+"&code=NAM001&targetSystem="+icdURI, nil))

		require.Equal(t, http.StatusOK, recorder.Code)
		parameters := decodeParameters(t, recorder.Body.String())
		assert.Equal(t, "true", parameterValue(parameters, "result"))
	})

	t.Run("POST with a Parameters body", func(t *testing.T) {
		handler, mocks := newFHIRHandler(t, false)
		mocks.mappings.EXPECT().FindBySource(gomock.Any(), namasteURI, "NAM001").Return(nil, nil)
		mocks.authority.EXPECT().SearchEntities(gomock.Any(), "NAM001").Return([]terminology.Entity{
			{Code: "SK25", Title: "Vata disorder"},
		}, nil)

		body := `{
			"resourceType": "Parameters",
			"parameter": [
				{"name": "system", "valueString": "` + namasteURI + `"},
				{"name": "code", "valueString": "NAM001"}
			]
		}`
		recorder := httptest.NewRecorder()
		handler.Translate(recorder, httptest.NewRequest(http.MethodPost, "/fhir/ConceptMap/$translate", strings.NewReader(body)))

		require.Equal(t, http.StatusOK, recorder.Code)
		parameters := decodeParameters(t, recorder.Body.String())
		assert.Equal(t, "false", parameterValue(parameters, "result"))
		require.Len(t, parameters.Parameter, 2)
		assert.Equal(t, "match", parameters.Parameter[1].Name)
	})

	t.Run("missing code is rejected", func(t *testing.T) {
		handler, _ := newFHIRHandler(t, false)

		recorder := httptest.NewRecorder()
		handler.Translate(recorder, httptest.NewRequest(http.MethodGet,
			"/fhir/ConceptMap/$translate?system="+namasteURI, nil))

		require.Equal(t, http.StatusBadRequest, recorder.Code)
		parameters := decodeParameters(t, recorder.Body.String())
		assert.Equal(t, "false", parameterValue(parameters, "result"))
		assert.Contains(t, parameterValue(parameters, "message"), "required")
	})

	t.Run("storage failure", func(t *testing.T) {
		handler, mocks := newFHIRHandler(t, false)
		mocks.mappings.EXPECT().FindBySource(gomock.Any(), namasteURI, "NAM001").
			Return(nil, errors.New("connection refused"))

		recorder := httptest.NewRecorder()
		handler.Translate(recorder, httptest.NewRequest(http.MethodGet,
			"/fhir/ConceptMap/$translate?system="+namasteURI+"&code=NAM001", nil))

		assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	})

	t.Run("records history with the calling user", func(t *testing.T) {
		handler, mocks := newFHIRHandler(t, true)
		mocks.mappings.EXPECT().FindBySource(gomock.Any(), namasteURI, "NAM001").Return([]terminology.ConceptMapping{
			{TargetSystem: icdURI, TargetCodeOrURI: "SK25", Equivalence: terminology.EquivalenceEquivalent},
		}, nil)
		mocks.recorder.EXPECT().Record(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, record *audit.TranslationRecord) error {
				assert.Equal(t, namasteURI, record.SourceSystem)
				assert.Equal(t, "NAM001", record.SourceCode)
				assert.Equal(t, sql.NullString{String: "curator", Valid: true}, record.UserID)
				assert.Contains(t, record.Result, `"result"`)
				return nil
			})

		request := httptest.NewRequest(http.MethodGet,
			"/fhir/ConceptMap/$translate?system="+namasteURI+"&code=NAM001", nil)
		request.Header.Set("X-User-Id", "curator")

		recorder := httptest.NewRecorder()
		handler.Translate(recorder, request)
		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("recording failure does not fail the call", func(t *testing.T) {
		handler, mocks := newFHIRHandler(t, true)
		mocks.mappings.EXPECT().FindBySource(gomock.Any(), namasteURI, "NAM001").Return(nil, nil)
		mocks.authority.EXPECT().SearchEntities(gomock.Any(), "NAM001").Return(nil, nil)
		mocks.recorder.EXPECT().Record(gomock.Any(), gomock.Any()).Return(errors.New("history table missing"))

		recorder := httptest.NewRecorder()
		handler.Translate(recorder, httptest.NewRequest(http.MethodGet,
			"/fhir/ConceptMap/$translate?system="+namasteURI+"&code=NAM001", nil))

		assert.Equal(t, http.StatusOK, recorder.Code)
	})
}

func TestFHIRHandlerExpand(t *testing.T) {
	t.Run("renders a value set with the default url", func(t *testing.T) {
		handler, mocks := newFHIRHandler(t, false)
		mocks.codes.EXPECT().FindPage(gomock.Any(), 0, 10).Return([]terminology.CodeEntry{
			{SystemURI: namasteURI, Code: "NAM001", Display: "Vata disorder"},
		}, 1, nil)

		recorder := httptest.NewRecorder()
		handler.Expand(recorder, httptest.NewRequest(http.MethodGet, "/fhir/ValueSet/$expand", nil))

		require.Equal(t, http.StatusOK, recorder.Code)
		var valueSet fhir.ValueSet
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &valueSet))
		assert.Equal(t, "ValueSet", valueSet.ResourceType)
		assert.Equal(t, namasteURI, valueSet.URL)
		assert.Equal(t, 1, valueSet.Expansion.Total)
		require.Len(t, valueSet.Expansion.Contains, 1)
		assert.Equal(t, "NAM001", valueSet.Expansion.Contains[0].Code)
	})

	t.Run("passes filter, count and offset through", func(t *testing.T) {
		handler, mocks := newFHIRHandler(t, false)
		mocks.codes.EXPECT().FindFiltered(gomock.Any(), "", "vata", 2, 5).Return([]terminology.CodeEntry{
			{SystemURI: namasteURI, Code: "NAM001", Display: "Vata disorder"},
			{SystemURI: namasteURI, Code: "NAM002", Display: "Vata imbalance"},
			{SystemURI: namasteURI, Code: "NAM003", Display: "Vataja fever"},
			{SystemURI: namasteURI, Code: "NAM004", Display: "Vata arthritis"},
			{SystemURI: namasteURI, Code: "NAM005", Display: "Vata headache"},
		}, 15, nil)

		recorder := httptest.NewRecorder()
		handler.Expand(recorder, httptest.NewRequest(http.MethodGet,
			"/fhir/ValueSet/$expand?filter=vata&count=5&offset=10", nil))

		require.Equal(t, http.StatusOK, recorder.Code)
		var valueSet fhir.ValueSet
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &valueSet))
		assert.Equal(t, 15, valueSet.Expansion.Total)
		assert.Equal(t, 10, valueSet.Expansion.Offset)
	})

	t.Run("non-positive count is rejected", func(t *testing.T) {
		handler, _ := newFHIRHandler(t, false)

		recorder := httptest.NewRecorder()
		handler.Expand(recorder, httptest.NewRequest(http.MethodGet, "/fhir/ValueSet/$expand?count=0", nil))

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestFHIRHandlerLookupCode(t *testing.T) {
	t.Run("found locally", func(t *testing.T) {
		handler, mocks := newFHIRHandler(t, false)
		mocks.codes.EXPECT().FindBySystemAndCode(gomock.Any(), namasteURI, "NAM001").Return(&terminology.CodeEntry{
			SystemURI: namasteURI,
			Code:      "NAM001",
			Display:   "Vata disorder",
			Version:   "2.1",
		}, nil)

		recorder := httptest.NewRecorder()
		handler.LookupCode(recorder, httptest.NewRequest(http.MethodGet,
			"/fhir/CodeSystem/$lookup?system="+namasteURI+"&code=NAM001", nil))

		require.Equal(t, http.StatusOK, recorder.Code)
		parameters := decodeParameters(t, recorder.Body.String())
		assert.Equal(t, "Vata disorder", parameterValue(parameters, "display"))
		assert.Equal(t, "2.1", parameterValue(parameters, "version"))
	})

	t.Run("unknown code yields 404", func(t *testing.T) {
		handler, mocks := newFHIRHandler(t, false)
		mocks.codes.EXPECT().FindBySystemAndCode(gomock.Any(), namasteURI, "MISSING").Return(nil, nil)

		recorder := httptest.NewRecorder()
		handler.LookupCode(recorder, httptest.NewRequest(http.MethodGet,
			"/fhir/CodeSystem/$lookup?system="+namasteURI+"&code=MISSING", nil))

		require.Equal(t, http.StatusNotFound, recorder.Code)
		parameters := decodeParameters(t, recorder.Body.String())
		assert.Equal(t, "false", parameterValue(parameters, "result"))
	})

	t.Run("missing parameters are rejected", func(t *testing.T) {
		handler, _ := newFHIRHandler(t, false)

		recorder := httptest.NewRecorder()
		handler.LookupCode(recorder, httptest.NewRequest(http.MethodGet, "/fhir/CodeSystem/$lookup", nil))

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}
