// Package server exposes the terminology operations and the admin surface
// over HTTP.
package server

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mitrahealth/fhirterm/internal/audit"
	"github.com/mitrahealth/fhirterm/internal/fhir"
	"github.com/mitrahealth/fhirterm/internal/terminology"
)

const (
	defaultExpandCount = 10
	userIDHeader       = "X-User-Id"
)

// FHIRHandler serves the ConceptMap, ValueSet and CodeSystem operations.
// recorder may be nil, in which case no translation history is kept.
type FHIRHandler struct {
	translator         *terminology.Translator
	expander           *terminology.Expander
	lookup             *terminology.Lookup
	recorder           audit.Recorder
	defaultValueSetURL string
}

func NewFHIRHandler(
	translator *terminology.Translator,
	expander *terminology.Expander,
	lookup *terminology.Lookup,
	recorder audit.Recorder,
	defaultValueSetURL string,
) *FHIRHandler {
	return &FHIRHandler{
		translator:         translator,
		expander:           expander,
		lookup:             lookup,
		recorder:           recorder,
		defaultValueSetURL: defaultValueSetURL,
	}
}

// Translate handles GET and POST /fhir/ConceptMap/$translate.
func (h *FHIRHandler) Translate(w http.ResponseWriter, r *http.Request) {
	var system, code, targetSystem string
	switch r.Method {
	case http.MethodGet:
		query := r.URL.Query()
		system = query.Get("system")
		code = query.Get("code")
		targetSystem = query.Get("targetSystem")
	case http.MethodPost:
		var parameters fhir.Parameters
		if err := json.NewDecoder(r.Body).Decode(&parameters); err != nil {
			writeJSON(w, http.StatusBadRequest, fhir.NewErrorParameters("request body is not a Parameters resource"))
			return
		}
		for _, parameter := range parameters.Parameter {
			switch parameter.Name {
			case "system":
				system = parameter.ValueString
			case "code":
				code = parameter.ValueString
			case "targetSystem":
				targetSystem = parameter.ValueString
			case "coding":
				if parameter.ValueCoding != nil {
					system = parameter.ValueCoding.System
					code = parameter.ValueCoding.Code
				}
			}
		}
	default:
		writeMethodNotAllowed(w)
		return
	}

	if system == "" || code == "" {
		writeJSON(w, http.StatusBadRequest, fhir.NewErrorParameters("system and code parameters are required"))
		return
	}

	result, err := h.translator.Translate(r.Context(), system, code, targetSystem)
	if err != nil {
		writeInternalError(w, "translate concept", err)
		return
	}
	rendered := fhir.RenderTranslation(&result)
	h.recordTranslation(r, system, code, rendered)
	writeJSON(w, http.StatusOK, rendered)
}

// Expand handles GET /fhir/ValueSet/$expand.
func (h *FHIRHandler) Expand(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	query := r.URL.Query()
	count, err := intParam(query.Get("count"), defaultExpandCount)
	if err != nil || count < 1 {
		writeJSON(w, http.StatusBadRequest, fhir.NewErrorParameters("count must be a positive integer"))
		return
	}
	offset, err := intParam(query.Get("offset"), 0)
	if err != nil || offset < 0 {
		writeJSON(w, http.StatusBadRequest, fhir.NewErrorParameters("offset must be a non-negative integer"))
		return
	}

	url := query.Get("url")
	page, err := h.expander.Expand(r.Context(), url, query.Get("filter"), count, offset)
	if err != nil {
		writeInternalError(w, "expand value set", err)
		return
	}
	if url == "" {
		url = h.defaultValueSetURL
	}
	writeJSON(w, http.StatusOK, fhir.RenderExpansion(url, &page))
}

// LookupCode handles GET /fhir/CodeSystem/$lookup.
func (h *FHIRHandler) LookupCode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	query := r.URL.Query()
	system := query.Get("system")
	code := query.Get("code")
	if system == "" || code == "" {
		writeJSON(w, http.StatusBadRequest, fhir.NewErrorParameters("system and code parameters are required"))
		return
	}

	result, err := h.lookup.Find(r.Context(), system, code, query.Get("version"))
	if err != nil {
		writeInternalError(w, "look up code", err)
		return
	}
	if result == nil {
		writeJSON(w, http.StatusNotFound, fhir.NewErrorParameters(fmt.Sprintf("code %s not found in %s", code, system)))
		return
	}
	writeJSON(w, http.StatusOK, fhir.RenderLookup(result))
}

// recordTranslation stores the served response when history is kept. Storage
// failures are logged and never fail the call.
func (h *FHIRHandler) recordTranslation(r *http.Request, system, code string, rendered *fhir.Parameters) {
	if h.recorder == nil {
		return
	}

	encoded, err := json.Marshal(rendered)
	if err != nil {
		slog.Default().Error("failed to encode translation record", "error", err)
		return
	}
	record := &audit.TranslationRecord{
		SourceSystem: system,
		SourceCode:   code,
		Result:       string(encoded),
	}
	if userID := r.Header.Get(userIDHeader); userID != "" {
		record.UserID = sql.NullString{String: userID, Valid: true}
	}
	if err := h.recorder.Record(r.Context(), record); err != nil {
		slog.Default().Error("failed to record translation",
			"system", system,
			"code", code,
			"error", err,
		)
	}
}

func intParam(value string, fallback int) (int, error) {
	if value == "" {
		return fallback, nil
	}
	return strconv.Atoi(value)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Default().Error("failed to write response", "error", err)
	}
}

func writeMethodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, fhir.NewErrorParameters("method not allowed"))
}

func writeInternalError(w http.ResponseWriter, operation string, err error) {
	slog.Default().Error("request failed", "operation", operation, "error", err)
	writeJSON(w, http.StatusInternalServerError, fhir.NewErrorParameters("internal server error"))
}
