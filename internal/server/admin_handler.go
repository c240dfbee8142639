package server

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/mitrahealth/fhirterm/internal/audit"
	"github.com/mitrahealth/fhirterm/internal/fhir"
	"github.com/mitrahealth/fhirterm/internal/ingest"
	"github.com/mitrahealth/fhirterm/internal/terminology"
)

const (
	defaultHistorySize = 20
	maxUploadBytes     = 32 << 20
)

// AdminHandler serves the catalogue management and operations endpoints.
type AdminHandler struct {
	importer   *ingest.Importer
	codes      terminology.CodeRepository
	mappings   terminology.ConceptMapRepository
	recorder   audit.Recorder
	icdBaseURL string
	apiVersion string
}

func NewAdminHandler(
	importer *ingest.Importer,
	codes terminology.CodeRepository,
	mappings terminology.ConceptMapRepository,
	recorder audit.Recorder,
	icdBaseURL, apiVersion string,
) *AdminHandler {
	return &AdminHandler{
		importer:   importer,
		codes:      codes,
		mappings:   mappings,
		recorder:   recorder,
		icdBaseURL: icdBaseURL,
		apiVersion: apiVersion,
	}
}

type uploadResponse struct {
	Imported int             `json:"imported"`
	Failures []uploadFailure `json:"failures"`
}

type uploadFailure struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// UploadCodes handles POST /admin/upload/codes.
func (h *AdminHandler) UploadCodes(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, h.importer.ImportCodes)
}

// UploadConceptMaps handles POST /admin/upload/conceptmaps.
func (h *AdminHandler) UploadConceptMaps(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, h.importer.ImportMappings)
}

func (h *AdminHandler) upload(
	w http.ResponseWriter,
	r *http.Request,
	runImport func(ctx context.Context, reader io.Reader) (*ingest.Summary, error),
) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, fhir.NewErrorParameters("multipart form with a file field is required"))
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, fhir.NewErrorParameters("multipart form with a file field is required"))
		return
	}
	defer func() {
		_ = file.Close()
	}()

	summary, err := runImport(r.Context(), file)
	if err != nil {
		writeInternalError(w, "import CSV", err)
		return
	}

	response := uploadResponse{
		Imported: summary.Imported,
		Failures: make([]uploadFailure, 0, len(summary.Failures)),
	}
	for _, failure := range summary.Failures {
		response.Failures = append(response.Failures, uploadFailure{
			Line:   failure.Line,
			Reason: failure.Reason,
		})
	}
	writeJSON(w, http.StatusOK, response)
}

type historyResponse struct {
	Total   int64           `json:"total"`
	Page    int             `json:"page"`
	Size    int             `json:"size"`
	Records []historyRecord `json:"records"`
}

type historyRecord struct {
	SourceSystem string    `json:"sourceSystem"`
	SourceCode   string    `json:"sourceCode"`
	Result       string    `json:"result"`
	UserID       string    `json:"userId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// History handles GET /admin/history/translations.
func (h *AdminHandler) History(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	if h.recorder == nil {
		writeJSON(w, http.StatusNotFound, fhir.NewErrorParameters("translation history is disabled"))
		return
	}

	query := r.URL.Query()
	page, err := intParam(query.Get("page"), 0)
	if err != nil || page < 0 {
		writeJSON(w, http.StatusBadRequest, fhir.NewErrorParameters("page must be a non-negative integer"))
		return
	}
	size, err := intParam(query.Get("size"), defaultHistorySize)
	if err != nil || size < 1 {
		writeJSON(w, http.StatusBadRequest, fhir.NewErrorParameters("size must be a positive integer"))
		return
	}

	records, total, err := h.recorder.History(r.Context(), page, size)
	if err != nil {
		writeInternalError(w, "load translation history", err)
		return
	}

	response := historyResponse{
		Total:   total,
		Page:    page,
		Size:    size,
		Records: make([]historyRecord, 0, len(records)),
	}
	for _, record := range records {
		item := historyRecord{
			SourceSystem: record.SourceSystem,
			SourceCode:   record.SourceCode,
			Result:       record.Result,
			CreatedAt:    record.CreatedAt,
		}
		if record.UserID.Valid {
			item.UserID = record.UserID.String
		}
		response.Records = append(response.Records, item)
	}
	writeJSON(w, http.StatusOK, response)
}

type statsResponse struct {
	CodeEntries     int64 `json:"codeEntries"`
	ConceptMappings int64 `json:"conceptMappings"`
	Translations    int64 `json:"translations"`
}

// Stats handles GET /admin/stats.
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	var response statsResponse
	var err error
	if response.CodeEntries, err = h.codes.Count(r.Context()); err != nil {
		writeInternalError(w, "count code entries", err)
		return
	}
	if response.ConceptMappings, err = h.mappings.Count(r.Context()); err != nil {
		writeInternalError(w, "count concept mappings", err)
		return
	}
	if h.recorder != nil {
		if response.Translations, err = h.recorder.Count(r.Context()); err != nil {
			writeInternalError(w, "count translations", err)
			return
		}
	}
	writeJSON(w, http.StatusOK, response)
}

type systemInfoResponse struct {
	IcdBaseURL string    `json:"icdBaseUrl"`
	APIVersion string    `json:"apiVersion"`
	Timestamp  time.Time `json:"timestamp"`
}

// SystemInfo handles GET /admin/system-info.
func (h *AdminHandler) SystemInfo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, systemInfoResponse{
		IcdBaseURL: h.icdBaseURL,
		APIVersion: h.apiVersion,
		Timestamp:  time.Now().UTC(),
	})
}
