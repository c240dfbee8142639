package server

import "net/http"

// NewMux registers every FHIR and admin route on a fresh mux.
func NewMux(fhirHandler *FHIRHandler, adminHandler *AdminHandler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/fhir/ConceptMap/$translate", fhirHandler.Translate)
	mux.HandleFunc("/fhir/ValueSet/$expand", fhirHandler.Expand)
	mux.HandleFunc("/fhir/CodeSystem/$lookup", fhirHandler.LookupCode)

	mux.HandleFunc("/admin/upload/codes", adminHandler.UploadCodes)
	mux.HandleFunc("/admin/upload/conceptmaps", adminHandler.UploadConceptMaps)
	mux.HandleFunc("/admin/history/translations", adminHandler.History)
	mux.HandleFunc("/admin/stats", adminHandler.Stats)
	mux.HandleFunc("/admin/system-info", adminHandler.SystemInfo)
	return mux
}
