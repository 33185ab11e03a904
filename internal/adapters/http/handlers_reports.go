package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/askyazi/campaign-gateway/internal/domain"
)

func (h *Handler) submitReport(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Access token is required")
		return
	}

	spec, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		logHTTPOperationError(r.Context(), "submit_report", http.StatusBadRequest, "unreadable request body", err)
		writeError(w, http.StatusBadRequest, "Report data is required")
		return
	}

	job, err := h.service.SubmitReport(r.Context(), identity, json.RawMessage(spec))
	if err != nil {
		writeMappedError(r.Context(), w, "submit_report", err)
		return
	}
	writeSuccess(w, http.StatusOK, job)
}

func (h *Handler) reportStatus(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Access token is required")
		return
	}

	query := r.URL.Query()
	filename := query.Get("filename")

	// wait=true blocks until the job reaches a terminal state or the
	// attempt budget runs out; the default is a single status check.
	var job domain.ReportJob
	var err error
	if query.Get("wait") == "true" {
		job, err = h.service.AwaitReport(r.Context(), identity, filename)
	} else {
		job, err = h.service.ReportStatus(r.Context(), identity, filename)
	}
	if err != nil {
		writeMappedError(r.Context(), w, "report_status", err)
		return
	}
	writeSuccess(w, http.StatusOK, job)
}
