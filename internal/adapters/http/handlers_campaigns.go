package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) campaignByID(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Access token is required")
		return
	}

	campaignID := chi.URLParam(r, "campaignId")
	campaign, err := h.service.CampaignByID(r.Context(), identity, campaignID)
	if err != nil {
		writeMappedError(r.Context(), w, "get_campaign", err)
		return
	}
	writeSuccess(w, http.StatusOK, json.RawMessage(campaign))
}

func (h *Handler) surveyResults(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Access token is required")
		return
	}

	campaignID := chi.URLParam(r, "campaignId")
	results, err := h.service.SurveyResults(r.Context(), identity, campaignID)
	if err != nil {
		writeMappedError(r.Context(), w, "get_survey_results", err)
		return
	}
	writeSuccess(w, http.StatusOK, json.RawMessage(results))
}
