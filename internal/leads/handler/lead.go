package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"gatherly/internal/leads/service"
	apperrors "gatherly/pkg/errors"
	httputil "gatherly/pkg/http"
	"gatherly/pkg/logger"
)

type LeadHandler struct {
	service service.LeadService
	log     *logger.Logger
}

func NewLeadHandler(service service.LeadService, log *logger.Logger) *LeadHandler {
	return &LeadHandler{
		service: service,
		log:     log,
	}
}

// SaveDraft is the questionnaire autosave endpoint. The same payload
// saved twice for the same (draftId, role) updates in place.
func (h *LeadHandler) SaveDraft(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input service.DraftInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	result, err := h.service.SaveDraft(r.Context(), input)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, result)
}

// Submit is the final one-shot submission endpoint.
func (h *LeadHandler) Submit(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input service.SubmissionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	lead, err := h.service.SubmitLead(r.Context(), input)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, lead)
}

// Report serves the admin aggregation with optional limit/offset
// pagination over the row listing.
func (h *LeadHandler) Report(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	limit := 0
	if limitStr := query.Get("limit"); limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil {
			httputil.WriteError(w, apperrors.InvalidInput(fmt.Sprintf("invalid limit parameter: %s", limitStr)))
			return
		}
	}

	var offset int64
	if offsetStr := query.Get("offset"); offsetStr != "" {
		var err error
		offset, err = strconv.ParseInt(offsetStr, 10, 64)
		if err != nil {
			httputil.WriteError(w, apperrors.InvalidInput(fmt.Sprintf("invalid offset parameter: %s", offsetStr)))
			return
		}
	}

	report, err := h.service.Report(r.Context(), limit, offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, report)
}

// Reset deletes every stored lead. Destructive; reachable only through
// the admin-authenticated router.
func (h *LeadHandler) Reset(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	deleted, err := h.service.Reset(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.log.Info("Admin reset executed", "deleted", deleted)
	httputil.WriteSuccess(w, map[string]int64{"deleted": deleted})
}

func (h *LeadHandler) RegisterPublicRoutes(router *httprouter.Router) {
	router.POST("/api/v1/leads/draft", h.SaveDraft)
	router.POST("/api/v1/leads", h.Submit)
}

func (h *LeadHandler) RegisterAdminRoutes(router *httprouter.Router) {
	router.GET("/api/v1/admin/leads", h.Report)
	router.DELETE("/api/v1/admin/leads", h.Reset)
}
