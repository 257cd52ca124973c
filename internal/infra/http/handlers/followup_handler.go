package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Anupam-Sing-h/leadflow-crm/internal/usecase"
)

type FollowupHandler struct {
	Followups *usecase.FollowupUseCase
}

func NewFollowupHandler(uc *usecase.FollowupUseCase) *FollowupHandler {
	return &FollowupHandler{Followups: uc}
}

// due_date arrives either as a plain date from the date picker or as RFC3339.
type followupRequest struct {
	DueDate string `json:"due_date"`
}

// Create (POST /api/leads/{id}/followups)
func (h *FollowupHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req followupRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	due, ok := parseDate(req.DueDate, h.Followups.Location)
	if !ok {
		writeError(w, http.StatusBadRequest, "due_date is required")
		return
	}

	result, err := h.Followups.CreateFollowup(r.Context(), identity(r), chi.URLParam(r, "id"), usecase.FollowupInput{DueDate: due})
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// UpdateStatus (PATCH /api/followups/{id})
func (h *FollowupHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.Followups.UpdateFollowupStatus(r.Context(), identity(r), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ListMine (GET /api/rep/followups)
func (h *FollowupHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	followups, err := h.Followups.ListRepFollowups(r.Context(), identity(r))
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, followups)
}
