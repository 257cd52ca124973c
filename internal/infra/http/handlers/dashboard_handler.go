package handlers

import (
	"net/http"

	"github.com/Anupam-Sing-h/leadflow-crm/internal/usecase"
)

type DashboardHandler struct {
	Dashboard *usecase.DashboardUseCase
}

func NewDashboardHandler(uc *usecase.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{Dashboard: uc}
}

func (h *DashboardHandler) Admin(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.Dashboard.AdminMetrics(r.Context(), identity(r))
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, metrics)
}

func (h *DashboardHandler) Rep(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.Dashboard.RepMetrics(r.Context(), identity(r))
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, metrics)
}
