package handlers

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Anupam-Sing-h/leadflow-crm/internal/usecase"
)

type PipelineHandler struct {
	Pipeline *usecase.PipelineUseCase
}

func NewPipelineHandler(uc *usecase.PipelineUseCase) *PipelineHandler {
	return &PipelineHandler{Pipeline: uc}
}

// The settings form posts order_index as text; anything unparseable is 0.
type stageRequest struct {
	Name       string          `json:"name"`
	OrderIndex json.RawMessage `json:"order_index"`
}

func (req stageRequest) input() usecase.StageInput {
	return usecase.StageInput{Name: req.Name, OrderIndex: parseOrderIndex(req.OrderIndex)}
}

func parseOrderIndex(raw json.RawMessage) int {
	v := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return int(f)
	}
	return 0
}

func (h *PipelineHandler) ListStages(w http.ResponseWriter, r *http.Request) {
	stages, err := h.Pipeline.ListStages(r.Context())
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stages)
}

// Board (GET /api/pipeline) returns the kanban columns visible to the caller.
func (h *PipelineHandler) Board(w http.ResponseWriter, r *http.Request) {
	board, err := h.Pipeline.Board(r.Context(), identity(r))
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

func (h *PipelineHandler) CreateStage(w http.ResponseWriter, r *http.Request) {
	var req stageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.Pipeline.CreateStage(r.Context(), identity(r), req.input())
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *PipelineHandler) UpdateStage(w http.ResponseWriter, r *http.Request) {
	var req stageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.Pipeline.UpdateStage(r.Context(), identity(r), chi.URLParam(r, "id"), req.input())
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *PipelineHandler) DeleteStage(w http.ResponseWriter, r *http.Request) {
	result, err := h.Pipeline.DeleteStage(r.Context(), identity(r), chi.URLParam(r, "id"))
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
