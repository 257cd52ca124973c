package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Anupam-Sing-h/leadflow-crm/internal/usecase"
)

type TemplateHandler struct {
	Templates *usecase.TemplateUseCase
}

func NewTemplateHandler(uc *usecase.TemplateUseCase) *TemplateHandler {
	return &TemplateHandler{Templates: uc}
}

func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	templates, err := h.Templates.ListTemplates(r.Context(), identity(r))
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, templates)
}

func (h *TemplateHandler) Get(w http.ResponseWriter, r *http.Request) {
	tpl, err := h.Templates.GetTemplate(r.Context(), identity(r), chi.URLParam(r, "id"))
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tpl)
}

// Preview (GET /api/templates/{id}/preview?lead_id=) fills the template for a lead.
func (h *TemplateHandler) Preview(w http.ResponseWriter, r *http.Request) {
	leadID := r.URL.Query().Get("lead_id")
	if leadID == "" {
		writeError(w, http.StatusBadRequest, "lead_id is required")
		return
	}

	msg, err := h.Templates.Preview(r.Context(), identity(r), chi.URLParam(r, "id"), leadID)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

func (h *TemplateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.TemplateInput
	if !decodeJSON(w, r, &input) {
		return
	}

	result, err := h.Templates.CreateTemplate(r.Context(), identity(r), input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *TemplateHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input usecase.TemplateInput
	if !decodeJSON(w, r, &input) {
		return
	}

	result, err := h.Templates.UpdateTemplate(r.Context(), identity(r), chi.URLParam(r, "id"), input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *TemplateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	result, err := h.Templates.DeleteTemplate(r.Context(), identity(r), chi.URLParam(r, "id"))
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
