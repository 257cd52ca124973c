package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Anupam-Sing-h/leadflow-crm/internal/entity"
	"github.com/Anupam-Sing-h/leadflow-crm/internal/infra/http/middleware"
	"github.com/Anupam-Sing-h/leadflow-crm/internal/usecase"
)

const (
	maxImportSize  = 10 << 20
	exportFilename = "leads_export.csv"
)

type LeadHandler struct {
	Leads    *usecase.LeadUseCase
	Transfer *usecase.ImportExportUseCase
	// Location resolves date-only filters; it should match the dashboards' zone.
	Location *time.Location
}

func NewLeadHandler(leads *usecase.LeadUseCase, transfer *usecase.ImportExportUseCase, loc *time.Location) *LeadHandler {
	if loc == nil {
		loc = time.Local
	}
	return &LeadHandler{Leads: leads, Transfer: transfer, Location: loc}
}

type statusRequest struct {
	Status string `json:"status"`
}

// List (GET /api/leads)
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	leads, err := h.Leads.ListLeads(r.Context(), identity(r), leadFilter(r, h.Location))
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, leads)
}

func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	lead, err := h.Leads.GetLead(r.Context(), identity(r), chi.URLParam(r, "id"))
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

// Score (GET /api/leads/{id}/score)
func (h *LeadHandler) Score(w http.ResponseWriter, r *http.Request) {
	lead, err := h.Leads.GetLead(r.Context(), identity(r), chi.URLParam(r, "id"))
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lead.Quality)
}

func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.LeadInput
	if !decodeJSON(w, r, &input) {
		return
	}

	result, err := h.Leads.CreateLead(r.Context(), identity(r), input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	middleware.RecordLeadsCreated("form", 1)
	writeJSON(w, http.StatusCreated, result)
}

func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input usecase.LeadInput
	if !decodeJSON(w, r, &input) {
		return
	}

	result, err := h.Leads.UpdateLead(r.Context(), identity(r), chi.URLParam(r, "id"), input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// UpdateStatus (PATCH /api/leads/{id}/status) is the board drag and drop write.
func (h *LeadHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.Leads.UpdateLeadStatus(r.Context(), identity(r), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	middleware.RecordStatusChange(strings.TrimSpace(req.Status))
	writeJSON(w, http.StatusOK, result)
}

func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	result, err := h.Leads.DeleteLead(r.Context(), identity(r), chi.URLParam(r, "id"))
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *LeadHandler) CreateActivity(w http.ResponseWriter, r *http.Request) {
	var input usecase.ActivityInput
	if !decodeJSON(w, r, &input) {
		return
	}

	result, err := h.Leads.CreateActivity(r.Context(), identity(r), chi.URLParam(r, "id"), input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// SalesReps (GET /api/sales-reps) feeds the assignee picker.
func (h *LeadHandler) SalesReps(w http.ResponseWriter, r *http.Request) {
	reps, err := h.Leads.ListSalesReps(r.Context(), identity(r))
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reps)
}

// Import (POST /api/leads/import) accepts a multipart "file" upload or a JSON
// array of already parsed rows.
func (h *LeadHandler) Import(w http.ResponseWriter, r *http.Request) {
	rows, ok := importRows(w, r)
	if !ok {
		return
	}

	result, err := h.Transfer.ImportLeads(r.Context(), identity(r), rows)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	middleware.RecordLeadsCreated("import", result.Count)
	writeJSON(w, http.StatusCreated, result)
}

func importRows(w http.ResponseWriter, r *http.Request) ([]map[string]string, bool) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxImportSize); err != nil {
			writeError(w, http.StatusBadRequest, "Failed to read the file. Ensure it is a valid CSV.")
			return nil, false
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "Please select a file to import.")
			return nil, false
		}
		defer file.Close()

		rows, err := usecase.ParseLeadCSV(file)
		if err != nil {
			writeUseCaseError(w, err)
			return nil, false
		}
		return rows, true
	}

	var rows []map[string]string
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxImportSize)).Decode(&rows); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return nil, false
	}
	return rows, true
}

// Export (GET /api/leads/export) streams the filtered leads as CSV.
func (h *LeadHandler) Export(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.Transfer.ExportLeads(r.Context(), identity(r), leadFilter(r, h.Location), &buf); err != nil {
		writeUseCaseError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+exportFilename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// leadFilter reads the table filters from the query string. Unparseable dates are ignored.
func leadFilter(r *http.Request, loc *time.Location) entity.LeadFilter {
	q := r.URL.Query()
	f := entity.LeadFilter{
		Search: q.Get("search"),
		Stage:  q.Get("stage"),
		Source: q.Get("source"),
		Rep:    q.Get("rep"),
		Tag:    q.Get("tag"),
	}
	if t, ok := parseDate(q.Get("date_from"), loc); ok {
		f.DateFrom = &t
	}
	if t, ok := parseDate(q.Get("date_to"), loc); ok {
		f.DateTo = &t
	}
	return f
}

// parseDate accepts RFC3339 or a plain date, which is midnight in loc.
func parseDate(v string, loc *time.Location) (time.Time, bool) {
	if v == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation(time.DateOnly, v, loc); err == nil {
		return t, true
	}
	return time.Time{}, false
}
