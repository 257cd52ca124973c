package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Anupam-Sing-h/leadflow-crm/internal/infra/http/middleware"
	"github.com/Anupam-Sing-h/leadflow-crm/internal/usecase"
)

type EmailHandler struct {
	Emails *usecase.EmailUseCase
}

func NewEmailHandler(uc *usecase.EmailUseCase) *EmailHandler {
	return &EmailHandler{Emails: uc}
}

// Send (POST /api/leads/{id}/emails)
func (h *EmailHandler) Send(w http.ResponseWriter, r *http.Request) {
	var input usecase.SendEmailInput
	if !decodeJSON(w, r, &input) {
		return
	}

	result, err := h.Emails.SendEmail(r.Context(), identity(r), chi.URLParam(r, "id"), input)
	if err != nil {
		if usecase.IsTechnicalError(err) {
			middleware.RecordEmail("failed")
		}
		writeUseCaseError(w, err)
		return
	}
	middleware.RecordEmail("sent")
	writeJSON(w, http.StatusOK, result)
}
