package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/Anupam-Sing-h/leadflow-crm/internal/entity"
	"github.com/Anupam-Sing-h/leadflow-crm/internal/infra/http/middleware"
	"github.com/Anupam-Sing-h/leadflow-crm/internal/usecase"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[http] encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeUseCaseError maps a usecase failure onto its HTTP status. Technical
// failures keep their message so the UI can show it as is.
func writeUseCaseError(w http.ResponseWriter, err error) {
	var de *usecase.DomainError
	if errors.As(err, &de) {
		writeError(w, domainStatus(de.Code), de.Message)
		return
	}

	var te *usecase.TechnicalError
	if errors.As(err, &te) {
		log.Printf("[http] %s: %v", te.Code, te.Err)
		switch te.Code {
		case usecase.CodeProvider:
			middleware.RecordIntegrationError("provider")
			writeError(w, http.StatusBadGateway, te.Message)
		case usecase.CodeNotConfigured:
			writeError(w, http.StatusServiceUnavailable, te.Message)
		default:
			writeError(w, http.StatusInternalServerError, te.Message)
		}
		return
	}

	log.Printf("[http] unexpected error: %v", err)
	writeError(w, http.StatusInternalServerError, err.Error())
}

func domainStatus(code string) int {
	switch code {
	case usecase.CodeValidation:
		return http.StatusBadRequest
	case usecase.CodeUnauthenticated:
		return http.StatusUnauthorized
	case usecase.CodeUnauthorized:
		return http.StatusForbidden
	case usecase.CodeNotFound:
		return http.StatusNotFound
	case usecase.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return false
	}
	return true
}

// identity returns the caller resolved by the auth middleware, or the zero
// identity which every usecase rejects as unauthenticated.
func identity(r *http.Request) entity.Identity {
	id, _ := middleware.IdentityFrom(r.Context())
	return id
}
