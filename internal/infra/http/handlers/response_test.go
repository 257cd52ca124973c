package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Anupam-Sing-h/leadflow-crm/internal/usecase"
)

func TestWriteUseCaseError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"validation", &usecase.DomainError{Code: usecase.CodeValidation, Message: "Name is required"}, 400, "Name is required"},
		{"unauthenticated", &usecase.DomainError{Code: usecase.CodeUnauthenticated, Message: "Unauthorized"}, 401, "Unauthorized"},
		{"unauthorized", &usecase.DomainError{Code: usecase.CodeUnauthorized, Message: "Admins only"}, 403, "Admins only"},
		{"not found", &usecase.DomainError{Code: usecase.CodeNotFound, Message: "Lead not found"}, 404, "Lead not found"},
		{"conflict", &usecase.DomainError{Code: usecase.CodeConflict, Message: "Email already exists"}, 409, "Email already exists"},
		{"provider", &usecase.TechnicalError{Code: usecase.CodeProvider, Message: "Failed to send email", Err: errors.New("dial tcp")}, 502, "Failed to send email"},
		{"not configured", &usecase.TechnicalError{Code: usecase.CodeNotConfigured, Message: "Email service is not configured"}, 503, "Email service is not configured"},
		{"database", &usecase.TechnicalError{Code: usecase.CodeDatabase, Message: "connection refused", Err: errors.New("connection refused")}, 500, "connection refused"},
		{"plain error", errors.New("boom"), 500, "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			writeUseCaseError(rec, tt.err)

			assert.Equal(t, tt.wantCode, rec.Code)
			var body errorResponse
			assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantMsg, body.Error)
		})
	}
}

func TestParseOrderIndex(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{`3`, 3},
		{`"7"`, 7},
		{`" 2 "`, 2},
		{`4.9`, 4},
		{`"abc"`, 0},
		{`null`, 0},
		{``, 0},
		{`"NaN"`, 0},
		{`"Inf"`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, parseOrderIndex(json.RawMessage(tt.raw)))
		})
	}
}

func TestDecodeJSON_Invalid(t *testing.T) {
	rec := httptest.NewRecorder()
	var dst map[string]any

	ok := decodeJSON(rec, httptest.NewRequest(http.MethodPost, "/", nil), &dst)

	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid JSON"}`, rec.Body.String())
}
