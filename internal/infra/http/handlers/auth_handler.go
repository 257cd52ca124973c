package handlers

import (
	"net/http"

	"github.com/Anupam-Sing-h/leadflow-crm/internal/infra/http/middleware"
	"github.com/Anupam-Sing-h/leadflow-crm/internal/usecase"
)

type AuthHandler struct {
	Auth *usecase.AuthUseCase
}

func NewAuthHandler(uc *usecase.AuthUseCase) *AuthHandler {
	return &AuthHandler{Auth: uc}
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// Token is the reset link token; a bearer header takes precedence.
type updatePasswordRequest struct {
	usecase.UpdatePasswordInput
	Token string `json:"token"`
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var input usecase.SignUpInput
	if !decodeJSON(w, r, &input) {
		return
	}

	result, err := h.Auth.SignUp(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var input usecase.SignInInput
	if !decodeJSON(w, r, &input) {
		return
	}

	result, err := h.Auth.SignIn(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.Auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.Auth.ForgotPassword(r.Context(), req.Email)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	var req updatePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	token := middleware.BearerToken(r)
	if token == "" {
		token = req.Token
	}

	result, err := h.Auth.UpdatePassword(r.Context(), token, req.UpdatePasswordInput)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
