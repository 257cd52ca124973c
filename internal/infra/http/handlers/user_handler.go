package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Anupam-Sing-h/leadflow-crm/internal/entity"
	"github.com/Anupam-Sing-h/leadflow-crm/internal/usecase"
)

const maxAvatarSize = 5 << 20

type UserHandler struct {
	Users *usecase.UserUseCase
}

func NewUserHandler(uc *usecase.UserUseCase) *UserHandler {
	return &UserHandler{Users: uc}
}

type roleRequest struct {
	Role entity.Role `json:"role"`
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.ListUsers(r.Context(), identity(r))
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateUserInput
	if !decodeJSON(w, r, &input) {
		return
	}

	result, err := h.Users.CreateUser(r.Context(), identity(r), input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// UpdateRole (PATCH /api/admin/users/{id}/role)
func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	var req roleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.Users.UpdateUserRole(r.Context(), identity(r), chi.URLParam(r, "id"), req.Role)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	result, err := h.Users.DeleteUser(r.Context(), identity(r), chi.URLParam(r, "id"))
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Me (GET /api/me) returns the identity carried by the access token.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, identity(r))
}

// UpdateProfile (PUT /api/profile/{id}) takes the profile form as multipart:
// name, role and an optional avatar file.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxAvatarSize); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	input := usecase.ProfileInput{
		Name: r.FormValue("name"),
		Role: entity.Role(r.FormValue("role")),
	}
	if file, header, err := r.FormFile("avatar"); err == nil {
		defer file.Close()
		input.Avatar = &usecase.AvatarUpload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Body:        file,
		}
	}

	result, err := h.Users.UpdateProfile(r.Context(), identity(r), chi.URLParam(r, "id"), input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
