package gotrue

import "github.com/Anupam-Sing-h/leadflow-crm/internal/entity"

type credentialsRequest struct {
	Email    string               `json:"email"`
	Password string               `json:"password"`
	Data     *entity.UserMetadata `json:"data,omitempty"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type recoverRequest struct {
	Email string `json:"email"`
}

type passwordRequest struct {
	Password string `json:"password"`
}

type adminCreateRequest struct {
	Email        string              `json:"email"`
	Password     string              `json:"password"`
	EmailConfirm bool                `json:"email_confirm"`
	UserMetadata entity.UserMetadata `json:"user_metadata"`
}

type adminUpdateRequest struct {
	UserMetadata any `json:"user_metadata"`
}

type user struct {
	ID           string              `json:"id"`
	Email        string              `json:"email"`
	UserMetadata entity.UserMetadata `json:"user_metadata"`
}

func (u user) identity() entity.Identity {
	return entity.Identity{
		UserID:    u.ID,
		Email:     u.Email,
		Name:      u.UserMetadata.Name,
		Role:      u.UserMetadata.Role,
		AvatarURL: u.UserMetadata.AvatarURL,
	}
}

// sessionResponse covers both shapes of the signup answer: a full session, or
// the bare user when email confirmation is pending.
type sessionResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	User         *user  `json:"user"`
	user
}

type errorResponse struct {
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (e errorResponse) text() string {
	for _, s := range []string{e.Msg, e.ErrorDescription, e.Message, e.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}
