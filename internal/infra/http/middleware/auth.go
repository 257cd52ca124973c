package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Anupam-Sing-h/leadflow-crm/internal/entity"
	"github.com/Anupam-Sing-h/leadflow-crm/internal/usecase"
)

type contextKey string

const identityKey contextKey = "identity"

type TokenVerifier interface {
	Verify(token string) (entity.Identity, error)
}

// Authenticate resolves the bearer token into an identity stored in the
// request context. Browsers get redirected to the login page instead of a 401.
func Authenticate(v TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				token = r.URL.Query().Get("access_token")
			}
			if token == "" {
				deny(w, r, http.StatusUnauthorized, usecase.LoginPath)
				return
			}
			id, err := v.Verify(token)
			if err != nil {
				deny(w, r, http.StatusUnauthorized, usecase.LoginPath)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// RequireRole lets only the listed roles through. Rejected browsers are sent
// to their own dashboard.
func RequireRole(roles ...entity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFrom(r.Context())
			if !ok {
				deny(w, r, http.StatusUnauthorized, usecase.LoginPath)
				return
			}
			for _, role := range roles {
				if id.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			deny(w, r, http.StatusForbidden, usecase.HomePath(id.Role))
		})
	}
}

func WithIdentity(ctx context.Context, id entity.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func IdentityFrom(ctx context.Context) (entity.Identity, bool) {
	id, ok := ctx.Value(identityKey).(entity.Identity)
	return id, ok && id.UserID != ""
}

func BearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

func deny(w http.ResponseWriter, r *http.Request, status int, redirect string) {
	if wantsHTML(r) {
		http.Redirect(w, r, redirect, http.StatusSeeOther)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
}
