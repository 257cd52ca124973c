package usecase

import (
	"context"
	"io"

	"github.com/Anupam-Sing-h/leadflow-crm/internal/entity"
)

// RouteCache holds rendered read models keyed by route path. Invalidate drops
// every key under each path, including per-user variants.
type RouteCache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any) error
	Invalidate(ctx context.Context, paths ...string) error
}

type IdentityProvider interface {
	SignUp(ctx context.Context, email, password string, meta entity.UserMetadata) (*entity.Session, error)
	SignIn(ctx context.Context, email, password string) (*entity.Session, error)
	Refresh(ctx context.Context, refreshToken string) (*entity.Session, error)
	SendPasswordReset(ctx context.Context, email, redirectTo string) error
	UpdatePassword(ctx context.Context, accessToken, password string) error

	AdminCreateUser(ctx context.Context, email, password string, meta entity.UserMetadata) (string, error)
	AdminUpdateMetadata(ctx context.Context, userID string, meta entity.UserMetadata) error
	AdminDeleteUser(ctx context.Context, userID string) error
}

type EmailMessage struct {
	From    string
	To      []string
	Subject string
	HTML    string
}

type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

type ObjectStorage interface {
	Upload(ctx context.Context, bucket, name, contentType string, body io.Reader) error
	PublicURL(bucket, name string) string
}
