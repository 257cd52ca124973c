package auth

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Anupam-Sing-h/leadflow-crm/internal/entity"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const providerName = "local"

type CredentialStore interface {
	Create(ctx context.Context, c *entity.Credential) error
	FindByEmail(ctx context.Context, email string) (*entity.Credential, error)
	FindByID(ctx context.Context, id string) (*entity.Credential, error)
	UpdateMetadata(ctx context.Context, id string, meta entity.UserMetadata) error
	UpdatePassword(ctx context.Context, id, hash string) error
	Delete(ctx context.Context, id string) error
}

// ResetMailer delivers password reset links.
type ResetMailer interface {
	SendPasswordReset(ctx context.Context, to, link string) error
}

// LocalProvider is a self-hosted identity provider backed by auth_users.
type LocalProvider struct {
	Store  CredentialStore
	Signer *Signer
	Mailer ResetMailer
}

func NewLocalProvider(store CredentialStore, secret string, mailer ResetMailer) *LocalProvider {
	return &LocalProvider{Store: store, Signer: NewSigner(secret), Mailer: mailer}
}

func rejected(status int, msg string) error {
	return &entity.ProviderError{Provider: providerName, Status: status, Message: msg}
}

func (p *LocalProvider) SignUp(ctx context.Context, email, password string, meta entity.UserMetadata) (*entity.Session, error) {
	cred, err := p.create(ctx, email, password, meta)
	if err != nil {
		return nil, err
	}
	return p.session(cred.Identity())
}

func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*entity.Session, error) {
	cred, err := p.Store.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, rejected(http.StatusBadRequest, "Invalid login credentials")
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)) != nil {
		return nil, rejected(http.StatusBadRequest, "Invalid login credentials")
	}
	return p.session(cred.Identity())
}

// Refresh issues a new session and re-reads metadata so role changes take effect.
func (p *LocalProvider) Refresh(ctx context.Context, refreshToken string) (*entity.Session, error) {
	claims, err := p.Signer.Parse(refreshToken, UseRefresh)
	if err != nil {
		return nil, rejected(http.StatusUnauthorized, "Invalid Refresh Token")
	}
	cred, err := p.Store.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, rejected(http.StatusUnauthorized, "Invalid Refresh Token")
		}
		return nil, err
	}
	return p.session(cred.Identity())
}

// SendPasswordReset mails a reset link. Unknown addresses succeed silently.
func (p *LocalProvider) SendPasswordReset(ctx context.Context, email, redirectTo string) error {
	cred, err := p.Store.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil
		}
		return err
	}
	token, _, err := p.Signer.Sign(cred.Identity(), UseReset, ResetTTL)
	if err != nil {
		return err
	}
	link := redirectTo + "?" + url.Values{"token": {token}}.Encode()
	if p.Mailer == nil {
		log.Printf("[auth] no mailer configured, reset link for %s: %s", cred.Email, link)
		return nil
	}
	return p.Mailer.SendPasswordReset(ctx, cred.Email, link)
}

func (p *LocalProvider) UpdatePassword(ctx context.Context, token, password string) error {
	claims, err := p.Signer.Parse(token, UseAccess, UseReset)
	if err != nil {
		return rejected(http.StatusUnauthorized, "Auth session missing!")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return p.notFoundAsRejected(p.Store.UpdatePassword(ctx, claims.Subject, string(hash)))
}

func (p *LocalProvider) AdminCreateUser(ctx context.Context, email, password string, meta entity.UserMetadata) (string, error) {
	cred, err := p.create(ctx, email, password, meta)
	if err != nil {
		return "", err
	}
	return cred.ID, nil
}

func (p *LocalProvider) AdminUpdateMetadata(ctx context.Context, userID string, meta entity.UserMetadata) error {
	return p.notFoundAsRejected(p.Store.UpdateMetadata(ctx, userID, meta))
}

func (p *LocalProvider) AdminDeleteUser(ctx context.Context, userID string) error {
	return p.notFoundAsRejected(p.Store.Delete(ctx, userID))
}

func (p *LocalProvider) create(ctx context.Context, email, password string, meta entity.UserMetadata) (*entity.Credential, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	if meta.Role == "" {
		meta.Role = entity.RoleSalesRep
	}
	cred := &entity.Credential{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: string(hash),
		Meta:         meta,
		CreatedAt:    time.Now(),
	}
	if err := p.Store.Create(ctx, cred); err != nil {
		if errors.Is(err, entity.ErrEmailAlreadyExists) {
			return nil, rejected(http.StatusUnprocessableEntity, "User already registered")
		}
		return nil, err
	}
	return cred, nil
}

func (p *LocalProvider) session(id entity.Identity) (*entity.Session, error) {
	access, exp, err := p.Signer.Sign(id, UseAccess, AccessTTL)
	if err != nil {
		return nil, err
	}
	refresh, _, err := p.Signer.Sign(id, UseRefresh, RefreshTTL)
	if err != nil {
		return nil, err
	}
	return &entity.Session{AccessToken: access, RefreshToken: refresh, ExpiresAt: exp, User: id}, nil
}

func (p *LocalProvider) notFoundAsRejected(err error) error {
	if errors.Is(err, entity.ErrNotFound) {
		return rejected(http.StatusNotFound, "User not found")
	}
	return err
}
