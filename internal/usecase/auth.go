package usecase

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/Anupam-Sing-h/leadflow-crm/internal/entity"
)

const (
	LoginPath = "/login"

	msgCheckEmailSignUp  = "Check your email to continue sign in process"
	msgCheckEmailReset   = "Check your email for a password reset link"
	msgPasswordUpdated   = "Password updated successfully. Please log in with your new password."
	minPasswordLength    = 6
	updatePasswordSuffix = "/update-password"
)

type AuthUseCase struct {
	Provider IdentityProvider
	Users    entity.UserRepositoryInterface
	AppURL   string
}

func NewAuthUseCase(provider IdentityProvider, users entity.UserRepositoryInterface, appURL string) *AuthUseCase {
	return &AuthUseCase{Provider: provider, Users: users, AppURL: strings.TrimRight(appURL, "/")}
}

// HomePath is the dashboard a role lands on after sign in.
func HomePath(role entity.Role) string {
	if role == entity.RoleAdmin {
		return PathAdminDashboard
	}
	return PathRepDashboard
}

// SignUp registers a SalesRep account and mirrors it into users.
func (uc *AuthUseCase) SignUp(ctx context.Context, in SignUpInput) (*AuthResult, error) {
	email := strings.TrimSpace(in.Email)
	name := strings.TrimSpace(in.Name)
	if email == "" || in.Password == "" || name == "" {
		return nil, invalid("All fields are required")
	}
	if errs := ValidateCredentials(email, in.Password); len(errs) > 0 {
		return nil, validationFailed(errs)
	}
	if len(in.Password) < minPasswordLength {
		return nil, invalid("Password should be at least 6 characters.")
	}

	meta := entity.UserMetadata{Name: name, Role: entity.RoleSalesRep}
	session, err := uc.Provider.SignUp(ctx, email, in.Password, meta)
	if err != nil {
		return nil, providerError(err)
	}

	if session != nil && session.User.UserID != "" {
		u := &entity.User{ID: session.User.UserID, Email: email, Name: name, Role: meta.Role, CreatedAt: time.Now()}
		if err := uc.Users.Upsert(ctx, u); err != nil {
			log.Printf("[auth] mirror user %s failed: %v", u.ID, err)
		}
	}

	if session == nil || session.AccessToken == "" {
		return &AuthResult{Message: msgCheckEmailSignUp}, nil
	}
	return &AuthResult{Session: session, HomePath: HomePath(session.User.Role)}, nil
}

func (uc *AuthUseCase) SignIn(ctx context.Context, in SignInInput) (*AuthResult, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		return nil, invalid("Email and password are required")
	}
	session, err := uc.Provider.SignIn(ctx, email, in.Password)
	if err != nil {
		return nil, providerError(err)
	}
	return &AuthResult{Session: session, HomePath: HomePath(session.User.Role)}, nil
}

func (uc *AuthUseCase) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, invalid("refresh_token is required")
	}
	session, err := uc.Provider.Refresh(ctx, refreshToken)
	if err != nil {
		return nil, providerError(err)
	}
	return &AuthResult{Session: session, HomePath: HomePath(session.User.Role)}, nil
}

func (uc *AuthUseCase) ForgotPassword(ctx context.Context, email string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, invalid("Email is required")
	}
	if err := uc.Provider.SendPasswordReset(ctx, email, uc.AppURL+updatePasswordSuffix); err != nil {
		return nil, providerError(err)
	}
	return &AuthResult{Message: msgCheckEmailReset}, nil
}

// UpdatePassword sets a new password for the holder of accessToken, typically
// the token carried by a reset link.
func (uc *AuthUseCase) UpdatePassword(ctx context.Context, accessToken string, in UpdatePasswordInput) (*AuthResult, error) {
	if accessToken == "" {
		return nil, unauthenticated()
	}
	if in.Password == "" || in.Confirm == "" {
		return nil, invalid("Both fields are required")
	}
	if in.Password != in.Confirm {
		return nil, invalid("Passwords do not match")
	}
	if len(in.Password) < minPasswordLength {
		return nil, invalid("Password should be at least 6 characters.")
	}
	if err := uc.Provider.UpdatePassword(ctx, accessToken, in.Password); err != nil {
		return nil, providerError(err)
	}
	return &AuthResult{Message: msgPasswordUpdated, HomePath: LoginPath}, nil
}
