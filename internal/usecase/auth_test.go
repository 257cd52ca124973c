package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Anupam-Sing-h/leadflow-crm/internal/entity"
)

func newAuthUC() (*AuthUseCase, *MockIdentityProvider, *MockUserRepository) {
	provider := new(MockIdentityProvider)
	users := new(MockUserRepository)
	return NewAuthUseCase(provider, users, "https://crm.test/"), provider, users
}

func TestHomePath(t *testing.T) {
	assert.Equal(t, PathAdminDashboard, HomePath(entity.RoleAdmin))
	assert.Equal(t, PathRepDashboard, HomePath(entity.RoleSalesRep))
}

func TestSignUp_AlwaysSalesRep(t *testing.T) {
	ctx := context.Background()
	uc, provider, users := newAuthUC()

	session := &entity.Session{AccessToken: "at", User: entity.Identity{UserID: "u1", Role: entity.RoleSalesRep}}
	provider.On("SignUp", ctx, "new@crm.test", "secret1", entity.UserMetadata{Name: "Nia", Role: entity.RoleSalesRep}).Return(session, nil)
	users.On("Upsert", ctx, mock.MatchedBy(func(u *entity.User) bool {
		return u.ID == "u1" && u.Role == entity.RoleSalesRep
	})).Return(nil)

	result, err := uc.SignUp(ctx, SignUpInput{Email: "new@crm.test", Password: "secret1", Name: "Nia"})

	require.NoError(t, err)
	assert.Equal(t, PathRepDashboard, result.HomePath)
	assert.Equal(t, "at", result.Session.AccessToken)
	users.AssertExpectations(t)
}

func TestSignUp_PendingConfirmation(t *testing.T) {
	ctx := context.Background()
	uc, provider, users := newAuthUC()

	provider.On("SignUp", ctx, "new@crm.test", "secret1", mock.Anything).
		Return(&entity.Session{User: entity.Identity{UserID: "u1"}}, nil)
	users.On("Upsert", ctx, mock.Anything).Return(errors.New("mirror down"))

	result, err := uc.SignUp(ctx, SignUpInput{Email: "new@crm.test", Password: "secret1", Name: "Nia"})

	require.NoError(t, err)
	assert.Nil(t, result.Session)
	assert.Equal(t, "Check your email to continue sign in process", result.Message)
}

func TestSignUp_Validation(t *testing.T) {
	uc, _, _ := newAuthUC()

	_, err := uc.SignUp(context.Background(), SignUpInput{Email: "a@b.c", Password: "x"})
	require.Error(t, err)
	assert.Equal(t, "All fields are required", err.Error())

	_, err = uc.SignUp(context.Background(), SignUpInput{Email: "a@b.c", Password: "12345", Name: "A"})
	require.Error(t, err)
	assert.Equal(t, "Password should be at least 6 characters.", err.Error())
}

func TestSignIn(t *testing.T) {
	ctx := context.Background()

	t.Run("admin lands on admin dashboard", func(t *testing.T) {
		uc, provider, _ := newAuthUC()
		provider.On("SignIn", ctx, "ada@crm.test", "pw").
			Return(&entity.Session{AccessToken: "at", User: admin}, nil)

		result, err := uc.SignIn(ctx, SignInInput{Email: " ada@crm.test ", Password: "pw"})

		require.NoError(t, err)
		assert.Equal(t, PathAdminDashboard, result.HomePath)
	})

	t.Run("bad credentials", func(t *testing.T) {
		uc, provider, _ := newAuthUC()
		provider.On("SignIn", ctx, "ada@crm.test", "nope").
			Return(nil, &entity.ProviderError{Provider: "gotrue", Status: 400, Message: "Invalid login credentials"})

		_, err := uc.SignIn(ctx, SignInInput{Email: "ada@crm.test", Password: "nope"})

		assert.Equal(t, CodeValidation, domainCode(err))
		assert.Equal(t, "Invalid login credentials", err.Error())
	})

	t.Run("missing fields", func(t *testing.T) {
		uc, _, _ := newAuthUC()

		_, err := uc.SignIn(ctx, SignInInput{Email: "ada@crm.test"})

		assert.Equal(t, "Email and password are required", err.Error())
	})
}

func TestForgotPassword_RedirectsToUpdatePage(t *testing.T) {
	ctx := context.Background()
	uc, provider, _ := newAuthUC()
	provider.On("SendPasswordReset", ctx, "ada@crm.test", "https://crm.test/update-password").Return(nil)

	result, err := uc.ForgotPassword(ctx, "ada@crm.test")

	require.NoError(t, err)
	assert.Equal(t, "Check your email for a password reset link", result.Message)
	provider.AssertExpectations(t)
}

func TestUpdatePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("mismatch", func(t *testing.T) {
		uc, _, _ := newAuthUC()

		_, err := uc.UpdatePassword(ctx, "tok", UpdatePasswordInput{Password: "secret1", Confirm: "secret2"})

		assert.Equal(t, "Passwords do not match", err.Error())
	})

	t.Run("missing token", func(t *testing.T) {
		uc, _, _ := newAuthUC()

		_, err := uc.UpdatePassword(ctx, "", UpdatePasswordInput{Password: "secret1", Confirm: "secret1"})

		assert.Equal(t, CodeUnauthenticated, domainCode(err))
	})

	t.Run("success", func(t *testing.T) {
		uc, provider, _ := newAuthUC()
		provider.On("UpdatePassword", ctx, "tok", "secret1").Return(nil)

		result, err := uc.UpdatePassword(ctx, "tok", UpdatePasswordInput{Password: "secret1", Confirm: "secret1"})

		require.NoError(t, err)
		assert.Equal(t, "Password updated successfully. Please log in with your new password.", result.Message)
		assert.Equal(t, LoginPath, result.HomePath)
	})
}
