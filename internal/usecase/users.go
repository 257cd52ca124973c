package usecase

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/Anupam-Sing-h/leadflow-crm/internal/entity"
	"github.com/google/uuid"
)

const AvatarBucket = "avatars"

type UserUseCase struct {
	Users    entity.UserRepositoryInterface
	Provider IdentityProvider
	Storage  ObjectStorage
	Cache    RouteCache
}

func NewUserUseCase(users entity.UserRepositoryInterface, provider IdentityProvider, storage ObjectStorage, cache RouteCache) *UserUseCase {
	return &UserUseCase{Users: users, Provider: provider, Storage: storage, Cache: cache}
}

// ListUsers returns the mirrored user rows, newest first.
func (uc *UserUseCase) ListUsers(ctx context.Context, id entity.Identity) ([]*entity.User, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}
	users, err := uc.Users.List(ctx)
	if err != nil {
		return nil, storeError(err, "User")
	}
	return users, nil
}

func (uc *UserUseCase) CreateUser(ctx context.Context, id entity.Identity, in CreateUserInput) (*ActionResult, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}
	if errs := ValidateCreateUserInput(in); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	email := strings.TrimSpace(in.Email)
	meta := entity.UserMetadata{Name: strings.TrimSpace(in.Name), Role: in.Role}
	var userID string

	tx := NewTransaction()
	tx.Step("provider_create_user",
		func(ctx context.Context) error {
			uid, err := uc.Provider.AdminCreateUser(ctx, email, in.Password, meta)
			if err != nil {
				return providerError(err)
			}
			userID = uid
			return nil
		},
		func(ctx context.Context) error {
			return uc.Provider.AdminDeleteUser(ctx, userID)
		},
	)
	tx.Step("mirror_user",
		func(ctx context.Context) error {
			u := &entity.User{ID: userID, Email: email, Name: meta.Name, Role: meta.Role, CreatedAt: time.Now()}
			if err := uc.Users.Upsert(ctx, u); err != nil {
				return storeError(err, "User")
			}
			return nil
		},
		nil,
	)
	if err := tx.Execute(ctx); err != nil {
		return nil, err
	}

	revalidate(ctx, uc.Cache, PathAdminUsers)
	return &ActionResult{Success: true, ID: userID}, nil
}

func (uc *UserUseCase) UpdateUserRole(ctx context.Context, id entity.Identity, userID string, role entity.Role) (*ActionResult, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, invalid("role must be Admin or SalesRep")
	}

	meta := entity.UserMetadata{Role: role}
	tx := NewTransaction()
	tx.Step("provider_role",
		func(ctx context.Context) error {
			return providerErr(uc.Provider.AdminUpdateMetadata(ctx, userID, meta))
		},
		uc.restoreMetadata(ctx, userID),
	)
	tx.Step("mirror_role",
		func(ctx context.Context) error {
			return mirrorErr(uc.Users.UpdateFields(ctx, userID, meta))
		},
		nil,
	)
	if err := tx.Execute(ctx); err != nil {
		return nil, err
	}

	revalidate(ctx, uc.Cache, PathAdminUsers)
	return &ActionResult{Success: true, ID: userID}, nil
}

// DeleteUser removes the provider account, then the mirrored row if it survived the cascade.
func (uc *UserUseCase) DeleteUser(ctx context.Context, id entity.Identity, userID string) (*ActionResult, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}
	if userID == id.UserID {
		return nil, invalid("You cannot delete your own account.")
	}
	if err := uc.Provider.AdminDeleteUser(ctx, userID); err != nil {
		return nil, providerError(err)
	}
	if err := uc.Users.Delete(ctx, userID); err != nil && !isNotFound(err) {
		return nil, storeError(err, "User")
	}

	revalidate(ctx, uc.Cache, PathAdminUsers)
	return &ActionResult{Success: true, ID: userID}, nil
}

// UpdateProfile changes name and avatar for the caller's own profile and role
// when the caller is an Admin.
func (uc *UserUseCase) UpdateProfile(ctx context.Context, id entity.Identity, userID string, in ProfileInput) (*ActionResult, error) {
	if id.UserID == "" || (id.UserID != userID && !id.IsAdmin()) {
		return nil, unauthorized("Unauthorized to update this profile")
	}
	isSelf := id.UserID == userID

	var meta entity.UserMetadata
	if isSelf {
		meta.Name = strings.TrimSpace(in.Name)
	}
	if in.Role != "" && id.IsAdmin() {
		if !in.Role.Valid() {
			return nil, invalid("role must be Admin or SalesRep")
		}
		meta.Role = in.Role
	}
	if isSelf && in.Avatar != nil && in.Avatar.Size > 0 {
		url, err := uc.uploadAvatar(ctx, userID, in.Avatar)
		if err != nil {
			return nil, err
		}
		meta.AvatarURL = url
	}
	if meta.Empty() {
		return &ActionResult{Success: true, ID: userID}, nil
	}

	tx := NewTransaction()
	tx.Step("provider_profile",
		func(ctx context.Context) error {
			return providerErr(uc.Provider.AdminUpdateMetadata(ctx, userID, meta))
		},
		uc.restoreMetadata(ctx, userID),
	)
	tx.Step("mirror_profile",
		func(ctx context.Context) error {
			return mirrorErr(uc.Users.UpdateFields(ctx, userID, meta))
		},
		nil,
	)
	if err := tx.Execute(ctx); err != nil {
		return nil, err
	}

	revalidate(ctx, uc.Cache, PathLayout)
	return &ActionResult{Success: true, ID: userID}, nil
}

func (uc *UserUseCase) uploadAvatar(ctx context.Context, userID string, a *AvatarUpload) (string, error) {
	if uc.Storage == nil {
		return "", &TechnicalError{Code: CodeNotConfigured, Message: "Failed to upload avatar: storage not configured"}
	}
	ext := strings.TrimPrefix(path.Ext(a.Filename), ".")
	if ext == "" {
		ext = "bin"
	}
	name := fmt.Sprintf("%s-%s.%s", userID, uuid.NewString(), ext)
	if err := uc.Storage.Upload(ctx, AvatarBucket, name, a.ContentType, a.Body); err != nil {
		return "", &TechnicalError{Code: CodeProvider, Message: "Failed to upload avatar: " + err.Error(), Err: err}
	}
	return uc.Storage.PublicURL(AvatarBucket, name), nil
}

// restoreMetadata snapshots the mirrored row and returns a compensation that
// writes it back to the provider, clearing fields the row had blank.
// It returns nil when the row cannot be read.
func (uc *UserUseCase) restoreMetadata(ctx context.Context, userID string) func(context.Context) error {
	prev, err := uc.Users.FindByID(ctx, userID)
	if err != nil {
		return nil
	}
	snapshot := entity.UserMetadata{Name: prev.Name, Role: prev.Role, AvatarURL: prev.AvatarURL, Replace: true}
	return func(ctx context.Context) error {
		return uc.Provider.AdminUpdateMetadata(ctx, userID, snapshot)
	}
}

func providerErr(err error) error {
	if err == nil {
		return nil
	}
	return providerError(err)
}

func mirrorErr(err error) error {
	if err == nil {
		return nil
	}
	return storeError(err, "User")
}
