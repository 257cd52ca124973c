package entity

import (
	"context"
	"time"
)

type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleSalesRep Role = "SalesRep"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleSalesRep
}

// Identity is the authenticated caller as carried by the provider's access token.
type Identity struct {
	UserID    string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name,omitempty"`
	Role      Role   `json:"role"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

func (i Identity) IsAdmin() bool    { return i.Role == RoleAdmin }
func (i Identity) IsSalesRep() bool { return i.Role == RoleSalesRep }

// User mirrors the auth provider's record. Role is stored both here and in the
// provider metadata.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// UserMetadata is the provider-side user_metadata. Empty fields are left untouched on update unless Replace is set.
type UserMetadata struct {
	Name      string `json:"name,omitempty"`
	Role      Role   `json:"role,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
	// Replace writes Name and AvatarURL as given, blanks included.
	Replace bool `json:"-"`
}

func (m UserMetadata) Empty() bool {
	return m.Name == "" && m.Role == "" && m.AvatarURL == ""
}

type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         Identity  `json:"user"`
}

type UserRepositoryInterface interface {
	List(ctx context.Context) ([]*User, error)
	ListByRole(ctx context.Context, role Role) ([]*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	Upsert(ctx context.Context, u *User) error
	UpdateFields(ctx context.Context, id string, meta UserMetadata) error
	Delete(ctx context.Context, id string) error
}
