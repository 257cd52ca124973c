package entity

import "time"

// Credential is an account held by the built-in identity provider.
type Credential struct {
	ID           string
	Email        string
	PasswordHash string
	Meta         UserMetadata
	CreatedAt    time.Time
}

func (c *Credential) Identity() Identity {
	return Identity{
		UserID:    c.ID,
		Email:     c.Email,
		Name:      c.Meta.Name,
		Role:      c.Meta.Role,
		AvatarURL: c.Meta.AvatarURL,
	}
}
