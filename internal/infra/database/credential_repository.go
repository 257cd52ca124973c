package database

import (
	"context"
	"database/sql"

	"github.com/Anupam-Sing-h/leadflow-crm/internal/entity"
)

// CredentialRepository stores accounts for the built-in identity provider.
type CredentialRepository struct {
	DB *sql.DB
}

func NewCredentialRepository(db *sql.DB) *CredentialRepository {
	return &CredentialRepository{DB: db}
}

const credentialColumns = `id, email, password_hash, name, role, COALESCE(avatar_url, ''), created_at`

func scanCredential(s rowScanner) (*entity.Credential, error) {
	var c entity.Credential
	err := s.Scan(&c.ID, &c.Email, &c.PasswordHash, &c.Meta.Name, &c.Meta.Role, &c.Meta.AvatarURL, &c.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &c, nil
}

func (r *CredentialRepository) Create(ctx context.Context, c *entity.Credential) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO auth_users (id, email, password_hash, name, role, avatar_url, created_at, updated_at)
		VALUES ($1, lower($2), $3, $4, $5, $6, $7, $7)`,
		c.ID, c.Email, c.PasswordHash, c.Meta.Name, string(c.Meta.Role), nullString(c.Meta.AvatarURL), c.CreatedAt)
	return mapError(err)
}

func (r *CredentialRepository) FindByEmail(ctx context.Context, email string) (*entity.Credential, error) {
	return scanCredential(r.DB.QueryRowContext(ctx,
		`SELECT `+credentialColumns+` FROM auth_users WHERE email = lower($1)`, email))
}

func (r *CredentialRepository) FindByID(ctx context.Context, id string) (*entity.Credential, error) {
	return scanCredential(r.DB.QueryRowContext(ctx,
		`SELECT `+credentialColumns+` FROM auth_users WHERE id = $1`, id))
}

func (r *CredentialRepository) UpdateMetadata(ctx context.Context, id string, meta entity.UserMetadata) error {
	if meta.Replace {
		res, err := r.DB.ExecContext(ctx, `
			UPDATE auth_users SET
				name = $2,
				role = COALESCE($3, role),
				avatar_url = $4,
				updated_at = NOW()
			WHERE id = $1`,
			id, meta.Name, nullString(string(meta.Role)), nullString(meta.AvatarURL))
		return expectRow(res, err)
	}
	res, err := r.DB.ExecContext(ctx, `
		UPDATE auth_users SET
			name = COALESCE($2, name),
			role = COALESCE($3, role),
			avatar_url = COALESCE($4, avatar_url),
			updated_at = NOW()
		WHERE id = $1`,
		id, nullString(meta.Name), nullString(string(meta.Role)), nullString(meta.AvatarURL))
	return expectRow(res, err)
}

func (r *CredentialRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE auth_users SET password_hash = $2, updated_at = NOW() WHERE id = $1`, id, hash)
	return expectRow(res, err)
}

func (r *CredentialRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM auth_users WHERE id = $1`, id)
	return expectRow(res, err)
}
