package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Anupam-Sing-h/leadflow-crm/internal/entity"
)

// UserRepository manages the users mirror of the identity provider's accounts.
type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

const userColumns = `id, email, name, role, COALESCE(avatar_url, ''), created_at`

func scanUser(s rowScanner) (*entity.User, error) {
	var u entity.User
	if err := s.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.AvatarURL, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) List(ctx context.Context) ([]*entity.User, error) {
	return r.query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
}

func (r *UserRepository) ListByRole(ctx context.Context, role entity.Role) ([]*entity.User, error) {
	return r.query(ctx, `SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY name ASC`, string(role))
}

func (r *UserRepository) query(ctx context.Context, q string, args ...any) ([]*entity.User, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []*entity.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func (r *UserRepository) Upsert(ctx context.Context, u *entity.User) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO users (id, email, name, role, avatar_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			name = EXCLUDED.name,
			role = EXCLUDED.role,
			avatar_url = COALESCE(EXCLUDED.avatar_url, users.avatar_url)`,
		u.ID, u.Email, u.Name, string(u.Role), nullString(u.AvatarURL), u.CreatedAt)
	return mapError(err)
}

// UpdateFields writes the non-empty fields of meta.
func (r *UserRepository) UpdateFields(ctx context.Context, id string, meta entity.UserMetadata) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE users SET
			name = COALESCE($2, name),
			role = COALESCE($3, role),
			avatar_url = COALESCE($4, avatar_url)
		WHERE id = $1`,
		id, nullString(meta.Name), nullString(string(meta.Role)), nullString(meta.AvatarURL))
	return expectRow(res, err)
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	return expectRow(res, err)
}
