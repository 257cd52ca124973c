package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Anupam-Sing-h/leadflow-crm/internal/entity"
)

type EmailTemplateRepository struct {
	DB *sql.DB
}

func NewEmailTemplateRepository(db *sql.DB) *EmailTemplateRepository {
	return &EmailTemplateRepository{DB: db}
}

func (r *EmailTemplateRepository) List(ctx context.Context) ([]*entity.EmailTemplate, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, subject, body, created_at
		FROM email_templates
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	out := []*entity.EmailTemplate{}
	for rows.Next() {
		var t entity.EmailTemplate
		if err := rows.Scan(&t.ID, &t.Name, &t.Subject, &t.Body, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}

func (r *EmailTemplateRepository) FindByID(ctx context.Context, id string) (*entity.EmailTemplate, error) {
	var t entity.EmailTemplate
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, name, subject, body, created_at
		FROM email_templates WHERE id = $1`, id).
		Scan(&t.ID, &t.Name, &t.Subject, &t.Body, &t.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &t, nil
}

func (r *EmailTemplateRepository) Create(ctx context.Context, t *entity.EmailTemplate) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO email_templates (id, name, subject, body, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		t.ID, t.Name, t.Subject, t.Body, t.CreatedAt)
	return mapError(err)
}

func (r *EmailTemplateRepository) Update(ctx context.Context, t *entity.EmailTemplate) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE email_templates SET name = $2, subject = $3, body = $4 WHERE id = $1`,
		t.ID, t.Name, t.Subject, t.Body)
	return expectRow(res, err)
}

func (r *EmailTemplateRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM email_templates WHERE id = $1`, id)
	return expectRow(res, err)
}

type EmailLogRepository struct {
	DB *sql.DB
}

func NewEmailLogRepository(db *sql.DB) *EmailLogRepository {
	return &EmailLogRepository{DB: db}
}

func (r *EmailLogRepository) Create(ctx context.Context, l *entity.EmailLog) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO email_logs (id, lead_id, subject, body, sent_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		l.ID, l.LeadID, l.Subject, l.Body, nullString(l.SentBy), l.CreatedAt)
	return mapError(err)
}
