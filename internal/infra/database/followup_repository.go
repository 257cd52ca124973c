package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Anupam-Sing-h/leadflow-crm/internal/entity"
)

type FollowupRepository struct {
	DB *sql.DB
}

func NewFollowupRepository(db *sql.DB) *FollowupRepository {
	return &FollowupRepository{DB: db}
}

func (r *FollowupRepository) Create(ctx context.Context, f *entity.Followup) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO lead_followups (id, lead_id, due_date, status, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		f.ID, f.LeadID, f.DueDate, f.Status, f.CreatedAt)
	return mapError(err)
}

func (r *FollowupRepository) UpdateStatus(ctx context.Context, id, status string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE lead_followups SET status = $2 WHERE id = $1`, id, status)
	return expectRow(res, err)
}

// LeadOwnerOf returns the rep assigned to the follow-up's lead.
func (r *FollowupRepository) LeadOwnerOf(ctx context.Context, followupID string) (string, error) {
	var owner string
	err := r.DB.QueryRowContext(ctx, `
		SELECT COALESCE(l.assigned_rep_id::text, '')
		FROM lead_followups f
		JOIN leads l ON l.id = f.lead_id
		WHERE f.id = $1`, followupID).Scan(&owner)
	if err != nil {
		return "", mapError(err)
	}
	return owner, nil
}

// ListForRep returns follow-ups on leads assigned to repID, earliest due first.
// An empty status matches every status.
func (r *FollowupRepository) ListForRep(ctx context.Context, repID, status string) ([]*entity.Followup, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT f.id, f.lead_id, f.due_date, f.status, f.created_at,
			l.name, COALESCE(l.company, ''), COALESCE(l.email, ''), COALESCE(l.phone, '')
		FROM lead_followups f
		JOIN leads l ON l.id = f.lead_id
		WHERE l.assigned_rep_id::text = $1 AND ($2 = '' OR f.status = $2)
		ORDER BY f.due_date ASC`, repID, status)
	if err != nil {
		return nil, fmt.Errorf("list followups: %w", err)
	}
	defer rows.Close()

	out := []*entity.Followup{}
	for rows.Next() {
		f := entity.Followup{Lead: &entity.LeadSummary{}}
		err := rows.Scan(&f.ID, &f.LeadID, &f.DueDate, &f.Status, &f.CreatedAt,
			&f.Lead.Name, &f.Lead.Company, &f.Lead.Email, &f.Lead.Phone)
		if err != nil {
			return nil, fmt.Errorf("scan followup: %w", err)
		}
		out = append(out, &f)
	}
	return out, rows.Err()
}

// CountOverdue counts pending follow-ups due before now.
func (r *FollowupRepository) CountOverdue(ctx context.Context, now time.Time) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM lead_followups WHERE status = $1 AND due_date < $2`,
		entity.FollowupPending, now).Scan(&n)
	return n, err
}
