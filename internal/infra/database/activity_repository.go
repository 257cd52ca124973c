package database

import (
	"context"
	"database/sql"

	"github.com/Anupam-Sing-h/leadflow-crm/internal/entity"
)

type ActivityRepository struct {
	DB *sql.DB
}

func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{DB: db}
}

func (r *ActivityRepository) Create(ctx context.Context, a *entity.Activity) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO lead_activities (id, lead_id, type, notes, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		a.ID, a.LeadID, a.Type, a.Notes, a.CreatedAt)
	return mapError(err)
}
