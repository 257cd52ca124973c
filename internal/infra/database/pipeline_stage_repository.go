package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Anupam-Sing-h/leadflow-crm/internal/entity"
)

type PipelineStageRepository struct {
	DB *sql.DB
}

func NewPipelineStageRepository(db *sql.DB) *PipelineStageRepository {
	return &PipelineStageRepository{DB: db}
}

func (r *PipelineStageRepository) List(ctx context.Context) ([]*entity.PipelineStage, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, order_index, created_at
		FROM pipeline_stages
		ORDER BY order_index ASC, created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list stages: %w", err)
	}
	defer rows.Close()

	stages := []*entity.PipelineStage{}
	for rows.Next() {
		var s entity.PipelineStage
		if err := rows.Scan(&s.ID, &s.Name, &s.OrderIndex, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stage: %w", err)
		}
		stages = append(stages, &s)
	}
	return stages, rows.Err()
}

func (r *PipelineStageRepository) Create(ctx context.Context, s *entity.PipelineStage) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO pipeline_stages (id, name, order_index, created_at) VALUES ($1, $2, $3, $4)`,
		s.ID, s.Name, s.OrderIndex, s.CreatedAt)
	return mapError(err)
}

func (r *PipelineStageRepository) Update(ctx context.Context, s *entity.PipelineStage) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE pipeline_stages SET name = $2, order_index = $3 WHERE id = $1`,
		s.ID, s.Name, s.OrderIndex)
	return expectRow(res, err)
}

func (r *PipelineStageRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM pipeline_stages WHERE id = $1`, id)
	return expectRow(res, err)
}
