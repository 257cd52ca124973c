package entity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type PipelineStage struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	OrderIndex int       `json:"order_index"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewPipelineStage(name string, orderIndex int) (*PipelineStage, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("name is required")
	}
	return &PipelineStage{
		ID:         uuid.New().String(),
		Name:       name,
		OrderIndex: orderIndex,
		CreatedAt:  time.Now(),
	}, nil
}

type PipelineStageRepositoryInterface interface {
	List(ctx context.Context) ([]*PipelineStage, error)
	Create(ctx context.Context, s *PipelineStage) error
	Update(ctx context.Context, s *PipelineStage) error
	Delete(ctx context.Context, id string) error
}
