package usecase

import (
	"context"
	"strings"

	"github.com/Anupam-Sing-h/leadflow-crm/internal/entity"
)

type PipelineUseCase struct {
	Stages entity.PipelineStageRepositoryInterface
	Leads  entity.LeadRepositoryInterface
	Cache  RouteCache
}

func NewPipelineUseCase(stages entity.PipelineStageRepositoryInterface, leads entity.LeadRepositoryInterface, cache RouteCache) *PipelineUseCase {
	return &PipelineUseCase{Stages: stages, Leads: leads, Cache: cache}
}

// ListStages returns stages by ascending order_index.
func (uc *PipelineUseCase) ListStages(ctx context.Context) ([]*entity.PipelineStage, error) {
	var cached []*entity.PipelineStage
	if cacheGet(ctx, uc.Cache, PathPipelineSettings, &cached) {
		return cached, nil
	}
	stages, err := uc.Stages.List(ctx)
	if err != nil {
		return nil, storeError(err, "Pipeline stage")
	}
	cacheSet(ctx, uc.Cache, PathPipelineSettings, stages)
	return stages, nil
}

func (uc *PipelineUseCase) CreateStage(ctx context.Context, id entity.Identity, in StageInput) (*ActionResult, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}
	stage, err := entity.NewPipelineStage(in.Name, in.OrderIndex)
	if err != nil {
		return nil, invalid(err.Error())
	}
	if err := uc.Stages.Create(ctx, stage); err != nil {
		return nil, storeError(err, "Pipeline stage")
	}
	revalidate(ctx, uc.Cache, pipelinePaths...)
	return &ActionResult{Success: true, ID: stage.ID}, nil
}

func (uc *PipelineUseCase) UpdateStage(ctx context.Context, id entity.Identity, stageID string, in StageInput) (*ActionResult, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("name is required")
	}
	stage := &entity.PipelineStage{ID: stageID, Name: name, OrderIndex: in.OrderIndex}
	if err := uc.Stages.Update(ctx, stage); err != nil {
		return nil, storeError(err, "Pipeline stage")
	}
	revalidate(ctx, uc.Cache, pipelinePaths...)
	return &ActionResult{Success: true, ID: stageID}, nil
}

// DeleteStage removes the stage only. Leads keep their status string.
func (uc *PipelineUseCase) DeleteStage(ctx context.Context, id entity.Identity, stageID string) (*ActionResult, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}
	if err := uc.Stages.Delete(ctx, stageID); err != nil {
		return nil, storeError(err, "Pipeline stage")
	}
	revalidate(ctx, uc.Cache, pipelinePaths...)
	return &ActionResult{Success: true, ID: stageID}, nil
}

// Board groups the caller's visible leads into one column per stage. Statuses
// with no matching stage get trailing columns in first-seen order.
func (uc *PipelineUseCase) Board(ctx context.Context, id entity.Identity) (*Board, error) {
	if id.UserID == "" {
		return nil, unauthenticated()
	}
	stages, err := uc.ListStages(ctx)
	if err != nil {
		return nil, err
	}
	leads, err := uc.Leads.List(ctx, entity.ScopeFor(id))
	if err != nil {
		return nil, storeError(err, "Lead")
	}
	return GroupBoard(stages, leads), nil
}

func GroupBoard(stages []*entity.PipelineStage, leads []*entity.Lead) *Board {
	b := &Board{Stages: stages, Columns: make([]BoardColumn, 0, len(stages))}
	idx := map[string]int{}
	for _, s := range stages {
		if _, dup := idx[s.Name]; dup {
			continue
		}
		idx[s.Name] = len(b.Columns)
		b.Columns = append(b.Columns, BoardColumn{Stage: s.Name, Leads: []*entity.Lead{}})
	}
	for _, l := range leads {
		i, ok := idx[l.Status]
		if !ok {
			i = len(b.Columns)
			idx[l.Status] = i
			b.Columns = append(b.Columns, BoardColumn{Stage: l.Status, Leads: []*entity.Lead{}})
		}
		b.Columns[i].Leads = append(b.Columns[i].Leads, l)
	}
	return b
}

func requireAdmin(id entity.Identity) error {
	if id.UserID == "" {
		return unauthenticated()
	}
	if !id.IsAdmin() {
		return unauthorized(msgNotOwner)
	}
	return nil
}
