package usecase

import (
	"context"
	"strings"

	"github.com/Anupam-Sing-h/leadflow-crm/internal/entity"
)

type TemplateUseCase struct {
	Repo  entity.EmailTemplateRepositoryInterface
	Leads entity.LeadRepositoryInterface
	Cache RouteCache
}

func NewTemplateUseCase(repo entity.EmailTemplateRepositoryInterface, leads entity.LeadRepositoryInterface, cache RouteCache) *TemplateUseCase {
	return &TemplateUseCase{Repo: repo, Leads: leads, Cache: cache}
}

func (uc *TemplateUseCase) ListTemplates(ctx context.Context, id entity.Identity) ([]*entity.EmailTemplate, error) {
	if id.UserID == "" {
		return nil, unauthenticated()
	}
	list, err := uc.Repo.List(ctx)
	if err != nil {
		return nil, storeError(err, "Template")
	}
	return list, nil
}

func (uc *TemplateUseCase) GetTemplate(ctx context.Context, id entity.Identity, templateID string) (*entity.EmailTemplate, error) {
	if id.UserID == "" {
		return nil, unauthenticated()
	}
	t, err := uc.Repo.FindByID(ctx, templateID)
	if err != nil {
		return nil, storeError(err, "Template")
	}
	return t, nil
}

// Preview renders a template for one of the caller's leads.
func (uc *TemplateUseCase) Preview(ctx context.Context, id entity.Identity, templateID, leadID string) (*SendEmailInput, error) {
	t, err := uc.GetTemplate(ctx, id, templateID)
	if err != nil {
		return nil, err
	}
	lead, err := uc.Leads.FindByID(ctx, entity.ScopeFor(id), leadID)
	if err != nil {
		return nil, storeError(err, "Lead")
	}
	out := RenderTemplate(t, lead.Name)
	return &out, nil
}

func (uc *TemplateUseCase) CreateTemplate(ctx context.Context, id entity.Identity, in TemplateInput) (*ActionResult, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}
	t, err := entity.NewEmailTemplate(in.Name, in.Subject, in.Body)
	if err != nil {
		return nil, invalid(err.Error())
	}
	if err := uc.Repo.Create(ctx, t); err != nil {
		return nil, storeError(err, "Template")
	}
	revalidate(ctx, uc.Cache, PathAdminTemplates)
	return &ActionResult{Success: true, ID: t.ID}, nil
}

func (uc *TemplateUseCase) UpdateTemplate(ctx context.Context, id entity.Identity, templateID string, in TemplateInput) (*ActionResult, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("name is required")
	}
	t := &entity.EmailTemplate{ID: templateID, Name: name, Subject: in.Subject, Body: in.Body}
	if err := uc.Repo.Update(ctx, t); err != nil {
		return nil, storeError(err, "Template")
	}
	revalidate(ctx, uc.Cache, PathAdminTemplates)
	return &ActionResult{Success: true, ID: templateID}, nil
}

func (uc *TemplateUseCase) DeleteTemplate(ctx context.Context, id entity.Identity, templateID string) (*ActionResult, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}
	if err := uc.Repo.Delete(ctx, templateID); err != nil {
		return nil, storeError(err, "Template")
	}
	revalidate(ctx, uc.Cache, PathAdminTemplates)
	return &ActionResult{Success: true, ID: templateID}, nil
}
