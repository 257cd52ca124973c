package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/Anupam-Sing-h/leadflow-crm/internal/entity"
)

const (
	msgUpdateNotOwner = "Unauthorized: You can only update your assigned leads."
	msgDeleteNotAdmin = "Unauthorized: Only Admins can delete leads."
	msgNotOwner       = "Unauthorized"
)

type LeadUseCase struct {
	Repo       entity.LeadRepositoryInterface
	Users      entity.UserRepositoryInterface
	Activities entity.ActivityRepositoryInterface
	Cache      RouteCache
	Board      entity.BoardPublisher
}

func NewLeadUseCase(
	repo entity.LeadRepositoryInterface,
	users entity.UserRepositoryInterface,
	activities entity.ActivityRepositoryInterface,
	cache RouteCache,
	board entity.BoardPublisher,
) *LeadUseCase {
	return &LeadUseCase{
		Repo:       repo,
		Users:      users,
		Activities: activities,
		Cache:      cache,
		Board:      board,
	}
}

// ListLeads returns the leads visible to the caller, newest first, narrowed by filter.
func (uc *LeadUseCase) ListLeads(ctx context.Context, id entity.Identity, filter entity.LeadFilter) ([]*entity.Lead, error) {
	if id.UserID == "" {
		return nil, unauthenticated()
	}
	leads, err := uc.Repo.List(ctx, entity.ScopeFor(id))
	if err != nil {
		return nil, storeError(err, "Lead")
	}
	return filter.Apply(leads), nil
}

func (uc *LeadUseCase) GetLead(ctx context.Context, id entity.Identity, leadID string) (*LeadDetail, error) {
	if id.UserID == "" {
		return nil, unauthenticated()
	}
	lead, err := uc.Repo.FindByID(ctx, entity.ScopeFor(id), leadID)
	if err != nil {
		return nil, storeError(err, "Lead")
	}
	return &LeadDetail{Lead: lead, Quality: ScoreLead(lead)}, nil
}

func (uc *LeadUseCase) CreateLead(ctx context.Context, id entity.Identity, in LeadInput) (*ActionResult, error) {
	if id.UserID == "" {
		return nil, unauthenticated()
	}
	if errs := ValidateLeadInput(in); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	assignee := id.UserID
	if id.IsAdmin() && in.AssignedRepID != "" {
		assignee = in.AssignedRepID
	}

	lead, err := entity.NewLead(in.Name, assignee)
	if err != nil {
		return nil, invalid(err.Error())
	}
	applyLeadInput(lead, in)
	if in.Tags != nil {
		lead.Tags = entity.ParseTags(*in.Tags)
	}
	if in.CreatedAt != nil && !in.CreatedAt.IsZero() {
		lead.CreatedAt = *in.CreatedAt
	}

	if err := uc.Repo.Create(ctx, lead); err != nil {
		return nil, storeError(err, "Lead")
	}

	revalidate(ctx, uc.Cache, leadListPaths...)
	uc.publish(ctx, entity.BoardEvent{
		Action:  entity.BoardLeadCreated,
		LeadID:  lead.ID,
		Status:  lead.Status,
		OwnerID: lead.AssignedRepID,
		ActorID: id.UserID,
	})
	return &ActionResult{Success: true, ID: lead.ID}, nil
}

func (uc *LeadUseCase) UpdateLead(ctx context.Context, id entity.Identity, leadID string, in LeadInput) (*ActionResult, error) {
	if id.UserID == "" {
		return nil, unauthenticated()
	}
	if errs := ValidateLeadInput(in); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	existing, err := uc.Repo.FindByID(ctx, entity.ScopeFor(id), leadID)
	if err != nil {
		if !id.IsAdmin() && errors.Is(err, entity.ErrNotFound) {
			return nil, unauthorized(msgUpdateNotOwner)
		}
		return nil, storeError(err, "Lead")
	}

	lead := *existing
	lead.Name = strings.TrimSpace(in.Name)
	applyLeadInput(&lead, in)
	if id.IsAdmin() {
		lead.AssignedRepID = in.AssignedRepID
	}
	lead.UpdatedAt = time.Now()

	if err := uc.Repo.Update(ctx, &lead); err != nil {
		return nil, storeError(err, "Lead")
	}
	if in.Tags != nil {
		if err := uc.Repo.ReplaceTags(ctx, leadID, entity.ParseTags(*in.Tags)); err != nil {
			return nil, storeError(err, "Lead")
		}
	}

	revalidate(ctx, uc.Cache, append(leadListPaths, leadDetailPaths(leadID)...)...)
	if lead.Status != existing.Status {
		uc.publish(ctx, entity.BoardEvent{
			Action:  entity.BoardLeadMoved,
			LeadID:  leadID,
			Status:  lead.Status,
			OwnerID: lead.AssignedRepID,
			ActorID: id.UserID,
		})
	}
	return &ActionResult{Success: true, ID: leadID}, nil
}

// UpdateLeadStatus is the single column write issued when a card is dropped on another board column.
func (uc *LeadUseCase) UpdateLeadStatus(ctx context.Context, id entity.Identity, leadID, status string) (*ActionResult, error) {
	if id.UserID == "" {
		return nil, unauthenticated()
	}
	status = strings.TrimSpace(status)
	if status == "" {
		return nil, invalid("status is required")
	}

	owner, err := checkLeadOwner(ctx, uc.Repo, id, leadID, msgUpdateNotOwner)
	if err != nil {
		return nil, err
	}
	if err := uc.Repo.UpdateStatus(ctx, leadID, status); err != nil {
		return nil, storeError(err, "Lead")
	}

	revalidate(ctx, uc.Cache, PathAdminPipeline, PathRepPipeline, PathAdminLeads, PathRepLeads, PathAdminDashboard, PathRepDashboard)
	uc.publish(ctx, entity.BoardEvent{
		Action:  entity.BoardLeadMoved,
		LeadID:  leadID,
		Status:  status,
		OwnerID: owner,
		ActorID: id.UserID,
	})
	return &ActionResult{Success: true, ID: leadID}, nil
}

func (uc *LeadUseCase) DeleteLead(ctx context.Context, id entity.Identity, leadID string) (*ActionResult, error) {
	if id.UserID == "" {
		return nil, unauthenticated()
	}
	if !id.IsAdmin() {
		return nil, unauthorized(msgDeleteNotAdmin)
	}
	owner, err := uc.Repo.OwnerOf(ctx, leadID)
	if err != nil {
		return nil, storeError(err, "Lead")
	}
	if err := uc.Repo.Delete(ctx, leadID); err != nil {
		return nil, storeError(err, "Lead")
	}

	revalidate(ctx, uc.Cache, append(leadListPaths, PathAdminPipeline, PathRepPipeline)...)
	uc.publish(ctx, entity.BoardEvent{
		Action:  entity.BoardLeadDeleted,
		LeadID:  leadID,
		OwnerID: owner,
		ActorID: id.UserID,
	})
	return &ActionResult{Success: true, ID: leadID}, nil
}

func (uc *LeadUseCase) ListSalesReps(ctx context.Context, id entity.Identity) ([]*entity.User, error) {
	if id.UserID == "" {
		return nil, unauthenticated()
	}
	reps, err := uc.Users.ListByRole(ctx, entity.RoleSalesRep)
	if err != nil {
		return nil, storeError(err, "User")
	}
	return reps, nil
}

func (uc *LeadUseCase) CreateActivity(ctx context.Context, id entity.Identity, leadID string, in ActivityInput) (*ActionResult, error) {
	if id.UserID == "" {
		return nil, unauthenticated()
	}
	kind := strings.TrimSpace(in.Type)
	if kind == "" {
		return nil, invalid("type is required")
	}
	if _, err := checkLeadOwner(ctx, uc.Repo, id, leadID, msgNotOwner); err != nil {
		return nil, err
	}

	activity := entity.NewActivity(leadID, kind, in.Notes)
	if err := uc.Activities.Create(ctx, activity); err != nil {
		return nil, storeError(err, "Activity")
	}

	revalidate(ctx, uc.Cache, leadDetailPaths(leadID)...)
	return &ActionResult{Success: true, ID: activity.ID}, nil
}

func (uc *LeadUseCase) publish(ctx context.Context, ev entity.BoardEvent) {
	if uc.Board == nil {
		return
	}
	if err := uc.Board.PublishBoardEvent(ctx, ev); err != nil {
		log.Printf("[board] publish %s for lead %s failed: %v", ev.Action, ev.LeadID, err)
	}
}

// checkLeadOwner rejects non-admin callers that are not assigned to the lead and
// returns the lead's owner.
func checkLeadOwner(ctx context.Context, repo entity.LeadRepositoryInterface, id entity.Identity, leadID, msg string) (string, error) {
	owner, err := repo.OwnerOf(ctx, leadID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			if id.IsAdmin() {
				return "", notFound("Lead not found")
			}
			return "", unauthorized(msg)
		}
		return "", storeError(err, "Lead")
	}
	if !id.IsAdmin() && owner != id.UserID {
		return "", unauthorized(msg)
	}
	return owner, nil
}

// applyLeadInput copies the optional fields; blank source and status keep the lead's current value.
func applyLeadInput(lead *entity.Lead, in LeadInput) {
	lead.Email = strings.TrimSpace(in.Email)
	lead.Phone = strings.TrimSpace(in.Phone)
	lead.Company = strings.TrimSpace(in.Company)
	lead.Location = strings.TrimSpace(in.Location)
	lead.Notes = in.Notes
	lead.ExpectedValue = in.ExpectedValue
	if s := strings.TrimSpace(in.Source); s != "" {
		lead.Source = s
	}
	if s := strings.TrimSpace(in.Status); s != "" {
		lead.Status = s
	}
}
