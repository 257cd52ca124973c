package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/Anupam-Sing-h/leadflow-crm/internal/entity"
)

type FollowupUseCase struct {
	Leads    entity.LeadRepositoryInterface
	Repo     entity.FollowupRepositoryInterface
	Cache    RouteCache
	Location *time.Location
}

func NewFollowupUseCase(
	leads entity.LeadRepositoryInterface,
	repo entity.FollowupRepositoryInterface,
	cache RouteCache,
	loc *time.Location,
) *FollowupUseCase {
	if loc == nil {
		loc = time.Local
	}
	return &FollowupUseCase{Leads: leads, Repo: repo, Cache: cache, Location: loc}
}

func (uc *FollowupUseCase) CreateFollowup(ctx context.Context, id entity.Identity, leadID string, in FollowupInput) (*ActionResult, error) {
	if id.UserID == "" {
		return nil, unauthenticated()
	}
	if in.DueDate.IsZero() {
		return nil, invalid("due_date is required")
	}
	if _, err := checkLeadOwner(ctx, uc.Leads, id, leadID, msgNotOwner); err != nil {
		return nil, err
	}

	f := entity.NewFollowup(leadID, in.DueDate)
	if err := uc.Repo.Create(ctx, f); err != nil {
		return nil, storeError(err, "Follow-up")
	}

	revalidate(ctx, uc.Cache, append(leadDetailPaths(leadID), PathRepFollowups, PathRepDashboard)...)
	return &ActionResult{Success: true, ID: f.ID}, nil
}

func (uc *FollowupUseCase) UpdateFollowupStatus(ctx context.Context, id entity.Identity, followupID, status string) (*ActionResult, error) {
	if id.UserID == "" {
		return nil, unauthenticated()
	}
	status = strings.TrimSpace(status)
	if !entity.ValidFollowupStatus(status) {
		return nil, invalid("status must be Pending or Completed")
	}

	if !id.IsAdmin() {
		owner, err := uc.Repo.LeadOwnerOf(ctx, followupID)
		if err != nil && !isNotFound(err) {
			return nil, storeError(err, "Follow-up")
		}
		if err != nil || owner != id.UserID {
			return nil, unauthorized(msgNotOwner)
		}
	}

	if err := uc.Repo.UpdateStatus(ctx, followupID, status); err != nil {
		return nil, storeError(err, "Follow-up")
	}

	revalidate(ctx, uc.Cache, PathRepFollowups, PathRepDashboard, PathAdminLeads, PathRepLeads)
	return &ActionResult{Success: true, ID: followupID}, nil
}

// ListRepFollowups returns every follow-up on the rep's leads, earliest due first.
func (uc *FollowupUseCase) ListRepFollowups(ctx context.Context, id entity.Identity) ([]*entity.Followup, error) {
	if id.UserID == "" {
		return nil, unauthenticated()
	}
	if !id.IsSalesRep() {
		return nil, unauthorized(msgNotOwner)
	}
	list, err := uc.Repo.ListForRep(ctx, id.UserID, "")
	if err != nil {
		return nil, storeError(err, "Follow-up")
	}
	return list, nil
}

// ClassifyFollowups buckets follow-ups by calendar day in loc. A follow-up due
// any time today, midnight included, is due today.
func ClassifyFollowups(followups []*entity.Followup, now time.Time, loc *time.Location) Reminders {
	if loc == nil {
		loc = time.Local
	}
	today := startOfDay(now, loc)
	r := Reminders{
		Today:    []*entity.Followup{},
		Upcoming: []*entity.Followup{},
		Overdue:  []*entity.Followup{},
	}
	for _, f := range followups {
		due := startOfDay(f.DueDate, loc)
		switch {
		case due.Before(today):
			r.Overdue = append(r.Overdue, f)
		case due.Equal(today):
			r.Today = append(r.Today, f)
		default:
			r.Upcoming = append(r.Upcoming, f)
		}
	}
	return r
}

func (r Reminders) all() []*entity.Followup {
	out := make([]*entity.Followup, 0, len(r.Overdue)+len(r.Today)+len(r.Upcoming))
	out = append(out, r.Overdue...)
	out = append(out, r.Today...)
	return append(out, r.Upcoming...)
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
