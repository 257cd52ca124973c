package usecase

import (
	"context"
	"log"
	"math"
	"slices"
	"strconv"
	"time"

	"github.com/Anupam-Sing-h/leadflow-crm/internal/entity"
)

const (
	topRepsLimit   = 5
	unknownRepName = "Unknown Rep"
)

type DashboardUseCase struct {
	Leads     entity.LeadRepositoryInterface
	Followups entity.FollowupRepositoryInterface
	Cache     RouteCache
	Location  *time.Location
	Now       func() time.Time
}

func NewDashboardUseCase(
	leads entity.LeadRepositoryInterface,
	followups entity.FollowupRepositoryInterface,
	cache RouteCache,
	loc *time.Location,
) *DashboardUseCase {
	if loc == nil {
		loc = time.Local
	}
	return &DashboardUseCase{
		Leads:     leads,
		Followups: followups,
		Cache:     cache,
		Location:  loc,
		Now:       time.Now,
	}
}

// ConversionRate formats won/total as a percentage with one decimal.
func ConversionRate(won, total int) string {
	if total == 0 {
		return "0.0"
	}
	pct := float64(won) / float64(total) * 100
	return strconv.FormatFloat(math.Round(pct*10)/10, 'f', 1, 64)
}

func (uc *DashboardUseCase) AdminMetrics(ctx context.Context, id entity.Identity) (*AdminMetrics, error) {
	if id.UserID == "" {
		return nil, unauthenticated()
	}
	if !id.IsAdmin() {
		return nil, unauthorized(msgNotOwner)
	}

	var cached AdminMetrics
	if cacheGet(ctx, uc.Cache, PathAdminDashboard, &cached) {
		return &cached, nil
	}

	leads, err := uc.Leads.List(ctx, entity.LeadScope{})
	if err != nil {
		return nil, storeError(err, "Lead")
	}
	m := SummarizeLeads(leads)

	cacheSet(ctx, uc.Cache, PathAdminDashboard, m)
	return m, nil
}

// SummarizeLeads computes the admin dashboard in a single pass over leads.
func SummarizeLeads(leads []*entity.Lead) *AdminMetrics {
	m := &AdminMetrics{
		TotalLeads:   len(leads),
		LeadsByStage: []StageCount{},
		TopReps:      []RepWins{},
	}

	stageIdx := map[string]int{}
	repIdx := map[string]int{}
	for _, l := range leads {
		if i, ok := stageIdx[l.Status]; ok {
			m.LeadsByStage[i].Value++
		} else {
			stageIdx[l.Status] = len(m.LeadsByStage)
			m.LeadsByStage = append(m.LeadsByStage, StageCount{Name: l.Status, Value: 1})
		}

		m.PipelineValue += l.ExpectedValue

		switch l.Status {
		case entity.StatusWon:
			m.WonContacts++
			if l.AssignedRepID == "" {
				continue
			}
			if i, ok := repIdx[l.AssignedRepID]; ok {
				m.TopReps[i].WonCount++
				continue
			}
			name := l.AssignedRepName
			if name == "" {
				name = unknownRepName
			}
			repIdx[l.AssignedRepID] = len(m.TopReps)
			m.TopReps = append(m.TopReps, RepWins{ID: l.AssignedRepID, Name: name, WonCount: 1})
		case entity.StatusLost:
			m.LostContacts++
		}
	}

	slices.SortStableFunc(m.TopReps, func(a, b RepWins) int { return b.WonCount - a.WonCount })
	if len(m.TopReps) > topRepsLimit {
		m.TopReps = m.TopReps[:topRepsLimit]
	}
	m.ConversionRate = ConversionRate(m.WonContacts, m.TotalLeads)
	return m
}

func (uc *DashboardUseCase) RepMetrics(ctx context.Context, id entity.Identity) (*RepMetrics, error) {
	if id.UserID == "" {
		return nil, unauthenticated()
	}
	if !id.IsSalesRep() {
		return nil, unauthorized(msgNotOwner)
	}

	key := userKey(PathRepDashboard, id.UserID)
	var cached RepMetrics
	if cacheGet(ctx, uc.Cache, key, &cached) {
		// buckets are relative to the current day, which may have rolled over since caching
		cached.Reminders = ClassifyFollowups(cached.Reminders.all(), uc.Now(), uc.Location)
		return &cached, nil
	}

	leads, err := uc.Leads.List(ctx, entity.LeadScope{OwnerID: id.UserID})
	if err != nil {
		return nil, storeError(err, "Lead")
	}
	won := 0
	for _, l := range leads {
		if l.Status == entity.StatusWon {
			won++
		}
	}

	pending, err := uc.Followups.ListForRep(ctx, id.UserID, entity.FollowupPending)
	if err != nil {
		log.Printf("[dashboard] followups for rep %s: %v", id.UserID, err)
		pending = nil
	}

	m := &RepMetrics{
		AssignedLeadsCount: len(leads),
		WonDeals:           won,
		ConversionRate:     ConversionRate(won, len(leads)),
		Reminders:          ClassifyFollowups(pending, uc.Now(), uc.Location),
	}

	cacheSet(ctx, uc.Cache, key, m)
	return m, nil
}
