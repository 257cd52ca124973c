package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	FollowupPending   = "Pending"
	FollowupCompleted = "Completed"
)

type Followup struct {
	ID        string       `json:"id"`
	LeadID    string       `json:"lead_id"`
	DueDate   time.Time    `json:"due_date"`
	Status    string       `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	Lead      *LeadSummary `json:"leads,omitempty"`
}

func NewFollowup(leadID string, dueDate time.Time) *Followup {
	return &Followup{
		ID:        uuid.New().String(),
		LeadID:    leadID,
		DueDate:   dueDate,
		Status:    FollowupPending,
		CreatedAt: time.Now(),
	}
}

func ValidFollowupStatus(s string) bool {
	return s == FollowupPending || s == FollowupCompleted
}

type FollowupRepositoryInterface interface {
	Create(ctx context.Context, f *Followup) error
	UpdateStatus(ctx context.Context, id, status string) error
	LeadOwnerOf(ctx context.Context, followupID string) (string, error)
	ListForRep(ctx context.Context, repID string, status string) ([]*Followup, error)
	CountOverdue(ctx context.Context, now time.Time) (int, error)
}
