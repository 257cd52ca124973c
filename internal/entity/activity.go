package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const ActivityEmail = "Email"

// Activity is an append-only timeline entry on a lead.
type Activity struct {
	ID        string    `json:"id"`
	LeadID    string    `json:"lead_id"`
	Type      string    `json:"type"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

func NewActivity(leadID, kind, notes string) *Activity {
	return &Activity{
		ID:        uuid.New().String(),
		LeadID:    leadID,
		Type:      kind,
		Notes:     notes,
		CreatedAt: time.Now(),
	}
}

type ActivityRepositoryInterface interface {
	Create(ctx context.Context, a *Activity) error
}
