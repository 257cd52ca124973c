package entity

import "context"

const (
	BoardLeadMoved   = "lead.status_changed"
	BoardLeadDeleted = "lead.deleted"
	BoardLeadCreated = "lead.created"
)

// BoardEvent is pushed to connected pipeline boards.
type BoardEvent struct {
	Action  string `json:"action"`
	LeadID  string `json:"lead_id"`
	Status  string `json:"status,omitempty"`
	OwnerID string `json:"owner_id,omitempty"`
	ActorID string `json:"actor_id"`
}

type BoardPublisher interface {
	PublishBoardEvent(ctx context.Context, ev BoardEvent) error
}
