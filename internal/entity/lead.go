package entity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultLeadSource = "Website"
	DefaultLeadStatus = "New"

	StatusWon  = "Won"
	StatusLost = "Lost"
)

type Lead struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Email           string      `json:"email,omitempty"`
	Phone           string      `json:"phone,omitempty"`
	Company         string      `json:"company,omitempty"`
	Location        string      `json:"location,omitempty"`
	Source          string      `json:"source"`
	Status          string      `json:"status"` // free-form, driven by pipeline stage names
	AssignedRepID   string      `json:"assigned_rep_id,omitempty"`
	AssignedRepName string      `json:"assigned_rep_name,omitempty"`
	ExpectedValue   float64     `json:"expected_value"`
	Notes           string      `json:"notes,omitempty"`
	Tags            []string    `json:"tags"`
	Activities      []*Activity `json:"activities,omitempty"`
	Followups       []*Followup `json:"followups,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// LeadSummary is the slice of a lead embedded into follow-up listings.
type LeadSummary struct {
	Name    string `json:"name"`
	Company string `json:"company,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

func NewLead(name, assignedRepID string) (*Lead, error) {
	lead := &Lead{
		ID:            uuid.New().String(),
		Name:          strings.TrimSpace(name),
		Source:        DefaultLeadSource,
		Status:        DefaultLeadStatus,
		AssignedRepID: assignedRepID,
		Tags:          []string{},
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if err := lead.Validate(); err != nil {
		return nil, err
	}
	return lead, nil
}

func (l *Lead) Validate() error {
	if l.Name == "" {
		return errors.New("name is required")
	}
	if l.ExpectedValue < 0 {
		return errors.New("expected_value must not be negative")
	}
	return nil
}

// ParseTags splits a comma separated tag string, trimming and dropping empties.
func ParseTags(raw string) []string {
	tags := []string{}
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// LeadScope restricts repository reads. An empty OwnerID means no restriction.
type LeadScope struct {
	OwnerID string
}

func ScopeFor(id Identity) LeadScope {
	if id.IsAdmin() {
		return LeadScope{}
	}
	return LeadScope{OwnerID: id.UserID}
}

type LeadRepositoryInterface interface {
	List(ctx context.Context, scope LeadScope) ([]*Lead, error)
	FindByID(ctx context.Context, scope LeadScope, id string) (*Lead, error)
	Create(ctx context.Context, lead *Lead) error
	CreateMany(ctx context.Context, leads []*Lead) (int, error)
	Update(ctx context.Context, lead *Lead) error
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
	OwnerOf(ctx context.Context, id string) (string, error)
	ReplaceTags(ctx context.Context, leadID string, tags []string) error
}
