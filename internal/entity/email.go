package entity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type EmailTemplate struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

func NewEmailTemplate(name, subject, body string) (*EmailTemplate, error) {
	t := &EmailTemplate{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(name),
		Subject:   subject,
		Body:      body,
		CreatedAt: time.Now(),
	}
	if t.Name == "" {
		return nil, errors.New("name is required")
	}
	return t, nil
}

type EmailLog struct {
	ID        string    `json:"id"`
	LeadID    string    `json:"lead_id"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	SentBy    string    `json:"sent_by"`
	CreatedAt time.Time `json:"created_at"`
}

func NewEmailLog(leadID, subject, body, sentBy string) *EmailLog {
	return &EmailLog{
		ID:        uuid.New().String(),
		LeadID:    leadID,
		Subject:   subject,
		Body:      body,
		SentBy:    sentBy,
		CreatedAt: time.Now(),
	}
}

type EmailTemplateRepositoryInterface interface {
	List(ctx context.Context) ([]*EmailTemplate, error)
	FindByID(ctx context.Context, id string) (*EmailTemplate, error)
	Create(ctx context.Context, t *EmailTemplate) error
	Update(ctx context.Context, t *EmailTemplate) error
	Delete(ctx context.Context, id string) error
}

type EmailLogRepositoryInterface interface {
	Create(ctx context.Context, l *EmailLog) error
}
