package usecase

import (
	"io"
	"time"

	"github.com/Anupam-Sing-h/leadflow-crm/internal/entity"
)

type LeadInput struct {
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone"`
	Company       string     `json:"company"`
	Location      string     `json:"location"`
	Source        string     `json:"source"`
	Status        string     `json:"status"`
	AssignedRepID string     `json:"assigned_rep_id"`
	ExpectedValue float64    `json:"expected_value"`
	Notes         string     `json:"notes"`
	Tags          *string    `json:"tags"` // nil leaves tags untouched on update
	CreatedAt     *time.Time `json:"created_at"`
}

type ActivityInput struct {
	Type  string `json:"type"`
	Notes string `json:"notes"`
}

type FollowupInput struct {
	DueDate time.Time `json:"due_date"`
}

type StageInput struct {
	Name       string `json:"name"`
	OrderIndex int    `json:"order_index"`
}

type TemplateInput struct {
	Name    string `json:"name"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type SendEmailInput struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type CreateUserInput struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Name     string      `json:"name"`
	Role     entity.Role `json:"role"`
}

type AvatarUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type ProfileInput struct {
	Name   string
	Role   entity.Role
	Avatar *AvatarUpload
}

type SignUpInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type UpdatePasswordInput struct {
	Password string `json:"password"`
	Confirm  string `json:"confirm_password"`
}

type SignInInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ActionResult is the {success, id, count} half of the result/error tuple.
type ActionResult struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
	Count   int    `json:"count,omitempty"`
}

type LeadScore struct {
	Score  int    `json:"score"`
	Reason string `json:"reason"`
}

type LeadDetail struct {
	*entity.Lead
	Quality LeadScore `json:"quality"`
}

type StageCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type RepWins struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	WonCount int    `json:"wonCount"`
}

type AdminMetrics struct {
	TotalLeads     int          `json:"totalLeads"`
	WonContacts    int          `json:"wonContacts"`
	LostContacts   int          `json:"lostContacts"`
	PipelineValue  float64      `json:"pipelineValue"`
	ConversionRate string       `json:"conversionRate"`
	LeadsByStage   []StageCount `json:"leadsByStage"`
	TopReps        []RepWins    `json:"topReps"`
}

type Reminders struct {
	Today    []*entity.Followup `json:"today"`
	Upcoming []*entity.Followup `json:"upcoming"`
	Overdue  []*entity.Followup `json:"overdue"`
}

type RepMetrics struct {
	AssignedLeadsCount int       `json:"assignedLeadsCount"`
	WonDeals           int       `json:"wonDeals"`
	ConversionRate     string    `json:"conversionRate"`
	Reminders          Reminders `json:"reminders"`
}

type BoardColumn struct {
	Stage string         `json:"stage"`
	Leads []*entity.Lead `json:"leads"`
}

type Board struct {
	Stages  []*entity.PipelineStage `json:"stages"`
	Columns []BoardColumn           `json:"columns"`
}

// AuthResult carries the session, or only a message when the provider waits on
// email confirmation.
type AuthResult struct {
	Session  *entity.Session `json:"session,omitempty"`
	HomePath string          `json:"home_path,omitempty"`
	Message  string          `json:"message,omitempty"`
}
