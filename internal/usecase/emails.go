package usecase

import (
	"context"
	"html"
	"log"
	"regexp"
	"strings"

	"github.com/Anupam-Sing-h/leadflow-crm/internal/entity"
)

const DefaultEmailFrom = "onboarding@resend.dev"

var nameVar = regexp.MustCompile(`(?i)\{\{name\}\}`)

type EmailUseCase struct {
	Leads      entity.LeadRepositoryInterface
	Logs       entity.EmailLogRepositoryInterface
	Activities entity.ActivityRepositoryInterface
	Sender     EmailSender // nil when no provider is configured
	From       string
	Cache      RouteCache
}

func NewEmailUseCase(
	leads entity.LeadRepositoryInterface,
	logs entity.EmailLogRepositoryInterface,
	activities entity.ActivityRepositoryInterface,
	sender EmailSender,
	from string,
	cache RouteCache,
) *EmailUseCase {
	if from == "" {
		from = DefaultEmailFrom
	}
	return &EmailUseCase{
		Leads:      leads,
		Logs:       logs,
		Activities: activities,
		Sender:     sender,
		From:       from,
		Cache:      cache,
	}
}

// SendEmail mails the lead, then records an email log and a timeline activity.
func (uc *EmailUseCase) SendEmail(ctx context.Context, id entity.Identity, leadID string, in SendEmailInput) (*ActionResult, error) {
	if id.UserID == "" {
		return nil, unauthenticated()
	}
	if uc.Sender == nil {
		return nil, &TechnicalError{Code: CodeNotConfigured, Message: "Email provider not configured."}
	}

	lead, err := uc.Leads.FindByID(ctx, entity.ScopeFor(id), leadID)
	if err != nil {
		if isNotFound(err) && !id.IsAdmin() {
			return nil, unauthorized(msgNotOwner)
		}
		return nil, storeError(err, "Lead")
	}
	if lead.Email == "" {
		return nil, invalid("Lead does not have an email address.")
	}

	msg := EmailMessage{
		From:    uc.From,
		To:      []string{lead.Email},
		Subject: in.Subject,
		HTML:    RenderHTML(in.Body),
	}
	if err := uc.Sender.Send(ctx, msg); err != nil {
		log.Printf("[email] send to lead %s failed: %v", leadID, err)
		return nil, providerError(err)
	}

	if err := uc.Logs.Create(ctx, entity.NewEmailLog(leadID, in.Subject, in.Body, id.UserID)); err != nil {
		return nil, storeError(err, "Email log")
	}
	if err := uc.Activities.Create(ctx, entity.NewActivity(leadID, entity.ActivityEmail, "Sent Email: "+in.Subject)); err != nil {
		log.Printf("[email] activity for lead %s not recorded: %v", leadID, err)
	}

	revalidate(ctx, uc.Cache, leadDetailPaths(leadID)...)
	return &ActionResult{Success: true, ID: leadID}, nil
}

// RenderHTML escapes a plain text body and keeps its line breaks.
func RenderHTML(body string) string {
	escaped := html.EscapeString(body)
	return "<p>" + strings.ReplaceAll(escaped, "\n", "<br/>") + "</p>"
}

// RenderTemplate fills {{name}} in the template body with the lead name.
func RenderTemplate(tpl *entity.EmailTemplate, leadName string) SendEmailInput {
	return SendEmailInput{
		Subject: tpl.Subject,
		Body:    nameVar.ReplaceAllLiteralString(tpl.Body, leadName),
	}
}
