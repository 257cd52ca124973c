package usecase

import (
	"fmt"
	"strings"

	"github.com/Anupam-Sing-h/leadflow-crm/internal/entity"
)

const maxLeadScore = 100

var stageBonus = map[string]int{
	"New":         0,
	"Contacted":   5,
	"Qualified":   10,
	"Proposal":    15,
	"Negotiation": 20,
	"Won":         30,
	"Lost":        0,
}

// ScoreLead rates lead quality from contact completeness, source and stage.
func ScoreLead(lead *entity.Lead) LeadScore {
	score := 0
	var reasons []string

	if lead.Email != "" {
		score += 20
	} else {
		reasons = append(reasons, "missing email")
	}
	if lead.Phone != "" {
		score += 20
	} else {
		reasons = append(reasons, "missing phone")
	}
	if lead.Company != "" {
		score += 20
	} else {
		reasons = append(reasons, "missing company")
	}

	if lead.Source == "LinkedIn" || lead.Source == "Website" {
		score += 10
	} else {
		reasons = append(reasons, "lower-quality source")
	}

	score += stageBonus[lead.Status]
	if lead.Status == "New" || lead.Status == entity.StatusLost {
		reasons = append(reasons, "early/lost stage")
	}

	score = max(0, min(score, maxLeadScore))

	if score == maxLeadScore {
		return LeadScore{Score: score, Reason: "Excellent lead profile and progression."}
	}
	detail := "Good lead profile."
	if len(reasons) > 0 {
		detail = "Points deducted for: " + strings.Join(reasons, ", ")
	}
	return LeadScore{Score: score, Reason: fmt.Sprintf("Score: %d - %s", score, detail)}
}
