package entity

import (
	"strings"
	"time"
)

const filterAll = "All"

// LeadFilter mirrors the lead table filters. Empty or "All" disables a field.
type LeadFilter struct {
	Search   string
	Stage    string
	Source   string
	Rep      string
	Tag      string
	DateFrom *time.Time
	DateTo   *time.Time
}

func (f LeadFilter) Match(l *Lead) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		if !strings.Contains(strings.ToLower(l.Name), q) &&
			!strings.Contains(strings.ToLower(l.Email), q) &&
			!strings.Contains(strings.ToLower(l.Company), q) {
			return false
		}
	}
	if active(f.Stage) && l.Status != f.Stage {
		return false
	}
	if active(f.Source) && l.Source != f.Source {
		return false
	}
	if active(f.Rep) && l.AssignedRepName != f.Rep {
		return false
	}
	if active(f.Tag) && !hasTag(l.Tags, f.Tag) {
		return false
	}
	if f.DateFrom != nil && l.CreatedAt.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil {
		y, m, d := f.DateTo.Date()
		end := time.Date(y, m, d, 23, 59, 59, 999_000_000, f.DateTo.Location())
		if l.CreatedAt.After(end) {
			return false
		}
	}
	return true
}

func (f LeadFilter) Apply(leads []*Lead) []*Lead {
	out := make([]*Lead, 0, len(leads))
	for _, l := range leads {
		if f.Match(l) {
			out = append(out, l)
		}
	}
	return out
}

func active(v string) bool {
	return v != "" && v != filterAll
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
