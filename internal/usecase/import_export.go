package usecase

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Anupam-Sing-h/leadflow-crm/internal/entity"
	"github.com/google/uuid"
)

var exportHeader = []string{"Name", "Email", "Phone", "Company", "Location", "Source", "Status", "Expected Value", "Notes"}

const (
	importDefaultName   = "Unknown Lead"
	importDefaultSource = "Import"
)

type ImportExportUseCase struct {
	Leads entity.LeadRepositoryInterface
	Cache RouteCache
}

func NewImportExportUseCase(leads entity.LeadRepositoryInterface, cache RouteCache) *ImportExportUseCase {
	return &ImportExportUseCase{Leads: leads, Cache: cache}
}

// ParseLeadCSV reads a CSV whose first line is the header. Header names are
// lowercased with spaces turned into underscores. Blank lines are skipped.
func ParseLeadCSV(r io.Reader) ([]map[string]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, invalid("The CSV file appears to be empty or misformatted.")
	}
	if err != nil {
		return nil, invalid("Failed to read the file. Ensure it is a valid CSV.")
	}
	for i, h := range header {
		header[i] = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(h)), " ", "_")
	}

	var rows []map[string]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, invalid("Failed to read the file. Ensure it is a valid CSV.")
		}
		row := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(rec) {
				row[h] = strings.TrimSpace(rec[i])
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, invalid("The CSV file appears to be empty or misformatted.")
	}
	return rows, nil
}

// ImportLeads bulk inserts rows, all assigned to the caller.
func (uc *ImportExportUseCase) ImportLeads(ctx context.Context, id entity.Identity, rows []map[string]string) (*ActionResult, error) {
	if id.UserID == "" {
		return nil, unauthenticated()
	}
	if len(rows) == 0 {
		return nil, invalid("The CSV file appears to be empty or misformatted.")
	}

	leads := make([]*entity.Lead, 0, len(rows))
	for _, row := range rows {
		leads = append(leads, leadFromRow(row, id.UserID))
	}

	n, err := uc.Leads.CreateMany(ctx, leads)
	if err != nil {
		return nil, storeError(err, "Lead")
	}

	revalidate(ctx, uc.Cache, leadListPaths...)
	return &ActionResult{Success: true, Count: n}, nil
}

func leadFromRow(row map[string]string, owner string) *entity.Lead {
	value, err := strconv.ParseFloat(row["expected_value"], 64)
	if err != nil || math.IsInf(value, 0) || math.IsNaN(value) {
		value = 0
	}
	lead := &entity.Lead{
		ID:            uuid.NewString(),
		Name:          orDefault(row["name"], importDefaultName),
		Email:         row["email"],
		Phone:         row["phone"],
		Company:       row["company"],
		Location:      row["location"],
		Source:        orDefault(row["source"], importDefaultSource),
		Status:        orDefault(row["status"], entity.DefaultLeadStatus),
		ExpectedValue: value,
		Notes:         row["notes"],
		AssignedRepID: owner,
		Tags:          []string{},
	}
	lead.CreatedAt = time.Now()
	lead.UpdatedAt = lead.CreatedAt
	return lead
}

// ExportLeads writes the caller's leads, narrowed by filter, as CSV.
func (uc *ImportExportUseCase) ExportLeads(ctx context.Context, id entity.Identity, filter entity.LeadFilter, w io.Writer) error {
	if id.UserID == "" {
		return unauthenticated()
	}
	leads, err := uc.Leads.List(ctx, entity.ScopeFor(id))
	if err != nil {
		return storeError(err, "Lead")
	}
	leads = filter.Apply(leads)
	if len(leads) == 0 {
		return invalid("No leads to export!")
	}
	_, err = io.WriteString(w, EncodeLeadsCSV(leads))
	return err
}

func EncodeLeadsCSV(leads []*entity.Lead) string {
	var b strings.Builder
	b.WriteString(strings.Join(exportHeader, ","))
	for _, l := range leads {
		fields := []string{
			l.Name, l.Email, l.Phone, l.Company, l.Location, l.Source, l.Status,
			strconv.FormatFloat(l.ExpectedValue, 'f', -1, 64),
			l.Notes,
		}
		for i, f := range fields {
			fields[i] = csvField(f)
		}
		b.WriteByte('\n')
		b.WriteString(strings.Join(fields, ","))
	}
	return b.String()
}

// csvField doubles quotes and wraps the value when it holds a quote, comma or newline.
func csvField(v string) string {
	if !strings.ContainsAny(v, "\",\n") {
		return v
	}
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
