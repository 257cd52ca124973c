package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Anupam-Sing-h/leadflow-crm/internal/entity"
	"github.com/lib/pq"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

// Owner scoping: $1 is the owner id, empty for no restriction.
const leadSelect = `
	SELECT l.id, l.name, COALESCE(l.email, ''), COALESCE(l.phone, ''), COALESCE(l.company, ''),
		COALESCE(l.location, ''), l.source, l.status, COALESCE(l.assigned_rep_id::text, ''),
		COALESCE(u.name, ''), l.expected_value::float8, COALESCE(l.notes, ''),
		COALESCE(array_agg(t.tag ORDER BY t.tag) FILTER (WHERE t.tag IS NOT NULL), '{}'),
		l.created_at, l.updated_at
	FROM leads l
	LEFT JOIN users u ON u.id = l.assigned_rep_id
	LEFT JOIN lead_tags t ON t.lead_id = l.id
	WHERE ($1 = '' OR l.assigned_rep_id::text = $1)`

const leadGroup = ` GROUP BY l.id, u.name`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(s rowScanner) (*entity.Lead, error) {
	var l entity.Lead
	var tags pq.StringArray
	err := s.Scan(
		&l.ID, &l.Name, &l.Email, &l.Phone, &l.Company,
		&l.Location, &l.Source, &l.Status, &l.AssignedRepID,
		&l.AssignedRepName, &l.ExpectedValue, &l.Notes,
		&tags,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	l.Tags = []string(tags)
	if l.Tags == nil {
		l.Tags = []string{}
	}
	return &l, nil
}

// List returns leads newest first with the rep name and tags.
func (r *LeadRepository) List(ctx context.Context, scope entity.LeadScope) ([]*entity.Lead, error) {
	rows, err := r.DB.QueryContext(ctx, leadSelect+leadGroup+` ORDER BY l.created_at DESC`, scope.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	leads := []*entity.Lead{}
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

// FindByID loads a lead with its activities (newest first) and follow-ups (earliest due first).
func (r *LeadRepository) FindByID(ctx context.Context, scope entity.LeadScope, id string) (*entity.Lead, error) {
	row := r.DB.QueryRowContext(ctx, leadSelect+` AND l.id::text = $2`+leadGroup, scope.OwnerID, id)
	lead, err := scanLead(row)
	if err != nil {
		return nil, mapError(err)
	}

	if lead.Activities, err = r.activities(ctx, id); err != nil {
		return nil, err
	}
	if lead.Followups, err = r.followups(ctx, id); err != nil {
		return nil, err
	}
	return lead, nil
}

func (r *LeadRepository) activities(ctx context.Context, leadID string) ([]*entity.Activity, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, lead_id, type, notes, created_at
		FROM lead_activities WHERE lead_id = $1
		ORDER BY created_at DESC`, leadID)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	out := []*entity.Activity{}
	for rows.Next() {
		var a entity.Activity
		if err := rows.Scan(&a.ID, &a.LeadID, &a.Type, &a.Notes, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

func (r *LeadRepository) followups(ctx context.Context, leadID string) ([]*entity.Followup, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, lead_id, due_date, status, created_at
		FROM lead_followups WHERE lead_id = $1
		ORDER BY due_date ASC`, leadID)
	if err != nil {
		return nil, fmt.Errorf("list followups: %w", err)
	}
	defer rows.Close()

	out := []*entity.Followup{}
	for rows.Next() {
		var f entity.Followup
		if err := rows.Scan(&f.ID, &f.LeadID, &f.DueDate, &f.Status, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan followup: %w", err)
		}
		out = append(out, &f)
	}
	return out, rows.Err()
}

const insertLead = `
	INSERT INTO leads (id, name, email, phone, company, location, source, status,
		assigned_rep_id, expected_value, notes, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func execInsertLead(ctx context.Context, ex execer, l *entity.Lead) error {
	_, err := ex.ExecContext(ctx, insertLead,
		l.ID, l.Name, nullString(l.Email), nullString(l.Phone), nullString(l.Company),
		nullString(l.Location), l.Source, l.Status, nullString(l.AssignedRepID),
		l.ExpectedValue, nullString(l.Notes), l.CreatedAt, l.UpdatedAt,
	)
	return err
}

func insertTags(ctx context.Context, ex execer, leadID string, tags []string) error {
	if len(tags) == 0 {
		return nil
	}
	_, err := ex.ExecContext(ctx, `
		INSERT INTO lead_tags (lead_id, tag)
		SELECT $1, unnest($2::text[])
		ON CONFLICT DO NOTHING`, leadID, pq.Array(tags))
	return err
}

func (r *LeadRepository) Create(ctx context.Context, l *entity.Lead) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := execInsertLead(ctx, tx, l); err != nil {
		return fmt.Errorf("insert lead: %w", mapError(err))
	}
	if err := insertTags(ctx, tx, l.ID, l.Tags); err != nil {
		return fmt.Errorf("insert tags: %w", err)
	}
	return tx.Commit()
}

// CreateMany inserts every lead in one transaction and returns how many were stored.
func (r *LeadRepository) CreateMany(ctx context.Context, leads []*entity.Lead) (int, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	for _, l := range leads {
		if err := execInsertLead(ctx, tx, l); err != nil {
			return 0, fmt.Errorf("insert lead %q: %w", l.Name, mapError(err))
		}
		if err := insertTags(ctx, tx, l.ID, l.Tags); err != nil {
			return 0, fmt.Errorf("insert tags: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(leads), nil
}

func (r *LeadRepository) Update(ctx context.Context, l *entity.Lead) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE leads SET name = $2, email = $3, phone = $4, company = $5, location = $6,
			source = $7, status = $8, assigned_rep_id = $9, expected_value = $10, notes = $11,
			updated_at = $12
		WHERE id = $1`,
		l.ID, l.Name, nullString(l.Email), nullString(l.Phone), nullString(l.Company),
		nullString(l.Location), l.Source, l.Status, nullString(l.AssignedRepID),
		l.ExpectedValue, nullString(l.Notes), l.UpdatedAt,
	)
	return expectRow(res, err)
}

func (r *LeadRepository) UpdateStatus(ctx context.Context, id, status string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE leads SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	return expectRow(res, err)
}

func (r *LeadRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM leads WHERE id = $1`, id)
	return expectRow(res, err)
}

func (r *LeadRepository) OwnerOf(ctx context.Context, id string) (string, error) {
	var owner string
	err := r.DB.QueryRowContext(ctx,
		`SELECT COALESCE(assigned_rep_id::text, '') FROM leads WHERE id = $1`, id).Scan(&owner)
	if err != nil {
		return "", mapError(err)
	}
	return owner, nil
}

// ReplaceTags swaps the lead's tag set for tags.
func (r *LeadRepository) ReplaceTags(ctx context.Context, leadID string, tags []string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM lead_tags WHERE lead_id = $1`, leadID); err != nil {
		return fmt.Errorf("clear tags: %w", mapError(err))
	}
	if err := insertTags(ctx, tx, leadID, tags); err != nil {
		return fmt.Errorf("insert tags: %w", err)
	}
	return tx.Commit()
}
