package database

import (
	"database/sql"
	"errors"

	"github.com/Anupam-Sing-h/leadflow-crm/internal/entity"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation = "23505"
	pgInvalidText     = "22P02"
)

// mapError turns driver errors into entity sentinels. A malformed uuid is
// reported as not found.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return entity.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return entity.ErrEmailAlreadyExists
		case pgInvalidText:
			return entity.ErrNotFound
		}
	}
	return err
}

// expectRow reports ErrNotFound when an UPDATE or DELETE touched nothing.
func expectRow(res sql.Result, err error) error {
	if err != nil {
		return mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
