package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
)

//go:embed schema.sql
var schema string

// NewDBConnection opens the pool and pings the server.
func NewDBConnection(connString string) (*sql.DB, error) {
	db, err := sql.Open("pgx", connString)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate applies schema.sql and seeds the pipeline with stages when it is empty.
func Migrate(ctx context.Context, db *sql.DB, stages []string) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pipeline_stages`).Scan(&n); err != nil {
		return fmt.Errorf("count stages: %w", err)
	}
	if n > 0 {
		return nil
	}
	for i, name := range stages {
		_, err := db.ExecContext(ctx,
			`INSERT INTO pipeline_stages (id, name, order_index) VALUES ($1, $2, $3)`,
			uuid.NewString(), name, i+1,
		)
		if err != nil {
			return fmt.Errorf("seed stage %s: %w", name, err)
		}
	}
	return nil
}
