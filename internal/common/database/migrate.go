package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// UniqueViolation is the Postgres SQLSTATE for unique_violation.
const UniqueViolation = "23505"

// Constraint names on the applicants table.
const (
	ConstraintApplicantEmail = "applicants_email_key"
	ConstraintApplicantPhone = "applicants_phone_key"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS applicants (
		id               UUID PRIMARY KEY,
		name             TEXT NOT NULL,
		gender           TEXT NOT NULL,
		city             TEXT NOT NULL,
		country          TEXT NOT NULL,
		dob              DATE NOT NULL,
		phone            TEXT NOT NULL,
		email            TEXT NOT NULL,
		linkedin_profile TEXT NOT NULL,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT applicants_email_key UNIQUE (email),
		CONSTRAINT applicants_phone_key UNIQUE (phone)
	)`,
	`CREATE INDEX IF NOT EXISTS applicants_created_at_idx ON applicants (created_at)`,
}

// Migrate creates the applicants schema in a single transaction. It is safe
// to run on every start.
func (c *PostgresClient) Migrate(ctx context.Context) error {
	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	for i, stmt := range migrations {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration: %w", err)
	}
	return nil
}

// IsUniqueViolation reports whether err is a Postgres unique_violation and
// returns the name of the violated constraint.
func IsUniqueViolation(err error) (string, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == UniqueViolation {
		return pqErr.Constraint, true
	}
	return "", false
}
