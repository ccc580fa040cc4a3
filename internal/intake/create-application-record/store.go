// internal/intake/create-application-record/store.go
package createapplicationrecord

import (
	"context"
	"database/sql"
	"strings"
	"sync"

	"tribe-intake/internal/common/database"
	"tribe-intake/internal/models"
)

// Store persists applicants. Insert must reject a record whose email or
// phone already exists with an error wrapping ErrDuplicateApplication, and
// must decide that atomically with the write.
type Store interface {
	Insert(ctx context.Context, a *models.Applicant) error
	Ping(ctx context.Context) error
}

const insertApplicantSQL = `
	INSERT INTO applicants (
		id, name, gender, city, country, dob,
		phone, email, linkedin_profile, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Insert(ctx context.Context, a *models.Applicant) error {
	_, err := s.db.ExecContext(ctx, insertApplicantSQL,
		a.ID,
		a.Name,
		a.Gender,
		a.City,
		a.Country,
		a.DateOfBirth.Format(models.DateLayout),
		a.Phone,
		a.Email,
		a.LinkedInProfile,
		a.CreatedAt,
	)
	if constraint, ok := database.IsUniqueViolation(err); ok {
		return &DuplicateError{Key: keyForConstraint(constraint)}
	}
	return err
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func keyForConstraint(constraint string) string {
	switch {
	case constraint == database.ConstraintApplicantEmail || strings.Contains(constraint, "email"):
		return "email"
	case constraint == database.ConstraintApplicantPhone || strings.Contains(constraint, "phone"):
		return "phone"
	case constraint == "":
		return "unknown"
	default:
		return constraint
	}
}

// MemoryStore keeps applicants in process with unique email and phone
// indexes. It backs the memory database driver and tests.
type MemoryStore struct {
	mu      sync.Mutex
	byID    map[string]models.Applicant
	byEmail map[string]string
	byPhone map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[string]models.Applicant),
		byEmail: make(map[string]string),
		byPhone: make(map[string]string),
	}
}

func (s *MemoryStore) Insert(ctx context.Context, a *models.Applicant) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byEmail[a.Email]; taken {
		return &DuplicateError{Key: "email"}
	}
	if _, taken := s.byPhone[a.Phone]; taken {
		return &DuplicateError{Key: "phone"}
	}

	s.byID[a.ID] = *a
	s.byEmail[a.Email] = a.ID
	s.byPhone[a.Phone] = a.ID
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *MemoryStore) Get(id string) (models.Applicant, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.byID[id]
	return a, ok
}

func (s *MemoryStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}
