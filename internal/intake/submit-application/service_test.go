package submitapplication

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	apperrors "tribe-intake/internal/common/errors"
	"tribe-intake/internal/common/logger"
	"tribe-intake/internal/common/validation"
	createapplicationrecord "tribe-intake/internal/intake/create-application-record"
	validateapplicationdata "tribe-intake/internal/intake/validate-application-data"
	"tribe-intake/internal/models"
	"tribe-intake/pkg/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu       sync.Mutex
	notified []models.Applicant
}

func (n *recordingNotifier) Notify(a models.Applicant) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notified = append(n.notified, a)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.notified)
}

type failingStore struct{ err error }

func (s failingStore) Insert(context.Context, *models.Applicant) error { return s.err }
func (s failingStore) Ping(context.Context) error                      { return s.err }

func createTestService(t *testing.T, store createapplicationrecord.Store) (*Service, *recordingNotifier) {
	t.Helper()
	reg, err := registry.Applicant()
	require.NoError(t, err)

	log := logger.NewTestLogger(t)
	notifier := &recordingNotifier{}
	svc := NewService(
		LoadConfig(),
		validateapplicationdata.NewHandler(validateapplicationdata.LoadConfig(), reg, log),
		createapplicationrecord.NewHandler(createapplicationrecord.LoadConfig(), store, log),
		notifier,
		nil,
		log,
	)
	return svc, notifier
}

func validPayload(t *testing.T, overrides map[string]interface{}) []byte {
	t.Helper()
	doc := map[string]interface{}{
		"name":     "Jane Doe",
		"gender":   "Female",
		"city":     "Lisbon",
		"country":  "Portugal",
		"dob":      "1990-05-14",
		"phone":    "+351 912 345 678",
		"email":    "jane@example.com",
		"linkedin": "https://example.com/in/jane",
	}
	for k, v := range overrides {
		if v == nil {
			delete(doc, k)
			continue
		}
		doc[k] = v
	}
	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	return raw
}

func asStandardError(t *testing.T, err error) *apperrors.StandardError {
	t.Helper()
	var stdErr *apperrors.StandardError
	require.True(t, errors.As(err, &stdErr), "expected StandardError, got %T", err)
	return stdErr
}

func TestSubmit_Created(t *testing.T) {
	store := createapplicationrecord.NewMemoryStore()
	svc, notifier := createTestService(t, store)

	out, err := svc.Submit(context.Background(), validPayload(t, nil))

	require.NoError(t, err)
	assert.Equal(t, MessageCreated, out.Message)
	assert.NotEmpty(t, out.Applicant.ID)
	assert.Equal(t, "jane@example.com", out.Applicant.Email)
	assert.Equal(t, "1990-05-14", out.Applicant.DateOfBirth.Format(models.DateLayout))
	assert.Equal(t, 1, store.Count())
	assert.Equal(t, 1, notifier.count())

	stored, ok := store.Get(out.Applicant.ID)
	require.True(t, ok)
	assert.Equal(t, out.Applicant, stored)
}

func TestSubmit_ValidationFailure(t *testing.T) {
	store := createapplicationrecord.NewMemoryStore()
	svc, notifier := createTestService(t, store)

	_, err := svc.Submit(context.Background(), validPayload(t, map[string]interface{}{
		"name":  "J",
		"email": "not-an-email",
		"dob":   nil,
	}))

	stdErr := asStandardError(t, err)
	assert.Equal(t, apperrors.ErrCodeValidationFailed, stdErr.Code)

	byField := map[string]apperrors.Issue{}
	for _, issue := range stdErr.Issues {
		byField[issue.Field] = issue
	}
	assert.Equal(t, validation.CodeMinLength, byField["name"].Code)
	assert.Equal(t, validation.CodeMissingRequired, byField["dob"].Code)
	assert.Equal(t, validation.CodeInvalidFormat, byField["email"].Code)
	assert.Equal(t, 0, store.Count())
	assert.Equal(t, 0, notifier.count())
}

func TestSubmit_DuplicateEmailAndPhone(t *testing.T) {
	store := createapplicationrecord.NewMemoryStore()
	svc, notifier := createTestService(t, store)

	_, err := svc.Submit(context.Background(), validPayload(t, nil))
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), validPayload(t, map[string]interface{}{
		"phone": "+1 (555) 010-0000",
	}))
	assert.Equal(t, apperrors.ErrCodeDuplicateApplication, asStandardError(t, err).Code)

	_, err = svc.Submit(context.Background(), validPayload(t, map[string]interface{}{
		"email": "someone.else@example.com",
	}))
	assert.Equal(t, apperrors.ErrCodeDuplicateApplication, asStandardError(t, err).Code)

	assert.Equal(t, 1, store.Count())
	assert.Equal(t, 1, notifier.count())
}

func TestSubmit_MalformedBody(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"syntax error", `{"name": "Jane"`},
		{"array", `[1, 2, 3]`},
		{"string", `"hello"`},
		{"null", `null`},
		{"empty", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := createapplicationrecord.NewMemoryStore()
			svc, notifier := createTestService(t, store)

			_, err := svc.Submit(context.Background(), []byte(tt.raw))

			assert.Equal(t, apperrors.ErrCodeInternal, asStandardError(t, err).Code)
			assert.Equal(t, 0, store.Count())
			assert.Equal(t, 0, notifier.count())
		})
	}
}

func TestSubmit_StoreFailureIsInternal(t *testing.T) {
	svc, notifier := createTestService(t, failingStore{err: errors.New("connection refused")})

	_, err := svc.Submit(context.Background(), validPayload(t, nil))

	stdErr := asStandardError(t, err)
	assert.Equal(t, apperrors.ErrCodeInternal, stdErr.Code)
	assert.Equal(t, 0, notifier.count())
}

func TestSubmit_ConcurrentDuplicates(t *testing.T) {
	store := createapplicationrecord.NewMemoryStore()
	svc, notifier := createTestService(t, store)
	raw := validPayload(t, nil)

	const workers = 12
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		conflicts int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Submit(context.Background(), raw)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				created++
				return
			}
			var stdErr *apperrors.StandardError
			if errors.As(err, &stdErr) && stdErr.Code == apperrors.ErrCodeDuplicateApplication {
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, workers-1, conflicts)
	assert.Equal(t, 1, store.Count())
	assert.Equal(t, 1, notifier.count())
}

func TestSubmit_NilNotifier(t *testing.T) {
	reg, err := registry.Applicant()
	require.NoError(t, err)
	log := logger.NewNoOpLogger()

	svc := NewService(
		LoadConfig(),
		validateapplicationdata.NewHandler(validateapplicationdata.LoadConfig(), reg, log),
		createapplicationrecord.NewHandler(createapplicationrecord.LoadConfig(), createapplicationrecord.NewMemoryStore(), log),
		nil,
		nil,
		log,
	)

	_, err = svc.Submit(context.Background(), validPayload(t, nil))
	assert.NoError(t, err)
}

func TestSubmit_ProfileURLWithoutHostIsRejected(t *testing.T) {
	for _, profile := range []string{"https:", "https://", "http:///in/jane"} {
		t.Run(profile, func(t *testing.T) {
			store := createapplicationrecord.NewMemoryStore()
			svc, notifier := createTestService(t, store)

			_, err := svc.Submit(context.Background(), validPayload(t, map[string]interface{}{"linkedin": profile}))

			stdErr := asStandardError(t, err)
			assert.Equal(t, apperrors.ErrCodeValidationFailed, stdErr.Code)
			require.Len(t, stdErr.Issues, 1)
			assert.Equal(t, "linkedin", stdErr.Issues[0].Field)
			assert.Equal(t, validation.CodeInvalidFormat, stdErr.Issues[0].Code)
			assert.Equal(t, 0, store.Count())
			assert.Equal(t, 0, notifier.count())
		})
	}
}
