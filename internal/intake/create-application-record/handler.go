// internal/intake/create-application-record/handler.go
package createapplicationrecord

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tribe-intake/internal/common/logger"
	"tribe-intake/internal/models"

	"github.com/google/uuid"
)

const (
	TaskType = "create-application-record"
)

var (
	ErrDatabaseInsertFailed = errors.New("DATABASE_INSERT_FAILED")
	ErrDuplicateApplication = errors.New("DUPLICATE_APPLICATION")
)

type Handler struct {
	store  Store
	logger logger.Logger
	now    func() time.Time
	newID  func() string
}

func NewHandler(config *Config, store Store, log logger.Logger) *Handler {
	return &Handler{
		store:  store,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
		now:    func() time.Time { return time.Now().UTC() },
		newID:  func() string { return uuid.New().String() },
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

// execute inserts exactly once. Duplicates are detected by the store's
// unique keys, so there is no lookup before the write.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	record := models.Applicant{
		ID:           h.newID(),
		NewApplicant: input.Applicant,
		CreatedAt:    h.now().Truncate(time.Microsecond),
	}

	if err := h.store.Insert(ctx, &record); err != nil {
		var dup *DuplicateError
		if errors.As(err, &dup) {
			h.logger.Info("duplicate application rejected", map[string]interface{}{
				"key": dup.Key,
			})
			return nil, fmt.Errorf("%w: %s already registered", ErrDuplicateApplication, dup.Key)
		}
		if errors.Is(err, ErrDuplicateApplication) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: insert failed: %v", ErrDatabaseInsertFailed, err)
	}

	h.logger.Info("application record created", map[string]interface{}{
		"applicantId": record.ID,
		"country":     record.Country,
	})

	return &Output{Applicant: record}, nil
}
