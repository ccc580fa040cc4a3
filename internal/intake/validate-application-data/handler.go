// internal/intake/validate-application-data/handler.go
package validateapplicationdata

import (
	"context"
	"errors"

	"tribe-intake/internal/common/logger"
	"tribe-intake/internal/common/validation"
	"tribe-intake/internal/models"
	"tribe-intake/pkg/registry"
)

const (
	TaskType = "validate-application-data"
)

var (
	ErrApplicationValidationFailed = errors.New("APPLICATION_VALIDATION_FAILED")
)

type Handler struct {
	registry *registry.Registry
	logger   logger.Logger
}

func NewHandler(config *Config, reg *registry.Registry, log logger.Logger) *Handler {
	return &Handler{
		registry: reg,
		logger:   log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

// Execute re-validates the document against the applicant schema and
// normalizes it. The birth date becomes a date value; every other field is
// passed through unchanged.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	result := validation.ValidateInput(input.Document, h.registry)

	h.logger.Debug("validation completed", map[string]interface{}{
		"isValid":    result.Valid,
		"errorCount": len(result.Errors),
	})

	if !result.Valid {
		return nil, &ValidationFailure{Errors: result.Errors}
	}

	doc := input.Document.(map[string]interface{})
	str := func(field string) string {
		s, _ := doc[field].(string)
		return s
	}

	dob, err := registry.ParseBirthDate(str(registry.FieldDOB))
	if err != nil {
		return nil, &ValidationFailure{Errors: []ValidationError{{
			Field:   registry.FieldDOB,
			Code:    validation.CodeInvalidFormat,
			Message: h.registry.Message(registry.FieldDOB, registry.ConstraintFormat),
		}}}
	}

	return &Output{
		Applicant: models.NewApplicant{
			Name:            str(registry.FieldName),
			Gender:          str(registry.FieldGender),
			City:            str(registry.FieldCity),
			Country:         str(registry.FieldCountry),
			DateOfBirth:     dob,
			Phone:           str(registry.FieldPhone),
			Email:           str(registry.FieldEmail),
			LinkedInProfile: str(registry.FieldLinkedIn),
		},
	}, nil
}

// Failure extracts the field issues from an error returned by Execute.
func Failure(err error) (*ValidationFailure, bool) {
	var failure *ValidationFailure
	if errors.As(err, &failure) {
		return failure, true
	}
	return nil, false
}
