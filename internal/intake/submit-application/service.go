// internal/intake/submit-application/service.go
package submitapplication

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apperrors "tribe-intake/internal/common/errors"
	"tribe-intake/internal/common/logger"
	"tribe-intake/internal/common/metrics"
	"tribe-intake/internal/common/observability"
	createapplicationrecord "tribe-intake/internal/intake/create-application-record"
	validateapplicationdata "tribe-intake/internal/intake/validate-application-data"
)

const (
	TaskType = "submit-application"
)

type Service struct {
	config    *Config
	validator *validateapplicationdata.Handler
	creator   *createapplicationrecord.Handler
	notifier  Notifier
	obs       *observability.Observability
	logger    logger.Logger
}

// NewService wires the intake pipeline. notifier and obs may be nil.
func NewService(
	config *Config,
	validator *validateapplicationdata.Handler,
	creator *createapplicationrecord.Handler,
	notifier Notifier,
	obs *observability.Observability,
	log logger.Logger,
) *Service {
	return &Service{
		config:    config,
		validator: validator,
		creator:   creator,
		notifier:  notifier,
		obs:       obs,
		logger:    log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

// Submit validates, normalizes and stores one application. Errors are
// *apperrors.StandardError: validation, conflict or internal.
func (s *Service) Submit(ctx context.Context, raw []byte) (*Output, error) {
	start := time.Now()
	outcome := metrics.OutcomeFailed
	defer func() {
		elapsed := time.Since(start)
		metrics.SubmissionsTotal.WithLabelValues(outcome).Inc()
		metrics.SubmissionDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
		s.obs.RecordApplicationProcessed(ctx, outcome)
		s.obs.RecordApplicationDuration(ctx, elapsed, outcome)
	}()

	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, apperrors.NewInternalError(fmt.Errorf("decode payload: %w", err))
	}
	if doc == nil {
		return nil, apperrors.NewInternalError(errors.New("decode payload: body is null"))
	}

	validated, err := s.validator.Execute(ctx, &validateapplicationdata.Input{Document: doc})
	if err != nil {
		failure, ok := validateapplicationdata.Failure(err)
		if !ok {
			return nil, apperrors.NewInternalError(err)
		}
		outcome = metrics.OutcomeInvalid
		issues := make([]apperrors.Issue, 0, len(failure.Errors))
		for _, e := range failure.Errors {
			metrics.ValidationIssuesTotal.WithLabelValues(e.Field, e.Code).Inc()
			issues = append(issues, apperrors.Issue{Field: e.Field, Code: e.Code, Message: e.Message})
		}
		return nil, apperrors.NewValidationError(issues)
	}

	created, err := s.creator.Execute(ctx, &createapplicationrecord.Input{Applicant: validated.Applicant})
	if err != nil {
		if errors.Is(err, createapplicationrecord.ErrDuplicateApplication) {
			outcome = metrics.OutcomeDuplicate
			return nil, apperrors.NewConflictError(err)
		}
		return nil, apperrors.NewInternalError(err)
	}

	outcome = metrics.OutcomeCreated
	if s.notifier != nil {
		s.notifier.Notify(created.Applicant)
	}

	s.logger.Info("application accepted", map[string]interface{}{
		"applicantId": created.Applicant.ID,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return &Output{
		Message:   MessageCreated,
		Applicant: created.Applicant,
	}, nil
}
