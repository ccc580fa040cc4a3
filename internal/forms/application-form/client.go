// internal/forms/application-form/client.go
package applicationform

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	apperrors "tribe-intake/internal/common/errors"
	httpclient "tribe-intake/internal/common/http"
	"tribe-intake/internal/common/logger"
	"tribe-intake/internal/models"
)

const SubmitPath = "/api/submit-form"

type Outcome string

const (
	OutcomeCreated   Outcome = "created"
	OutcomeRejected  Outcome = "rejected"
	OutcomeConflict  Outcome = "conflict"
	OutcomeThrottled Outcome = "throttled"
	OutcomeFailed    Outcome = "failed"
)

// SubmitResult is what the form shows after a submit attempt.
type SubmitResult struct {
	Outcome     Outcome
	Applicant   *models.Applicant
	FieldErrors map[string]string
	Message     string
	RetryAfter  time.Duration
}

type Client struct {
	baseURL    string
	httpClient *httpclient.Client
	validator  *Validator
	logger     logger.Logger
}

func NewClient(baseURL string, hc *httpclient.Client, validator *Validator, log logger.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: hc,
		validator:  validator,
		logger:     log,
	}
}

type createdBody struct {
	Message   string           `json:"message"`
	Applicant models.Applicant `json:"applicant"`
}

type errorBody struct {
	Error  string            `json:"error"`
	Code   string            `json:"code"`
	Issues []apperrors.Issue `json:"issues"`
}

// Submit validates draft locally and only posts it when valid. A returned
// error means the service could not be reached or answered unreadably.
func (c *Client) Submit(ctx context.Context, draft Draft) (*SubmitResult, error) {
	local := c.validator.Validate(draft)
	if !local.Valid {
		return &SubmitResult{Outcome: OutcomeRejected, FieldErrors: local.FieldErrors}, nil
	}

	resp, err := c.httpClient.PostJSON(ctx, c.baseURL+SubmitPath, local.Payload)
	if err != nil {
		c.logger.Warn("submission request failed", map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	if resp.StatusCode == http.StatusCreated {
		var body createdBody
		if err := json.Unmarshal(resp.Body, &body); err != nil {
			return nil, fmt.Errorf("decode created response: %w", err)
		}
		return &SubmitResult{Outcome: OutcomeCreated, Applicant: &body.Applicant, Message: body.Message}, nil
	}

	var body errorBody
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, fmt.Errorf("decode %d response: %w", resp.StatusCode, err)
	}

	result := &SubmitResult{Message: body.Error}
	switch resp.StatusCode {
	case http.StatusBadRequest:
		result.Outcome = OutcomeRejected
		result.FieldErrors = make(map[string]string, len(body.Issues))
		for _, issue := range body.Issues {
			if _, seen := result.FieldErrors[issue.Field]; !seen {
				result.FieldErrors[issue.Field] = issue.Message
			}
		}
	case http.StatusConflict:
		result.Outcome = OutcomeConflict
	case http.StatusTooManyRequests:
		result.Outcome = OutcomeThrottled
		if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil {
			result.RetryAfter = time.Duration(secs) * time.Second
		}
	default:
		result.Outcome = OutcomeFailed
	}

	c.logger.Debug("submission not accepted", map[string]interface{}{
		"status":  resp.StatusCode,
		"outcome": string(result.Outcome),
	})
	return result, nil
}
