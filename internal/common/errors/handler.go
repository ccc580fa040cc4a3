package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"
)

// ErrorHandler writes errors as JSON responses and logs them.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

type errorBody struct {
	Error  string    `json:"error"`
	Code    ErrorCode `json:"code,omitempty"`
	Details string    `json:"details,omitempty"`
	Issues  []Issue   `json:"issues,omitempty"`
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Normalize ensures we always have a StandardError.
func Normalize(err error) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// WriteError normalizes err and writes the public part of it. Internal
// errors are written without code or details.
func (h *ErrorHandler) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	stdErr := Normalize(err)
	status := HTTPStatus(stdErr.Code)

	h.logError(r, stdErr, status)

	body := errorBody{Error: stdErr.Message}
	switch stdErr.Code {
	case ErrCodeInternal:
		body.Error = MessageInternal
	case ErrCodeValidationFailed:
		body.Code = stdErr.Code
		body.Issues = stdErr.Issues
	case ErrCodeDuplicateApplication:
		body.Code = stdErr.Code
		body.Details = stdErr.Details
	default:
		body.Code = stdErr.Code
	}

	if secs, ok := stdErr.Metadata["retryAfterSeconds"].(int); ok {
		w.Header().Set("Retry-After", strconv.Itoa(secs))
	}
	WriteJSON(w, status, body)
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *ErrorHandler) logError(r *http.Request, stdErr *StandardError, status int) {
	fields := map[string]interface{}{
		"errorCode":     string(stdErr.Code),
		"errorCategory": GetErrorCategory(stdErr.Code),
		"status":        status,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
	}
	if r != nil {
		fields["method"] = r.Method
		fields["path"] = r.URL.Path
	}
	if len(stdErr.Issues) > 0 {
		issueFields := make([]string, 0, len(stdErr.Issues))
		for _, is := range stdErr.Issues {
			issueFields = append(issueFields, is.Field)
		}
		fields["issueFields"] = issueFields
	}

	if stdErr.Code == ErrCodeInternal {
		h.logger.Error("Request failed", fields)
		return
	}
	h.logger.Warn("Request rejected", fields)
}
