// internal/intake/submit-application/handler.go
package submitapplication

import (
	"fmt"
	"io"
	"net/http"

	apperrors "tribe-intake/internal/common/errors"
)

// Handler serves POST /api/submit-form.
type Handler struct {
	service    *Service
	errHandler *apperrors.ErrorHandler
	maxBody    int64
}

func NewHandler(config *Config, service *Service, errHandler *apperrors.ErrorHandler) *Handler {
	return &Handler{
		service:    service,
		errHandler: errHandler,
		maxBody:    config.MaxBodyBytes,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body := r.Body
	if h.maxBody > 0 {
		body = http.MaxBytesReader(w, r.Body, h.maxBody)
	}

	raw, err := io.ReadAll(body)
	if err != nil {
		h.errHandler.WriteError(w, r, apperrors.NewInternalError(fmt.Errorf("read body: %w", err)))
		return
	}

	out, err := h.service.Submit(r.Context(), raw)
	if err != nil {
		h.errHandler.WriteError(w, r, err)
		return
	}

	apperrors.WriteJSON(w, http.StatusCreated, out)
}
