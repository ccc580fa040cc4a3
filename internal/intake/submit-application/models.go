// internal/intake/submit-application/models.go
package submitapplication

import "tribe-intake/internal/models"

// MessageCreated is returned with every 201 response.
const MessageCreated = "Application received"

type Output struct {
	Message   string           `json:"message"`
	Applicant models.Applicant `json:"applicant"`
}

// Notifier is told about every stored applicant. It must not block.
type Notifier interface {
	Notify(applicant models.Applicant)
}
