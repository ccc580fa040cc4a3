// internal/intake/send-notification/models.go
package sendnotification

import "tribe-intake/internal/models"

type Input struct {
	Applicant models.Applicant
}

type Output struct {
	NotificationID string `json:"notificationId"`
	EmailStatus    string `json:"emailStatus"`
	AlertStatus    string `json:"alertStatus"`
	SentAt         string `json:"sentAt"` // ISO 8601
}

// Channels
const (
	ChannelEmail = "email"
	ChannelAlert = "alert"
)

// Statuses
const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
)
