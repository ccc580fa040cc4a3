// internal/intake/send-notification/handler.go
package sendnotification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"tribe-intake/internal/common/logger"
	"tribe-intake/internal/common/metrics"
	"tribe-intake/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/google/uuid"
)

const (
	TaskType = "send-notification"
)

var (
	ErrNotificationSendFailed = errors.New("NOTIFICATION_SEND_FAILED")
)

// Define interfaces for mocking
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

const (
	acknowledgementSubject = "Welcome to The Breakout Tribe"
	acknowledgementBody    = "Hi {{name}},\n\nThanks for requesting to join The Breakout Tribe. " +
		"We received your application on {{submittedAt}} and will be in touch soon.\n\nThe Breakout Tribe"

	alertSubject = "New Breakout Tribe application"
	alertBody    = "New application {{applicantId}} from {{name}} ({{city}}, {{country}}). " +
		"Email: {{email}}. Phone: {{phone}}. Profile: {{linkedinProfile}}."
)

type Handler struct {
	config    *Config
	logger    logger.Logger
	sesClient SESService
	snsClient SNSService
	wg        sync.WaitGroup
}

// NewHandler builds a notifier. A nil client disables its channel.
func NewHandler(config *Config, sesClient SESService, snsClient SNSService, log logger.Logger) *Handler {
	return &Handler{
		config:    config,
		logger:    log.WithFields(map[string]interface{}{"taskType": TaskType}),
		sesClient: sesClient,
		snsClient: snsClient,
	}
}

// Notify sends the acknowledgement and the team alert for a stored
// applicant. It returns immediately unless the handler is synchronous;
// failures are logged and counted only.
func (h *Handler) Notify(applicant models.Applicant) {
	if !h.emailActive() && !h.alertActive() {
		return
	}

	run := func() {
		ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
		defer cancel()
		_, _ = h.execute(ctx, &Input{Applicant: applicant})
	}

	if h.config.Synchronous {
		run()
		return
	}

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		run()
	}()
}

// Wait blocks until in-flight notifications finish.
func (h *Handler) Wait() {
	h.wg.Wait()
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	a := input.Applicant
	sentAt := time.Now().UTC()

	data := map[string]interface{}{
		"applicantId":     a.ID,
		"name":            a.Name,
		"city":            a.City,
		"country":         a.Country,
		"email":           a.Email,
		"phone":           a.Phone,
		"linkedinProfile": a.LinkedInProfile,
		"submittedAt":     a.CreatedAt.UTC().Format("2 January 2006"),
	}

	out := &Output{
		NotificationID: uuid.New().String(),
		EmailStatus:    StatusDisabled,
		AlertStatus:    StatusDisabled,
		SentAt:         sentAt.Format(time.RFC3339),
	}

	var errs []error

	if h.emailActive() {
		if err := h.sendEmail(ctx, a.Email, renderTemplate(acknowledgementSubject, data), renderTemplate(acknowledgementBody, data)); err != nil {
			h.logger.Error("acknowledgement email failed", map[string]interface{}{
				"error":       err,
				"applicantId": a.ID,
			})
			out.EmailStatus = StatusFailed
			errs = append(errs, err)
		} else {
			out.EmailStatus = StatusSent
		}
		metrics.NotificationsTotal.WithLabelValues(ChannelEmail, out.EmailStatus).Inc()
	}

	if h.alertActive() {
		if err := h.publishAlert(ctx, renderTemplate(alertSubject, data), renderTemplate(alertBody, data)); err != nil {
			h.logger.Error("application alert failed", map[string]interface{}{
				"error":       err,
				"applicantId": a.ID,
			})
			out.AlertStatus = StatusFailed
			errs = append(errs, err)
		} else {
			out.AlertStatus = StatusSent
		}
		metrics.NotificationsTotal.WithLabelValues(ChannelAlert, out.AlertStatus).Inc()
	}

	if len(errs) > 0 {
		return out, fmt.Errorf("%w: %v", ErrNotificationSendFailed, errors.Join(errs...))
	}

	h.logger.Info("applicant notified", map[string]interface{}{
		"applicantId":    a.ID,
		"notificationId": out.NotificationID,
		"emailStatus":    out.EmailStatus,
		"alertStatus":    out.AlertStatus,
	})
	return out, nil
}

func (h *Handler) emailActive() bool {
	return h.config.EmailEnabled && h.sesClient != nil
}

func (h *Handler) alertActive() bool {
	return h.config.AlertsEnabled && h.snsClient != nil && h.config.TopicARN != ""
}

func (h *Handler) sendEmail(ctx context.Context, to, subject, body string) error {
	input := &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(h.config.FromEmail),
	}
	if h.config.ReplyTo != "" {
		input.ReplyToAddresses = []string{h.config.ReplyTo}
	}
	_, err := h.sesClient.SendEmail(ctx, input)
	return err
}

func (h *Handler) publishAlert(ctx context.Context, subject, message string) error {
	_, err := h.snsClient.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(h.config.TopicARN),
		Subject:  aws.String(subject),
		Message:  aws.String(message),
	})
	return err
}

// renderTemplate replaces {{key}} placeholders and drops unknown ones.
func renderTemplate(tmpl string, data map[string]interface{}) string {
	result := tmpl

	for k, v := range data {
		placeholder := "{{" + k + "}}"
		value := ""
		if s, ok := v.(string); ok {
			value = s
		} else if v != nil {
			value = fmt.Sprintf("%v", v)
		}
		result = strings.ReplaceAll(result, placeholder, value)
	}

	for {
		start := strings.Index(result, "{{")
		if start == -1 {
			break
		}
		end := strings.Index(result[start:], "}}")
		if end == -1 {
			break
		}
		end += start + 2
		result = result[:start] + result[end:]
	}

	return result
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
