// internal/intake/send-notification/config.go
package sendnotification

import "time"

type Config struct {
	EmailEnabled  bool
	AlertsEnabled bool
	FromEmail     string
	ReplyTo       string
	TopicARN      string
	Timeout       time.Duration
	// Synchronous runs Notify inline instead of in a goroutine.
	Synchronous bool
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
