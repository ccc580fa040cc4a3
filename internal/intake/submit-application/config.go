// internal/intake/submit-application/config.go
package submitapplication

import "time"

type Config struct {
	Timeout      time.Duration
	MaxBodyBytes int64
}

func LoadConfig() *Config {
	return &Config{
		Timeout:      5 * time.Second,
		MaxBodyBytes: 64 << 10,
	}
}
