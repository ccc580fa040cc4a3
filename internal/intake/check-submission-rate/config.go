// internal/intake/check-submission-rate/config.go
package checksubmissionrate

import "time"

type Config struct {
	Limit     int
	Window    time.Duration
	Block     time.Duration
	KeyPrefix string

	// TrustedProxies may forward the client address; nil trusts none.
	TrustedProxies *ProxyList
}

func LoadConfig() *Config {
	return &Config{
		Limit:     5,
		Window:    time.Minute,
		Block:     10 * time.Minute,
		KeyPrefix: "intake:submit",
	}
}
