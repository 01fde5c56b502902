package sendcompliancealert

import "time"

type Config struct {
	Timeout        time.Duration
	FromEmail      string
	EmailEnabled   bool
	SMSEnabled     bool
	SMSPriorityMin string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:        15 * time.Second,
		FromEmail:      "compliance-alerts@example.com",
		EmailEnabled:   true,
		SMSEnabled:     false,
		SMSPriorityMin: "high",
	}
}
