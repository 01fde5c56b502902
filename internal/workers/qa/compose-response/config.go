package composeresponse

import "time"

type Config struct {
	Timeout      time.Duration
	MaxDocuments int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:      10 * time.Second,
		MaxDocuments: 3,
	}
}
