package searchcorpus

import "time"

type Config struct {
	Index      string
	MaxResults int
	Timeout    time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Index:      "regulatory-documents",
		MaxResults: 20,
		Timeout:    15 * time.Second,
	}
}
