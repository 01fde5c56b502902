package lookupconversionfactors

import "time"

type Config struct {
	DatasetYear int
	MaxResults  int
	Timeout     time.Duration
}

func LoadConfig() *Config {
	return &Config{
		DatasetYear: 2025,
		MaxResults:  20,
		Timeout:     10 * time.Second,
	}
}
