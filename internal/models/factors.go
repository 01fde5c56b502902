package models

// ConversionFactor is a single greenhouse-gas conversion factor from the
// published government dataset.
type ConversionFactor struct {
	ID          string  `json:"id"`
	Scope       string  `json:"scope"`
	Category    string  `json:"category"`
	Subcategory string  `json:"subcategory,omitempty"`
	Activity    string  `json:"activity"`
	Unit        string  `json:"unit"`
	Factor      float64 `json:"factor"`
	GasType     string  `json:"gasType"`
	Year        int     `json:"year"`
}

// FactorDatasetMetadata describes the loaded conversion-factor dataset.
type FactorDatasetMetadata struct {
	Year         int    `json:"year"`
	Source       string `json:"source"`
	FactorCount  int    `json:"factorCount"`
	PublishedAt  string `json:"publishedAt,omitempty"`
	LastRefresh  string `json:"lastRefresh,omitempty"`
}
