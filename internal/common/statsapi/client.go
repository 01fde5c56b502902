// Package statsapi is a thin client for the government emissions statistics
// API. The postgres benchmark provider can be swapped for this client without
// touching scoring logic.
package statsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	ErrStatsAPITimeout = errors.New("STATS_API_TIMEOUT")
	ErrStatsAPIFailed  = errors.New("STATS_API_FAILED")
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
}

func NewClient(baseURL string, timeout time.Duration, maxRetries int) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		maxRetries: maxRetries,
	}
}

// SectorIntensity holds per-sector emissions intensity statistics.
type SectorIntensity struct {
	Sector           string  `json:"sector"`
	AverageIntensity float64 `json:"averageIntensity"`
	MedianIntensity  float64 `json:"medianIntensity"`
	DataPoints       int     `json:"dataPoints"`
}

// NationalEmissions holds national per-company emissions statistics.
type NationalEmissions struct {
	AverageCompanyEmissions float64 `json:"averageCompanyEmissions"`
	MedianCompanyEmissions  float64 `json:"medianCompanyEmissions"`
	TotalCompanies          int     `json:"totalCompanies"`
}

// PathwayRequirement holds the sector net-zero pathway requirement.
type PathwayRequirement struct {
	Sector                  string  `json:"sector"`
	RequiredAnnualReduction float64 `json:"requiredAnnualReduction"`
}

// GetSectorIntensity fetches sector intensity statistics for a reporting year.
func (c *Client) GetSectorIntensity(ctx context.Context, sector string, year int) (*SectorIntensity, error) {
	var out SectorIntensity
	path := fmt.Sprintf("/v1/benchmarks/sectors/%s?year=%d", sector, year)
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetNationalEmissions fetches national company emissions statistics.
func (c *Client) GetNationalEmissions(ctx context.Context, year int) (*NationalEmissions, error) {
	var out NationalEmissions
	path := fmt.Sprintf("/v1/benchmarks/national?year=%d", year)
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetPathwayRequirement fetches the net-zero pathway requirement for a sector.
func (c *Client) GetPathwayRequirement(ctx context.Context, sector string, year int) (*PathwayRequirement, error) {
	var out PathwayRequirement
	path := fmt.Sprintf("/v1/pathways/%s?year=%d", sector, year)
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStatsAPIFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ErrStatsAPITimeout
			}
		}

		resp, lastErr = c.httpClient.Do(req)

		if ctx.Err() != nil ||
			errors.Is(lastErr, context.DeadlineExceeded) ||
			errors.Is(lastErr, context.Canceled) {
			return ErrStatsAPITimeout
		}

		if lastErr == nil {
			if resp.StatusCode == http.StatusOK {
				break
			}
			resp.Body.Close()
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			resp = nil
		}
	}

	if lastErr != nil {
		return fmt.Errorf("%w: %v", ErrStatsAPIFailed, lastErr)
	}
	if resp == nil {
		return fmt.Errorf("%w: no successful response after retries", ErrStatsAPIFailed)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode error: %v", ErrStatsAPIFailed, err)
	}
	return nil
}
