// Package distance resolves travel times through an OSRM-compatible routing
// service.
package distance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"talentmatch/internal/domain/matching"
)

type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns nil when no base URL is configured; callers treat a nil
// provider as "geometric estimate only".
func NewClient(baseURL string, timeout time.Duration) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type routeResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		DistanceMeters  float64 `json:"distance"`
		DurationSeconds float64 `json:"duration"`
	} `json:"routes"`
}

func (c *Client) Distance(ctx context.Context, origin, destination matching.Geo, mode string) (matching.DistanceResult, error) {
	if c == nil {
		return matching.DistanceResult{}, fmt.Errorf("%w: no routing service configured", matching.ErrDependencyUnavailable)
	}

	profile := "driving"
	if strings.TrimSpace(mode) != "" {
		profile = strings.TrimSpace(mode)
	}

	// OSRM takes lng,lat pairs.
	url := fmt.Sprintf("%s/route/v1/%s/%f,%f;%f,%f?overview=false",
		c.baseURL, profile, origin.Lng, origin.Lat, destination.Lng, destination.Lat)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return matching.DistanceResult{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return matching.DistanceResult{}, fmt.Errorf("%w: %v", matching.ErrDependencyUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return matching.DistanceResult{}, fmt.Errorf("%w: status %d", matching.ErrDependencyUnavailable, resp.StatusCode)
	}

	var body routeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return matching.DistanceResult{}, err
	}
	if body.Code != "Ok" || len(body.Routes) == 0 {
		return matching.DistanceResult{}, fmt.Errorf("routing service code %q", body.Code)
	}

	r := body.Routes[0]
	return matching.DistanceResult{
		DistanceKm:    r.DistanceMeters / 1000.0,
		TravelTimeMin: r.DurationSeconds / 60.0,
	}, nil
}
