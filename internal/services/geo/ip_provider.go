package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/tripscout/tripscout/internal/interfaces"
)

// IPProvider resolves a coarse position from an IP geolocation endpoint in
// the ip-api.com response shape: {"status":"success","lat":...,"lon":...}.
type IPProvider struct {
	endpoint   string
	httpClient *http.Client
	logger     arbor.ILogger
}

// NewIPProvider creates the provider. An empty endpoint returns nil, which
// the locator treats as geolocation unsupported.
func NewIPProvider(endpoint string, logger arbor.ILogger) interfaces.GeoProvider {
	if endpoint == "" {
		return nil
	}
	return &IPProvider{
		endpoint:   endpoint,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

type ipPositionResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message,omitempty"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// CurrentPosition queries the endpoint. The caller's context carries the
// timeout.
func (p *IPProvider) CurrentPosition(ctx context.Context) (float64, float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to build position request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return 0, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("position endpoint returned status %d", resp.StatusCode)
	}

	var pos ipPositionResponse
	if err := json.NewDecoder(resp.Body).Decode(&pos); err != nil {
		return 0, 0, fmt.Errorf("failed to decode position response: %w", err)
	}

	if pos.Status != "success" {
		p.logger.Warn().Str("status", pos.Status).Str("message", pos.Message).Msg("Position lookup refused")
		return 0, 0, interfaces.ErrGeoDenied
	}

	return pos.Lat, pos.Lon, nil
}
