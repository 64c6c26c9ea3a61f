// Package backend is the HTTP transport to the remote scoring service. It
// carries the three endpoints the engine talks to: /recommend, /chat and
// /feedback.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/tripscout/tripscout/internal/common"
	"github.com/tripscout/tripscout/internal/models"
)

// Service implements RecommendClient, ChatClient and FeedbackSender.
type Service struct {
	config     *common.BackendConfig
	logger     arbor.ILogger
	httpClient *http.Client
}

// NewService creates a backend client with the configured request timeout.
func NewService(config *common.BackendConfig, logger arbor.ILogger) *Service {
	return &Service{
		config: config,
		logger: logger,
		httpClient: &http.Client{
			Timeout: config.RequestTimeout,
		},
	}
}

// Recommend posts a recommendation request and returns the scored results.
func (s *Service) Recommend(ctx context.Context, req models.RecommendRequest) (*models.RecommendResponse, error) {
	s.logger.Info().
		Str("search_mode", string(req.SearchMode)).
		Str("city", req.City).
		Int("radius_m", req.RadiusM).
		Int("activities", len(req.Activities)).
		Msg("Requesting recommendations")

	var resp models.RecommendResponse
	if err := s.postJSON(ctx, "/recommend", req, &resp); err != nil {
		return nil, fmt.Errorf("recommend request failed: %w", err)
	}

	s.logger.Info().
		Str("request_id", resp.RequestID).
		Int("results", len(resp.Recommendations)).
		Str("data_source", resp.DataSource).
		Msg("Recommendations received")

	return &resp, nil
}

// Interpret posts a chat message with the current request context and returns
// the interpreter reply plus preference updates.
func (s *Service) Interpret(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	var resp models.ChatResponse
	if err := s.postJSON(ctx, "/chat", req, &resp); err != nil {
		return nil, fmt.Errorf("chat request failed: %w", err)
	}

	s.logger.Debug().
		Int("updates", len(resp.Updates)).
		Msg("Interpreter reply received")

	return &resp, nil
}

// SendFeedback posts one feedback event. The response body is discarded.
func (s *Service) SendFeedback(ctx context.Context, event models.FeedbackEvent) error {
	if err := s.postJSON(ctx, "/feedback", event, nil); err != nil {
		return fmt.Errorf("feedback request failed: %w", err)
	}
	return nil
}

// postJSON posts the payload to path under the base URL and decodes the
// response into out when out is non-nil. Non-2xx statuses are errors.
func (s *Service) postJSON(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("backend returned status %d: %s", resp.StatusCode, string(detail))
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
