package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"reclockd/internal/config"
)

const userAgent = "reclockd/0.1"

// Event describes the leadership change being announced.
type Event struct {
	Node        string `json:"node"`
	Volume      string `json:"volume"`
	ReclockPath string `json:"reclock_path"`
	Pid         int    `json:"pid"`
	AcquiredAt  string `json:"acquired_at"`
}

// Service is the notification surface exposed to the runner.
type Service interface {
	NotifyLeaderAcquired(ctx context.Context, event Event) error
}

// NewService builds a notification service for the configured endpoint.
// When no endpoint is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	endpoint := strings.TrimSpace(cfg.NotifyURL)
	if endpoint == "" {
		return noopService{}
	}
	return &httpService{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// FireAndForget delivers the event and swallows any failure, logging it at
// warn. This is the only way the runner invokes the service.
func FireAndForget(ctx context.Context, svc Service, logger *slog.Logger, event Event) {
	if err := svc.NotifyLeaderAcquired(ctx, event); err != nil {
		logger.Warn("leadership notification failed", "error", err)
	}
}

type httpService struct {
	endpoint string
	client   *http.Client
}

func (s *httpService) NotifyLeaderAcquired(ctx context.Context, event Event) error {
	if event.AcquiredAt == "" {
		event.AcquiredAt = time.Now().UTC().Format(time.RFC3339)
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode leadership event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build leadership notification: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send leadership notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("notification endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyLeaderAcquired(context.Context, Event) error { return nil }
