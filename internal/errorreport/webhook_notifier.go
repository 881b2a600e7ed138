package errorreport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"github.com/stanstork/timeline-notify/internal/config"
	"github.com/stanstork/timeline-notify/internal/models"
)

// WebhookNotifier POSTs reports as JSON to the report's destination URL.
// A circuit breaker stops hammering a destination that keeps failing.
type WebhookNotifier struct {
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  zerolog.Logger
}

func NewWebhookNotifier(cfg config.ErrorReportConfig, client *http.Client, logger zerolog.Logger) *WebhookNotifier {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	logger = logger.With().Str("notifier", "webhook").Logger()
	maxFailures := cfg.BreakerMaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "error-report-webhook",
		Timeout: cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	})

	return &WebhookNotifier{client: client, breaker: breaker, logger: logger}
}

type webhookPayload struct {
	ID        string    `json:"id"`
	Plugin    string    `json:"plugin,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

func (n *WebhookNotifier) Notify(ctx context.Context, report models.ErrorReport) error {
	if report.Destination == "" {
		return nil
	}

	payload := webhookPayload{ID: report.ID, Message: report.Message, CreatedAt: report.CreatedAt}
	if report.Plugin != nil {
		payload.Plugin = string(*report.Plugin)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	_, err = n.breaker.Execute(func() (interface{}, error) {
		return nil, n.post(ctx, report.Destination, body)
	})
	if err != nil {
		return err
	}

	n.logger.Debug().Str("report_id", report.ID).Str("destination", report.Destination).Msg("error report delivered")
	return nil
}

func (n *WebhookNotifier) post(ctx context.Context, url string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("destination responded with status %d", resp.StatusCode)
	}
	return nil
}

func (n *WebhookNotifier) String() string {
	return "WebhookNotifier"
}
