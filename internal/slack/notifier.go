package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hal/stalemr/internal/log"
)

// Notifier delivers payloads to incoming webhooks. One attempt per send, no
// retry: a failed delivery is surfaced to the caller, never swallowed.
type Notifier struct {
	httpClient *http.Client
}

// NewNotifier creates a webhook notifier.
func NewNotifier() *Notifier {
	return NewNotifierWithHTTPClient(&http.Client{Timeout: 30 * time.Second})
}

// NewNotifierWithHTTPClient creates a notifier with a caller-supplied HTTP
// client. Used by tests to point at a local server.
func NewNotifierWithHTTPClient(httpClient *http.Client) *Notifier {
	return &Notifier{httpClient: httpClient}
}

// Send posts one payload to the webhook. Any non-2xx response is a failure.
func (n *Notifier) Send(ctx context.Context, webhookURL string, payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("send webhook: unexpected status %d", resp.StatusCode)
	}
	log.Info("notification sent")
	return nil
}
