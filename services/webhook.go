package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"landing_relay_app_go/models"
)

// UpstreamError wraps a failure of the verification provider or the webhook.
// Its detail is logged, never shown to the caller.
type UpstreamError struct {
	Service string
	Err     error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Forwarder delivers a verified submission downstream
type Forwarder interface {
	Forward(ctx context.Context, payload *models.ForwardPayload) error
}

// WebhookClient posts submissions as JSON to an automation webhook (n8n)
type WebhookClient struct {
	URL    string
	Client *http.Client
}

// NewWebhookClient creates a webhook client
func NewWebhookClient(webhookURL string, client *http.Client) *WebhookClient {
	if client == nil {
		client = &http.Client{}
	}
	return &WebhookClient{URL: webhookURL, Client: client}
}

// Forward posts the payload once. Only the HTTP status is consumed.
func (w *WebhookClient) Forward(ctx context.Context, payload *models.ForwardPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(body))
	if err != nil {
		return &UpstreamError{Service: "webhook", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.Client.Do(req)
	if err != nil {
		return &UpstreamError{Service: "webhook", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &UpstreamError{
			Service: "webhook",
			Err:     fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(string(respBody), 200)),
		}
	}
	// Drain so the connection can be reused
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
