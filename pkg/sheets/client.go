// Package sheets posts qualified leads to a spreadsheet webhook, one row
// per call.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

// Row is the wire format the webhook expects for a single lead.
type Row struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	LinkedInURL string `json:"linkedinUrl"`
	PostContent string `json:"postContent"`
	Status      string `json:"status"`
	Email       string `json:"email,omitempty"`
}

// Client appends rows to the configured sheet.
type Client interface {
	AppendRow(ctx context.Context, row Row) error
}

// StatusError reports a non-2xx webhook response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("sheets: webhook returned status %d: %s", e.Code, e.Body)
}

type client struct {
	webhookURL string
	httpClient *http.Client
}

// Option configures the client.
type Option func(*client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.httpClient = hc
	}
}

// NewClient creates a webhook client for the given URL.
func NewClient(webhookURL string, opts ...Option) Client {
	c := &client{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *client) AppendRow(ctx context.Context, row Row) error {
	payload, err := json.Marshal(row)
	if err != nil {
		return eris.Wrap(err, "sheets: marshal row")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return eris.Wrap(err, "sheets: create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return eris.Wrap(err, "sheets: post row")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Code: resp.StatusCode, Body: string(body)}
	}
	return nil
}
