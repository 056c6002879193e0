package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/evolvinutri/backend/pkg/configuration"
)

type Email struct {
	From    string
	To      string
	Subject string
	HTML    string
}

type ResendClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewResendClient(opts configuration.ResendOptions) *ResendClient {
	return &ResendClient{
		baseURL: opts.BaseURL,
		apiKey:  opts.APIKey,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *ResendClient) Send(ctx context.Context, email Email) error {
	body, err := json.Marshal(map[string]any{
		"from":    email.From,
		"to":      []string{email.To},
		"subject": email.Subject,
		"html":    email.HTML,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("resend: send failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("resend: send returned %d: %s", resp.StatusCode, respBody)
	}
	return nil
}
