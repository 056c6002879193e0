package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/evolvinutri/backend/pkg/configuration"
)

// brazilCountryCode is prepended to every destination number; clients enter
// local numbers on the form.
const brazilCountryCode = "55"

type ZAPIClient struct {
	baseURL     string
	instanceID  string
	token       string
	clientToken string
	http        *http.Client
}

func NewZAPIClient(opts configuration.ZAPIOptions) *ZAPIClient {
	return &ZAPIClient{
		baseURL:     opts.BaseURL,
		instanceID:  opts.InstanceID,
		token:       opts.Token,
		clientToken: opts.ClientToken,
		http:        &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *ZAPIClient) Send(ctx context.Context, phone, message string) error {
	body, err := json.Marshal(map[string]string{
		"phone":   NormalizePhone(phone),
		"message": message,
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/instances/%s/token/%s/send-text", c.baseURL, c.instanceID, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Client-Token", c.clientToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("zapi: send-text failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("zapi: send-text returned %d: %s", resp.StatusCode, respBody)
	}
	return nil
}

// NormalizePhone strips everything but digits and prefixes the country code.
func NormalizePhone(phone string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	return brazilCountryCode + digits.String()
}
