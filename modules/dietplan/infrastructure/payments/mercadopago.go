package payments

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

// PaymentInfo is the authoritative payment state from the provider.
// ExternalReference round-trips the diet request id supplied at checkout time.
type PaymentInfo struct {
	Status            string
	ExternalReference string
}

const StatusApproved = "approved"

type BackURLs struct {
	Success string `json:"success"`
	Failure string `json:"failure"`
	Pending string `json:"pending"`
}

type PreferenceParams struct {
	Title             string
	UnitPrice         float64
	CurrencyID        string
	PayerEmail        string
	ExternalReference string
	NotificationURL   string
	BackURLs          BackURLs
}

type Checkout struct {
	PreferenceID string
	URL          string
}

type MercadoPagoClient struct {
	baseURL     string
	accessToken string
	http        *http.Client
}

func NewMercadoPagoClient(opts configuration.MercadoPagoOptions) *MercadoPagoClient {
	return &MercadoPagoClient{
		baseURL:     opts.BaseURL,
		accessToken: opts.AccessToken,
		http:        &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *MercadoPagoClient) LookupPayment(ctx context.Context, paymentID string) (PaymentInfo, error) {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		fmt.Sprintf("%s/v1/payments/%s", c.baseURL, paymentID),
		nil,
	)
	if err != nil {
		return PaymentInfo{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return PaymentInfo{}, fmt.Errorf("mercadopago: payment lookup failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return PaymentInfo{}, fmt.Errorf("mercadopago: payment lookup returned %d: %s", resp.StatusCode, body)
	}

	var payload struct {
		Status            string `json:"status"`
		ExternalReference string `json:"external_reference"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return PaymentInfo{}, fmt.Errorf("mercadopago: decoding payment response: %w", err)
	}
	return PaymentInfo{
		Status:            payload.Status,
		ExternalReference: payload.ExternalReference,
	}, nil
}

func (c *MercadoPagoClient) CreatePreference(ctx context.Context, params PreferenceParams) (Checkout, error) {
	body := map[string]any{
		"items": []map[string]any{
			{
				"title":       params.Title,
				"quantity":    1,
				"currency_id": params.CurrencyID,
				"unit_price":  params.UnitPrice,
			},
		},
		"payer": map[string]any{
			"email": params.PayerEmail,
		},
		"back_urls":          params.BackURLs,
		"notification_url":   params.NotificationURL,
		"external_reference": params.ExternalReference,
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return Checkout{}, err
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/checkout/preferences",
		bytes.NewReader(raw),
	)
	if err != nil {
		return Checkout{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Checkout{}, fmt.Errorf("mercadopago: preference creation failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Checkout{}, fmt.Errorf("mercadopago: preference creation returned %d: %s", resp.StatusCode, respBody)
	}

	var payload struct {
		ID        string `json:"id"`
		InitPoint string `json:"init_point"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Checkout{}, fmt.Errorf("mercadopago: decoding preference response: %w", err)
	}
	return Checkout{PreferenceID: payload.ID, URL: payload.InitPoint}, nil
}
