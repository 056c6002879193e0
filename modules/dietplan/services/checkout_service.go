package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/evolvinutri/backend/modules/dietplan/domain/entities/dietrequest"
	"github.com/evolvinutri/backend/modules/dietplan/infrastructure/payments"
	"github.com/evolvinutri/backend/pkg/composables"
	"github.com/evolvinutri/backend/pkg/eventbus"
)

var planPrices = map[dietrequest.PlanTier]float64{
	dietrequest.TierBasic:   97.00,
	dietrequest.TierPremium: 197.00,
}

const checkoutCurrency = "BRL"

type CreateCheckoutDTO struct {
	ClientName     string
	ClientEmail    string
	ClientWhatsapp string
	PlanTier       string
	IntakeData     json.RawMessage
}

type CheckoutResult struct {
	CheckoutURL string    `json:"checkoutUrl"`
	RequestID   uuid.UUID `json:"requestId"`
}

type CheckoutServiceConfig struct {
	Repo      dietrequest.Repository
	Payments  PaymentProvider
	Publisher eventbus.EventBus

	NotificationURL string
	FrontendURL     string
}

type CheckoutService struct {
	repo      dietrequest.Repository
	payments  PaymentProvider
	publisher eventbus.EventBus

	notificationURL string
	frontendURL     string
}

func NewCheckoutService(cfg CheckoutServiceConfig) *CheckoutService {
	return &CheckoutService{
		repo:            cfg.Repo,
		payments:        cfg.Payments,
		publisher:       cfg.Publisher,
		notificationURL: cfg.NotificationURL,
		frontendURL:     cfg.FrontendURL,
	}
}

// CreateCheckout persists the request BEFORE opening the payment session so
// the provider can round-trip the record id as external_reference.
func (s *CheckoutService) CreateCheckout(ctx context.Context, dto CreateCheckoutDTO) (CheckoutResult, error) {
	tier, err := dietrequest.ParseTier(dto.PlanTier)
	if err != nil {
		return CheckoutResult{}, err
	}
	price := planPrices[tier]

	record, err := s.repo.Create(ctx, dietrequest.New(
		dto.ClientName,
		dto.ClientEmail,
		dto.ClientWhatsapp,
		tier,
		dto.IntakeData,
	))
	if err != nil {
		return CheckoutResult{}, fmt.Errorf("creating diet request: %w", err)
	}

	checkout, err := s.payments.CreatePreference(ctx, payments.PreferenceParams{
		Title:             "Evolvi Nutri - Plano " + titleCase(string(tier)),
		UnitPrice:         price,
		CurrencyID:        checkoutCurrency,
		PayerEmail:        dto.ClientEmail,
		ExternalReference: record.ID.String(),
		NotificationURL:   s.notificationURL,
		BackURLs: payments.BackURLs{
			Success: s.frontendURL + "/pagamento/sucesso",
			Failure: s.frontendURL + "/pagamento/falha",
			Pending: s.frontendURL + "/pagamento/pendente",
		},
	})
	if err != nil {
		return CheckoutResult{}, fmt.Errorf("creating payment preference: %w", err)
	}

	composables.UseLogger(ctx).WithField("request_id", record.ID).Info("Checkout session created")
	if s.publisher != nil {
		s.publisher.Publish(dietrequest.CreatedEvent{RequestID: record.ID, Tier: tier})
	}

	return CheckoutResult{CheckoutURL: checkout.URL, RequestID: record.ID}, nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
