package services

import (
	"context"
	"encoding/json"

	"github.com/evolvinutri/backend/modules/dietplan/infrastructure/delivery"
	"github.com/evolvinutri/backend/modules/dietplan/infrastructure/payments"
)

// Collaborator contracts the services depend on. Adapters live under
// infrastructure; tests substitute doubles.

type PaymentProvider interface {
	LookupPayment(ctx context.Context, paymentID string) (payments.PaymentInfo, error)
	CreatePreference(ctx context.Context, params payments.PreferenceParams) (payments.Checkout, error)
}

type PlanGenerator interface {
	Generate(ctx context.Context, intake json.RawMessage) (string, error)
}

type MessageSender interface {
	Send(ctx context.Context, phone, message string) error
}

type EmailSender interface {
	Send(ctx context.Context, email delivery.Email) error
}
