package dietrequest

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound          = errors.New("diet request not found")
	ErrInvalidTier       = errors.New("invalid plan tier")
	ErrInvalidTransition = errors.New("invalid status transition")
)

type PlanTier string

const (
	TierBasic   PlanTier = "basic"
	TierPremium PlanTier = "premium"
)

func ParseTier(raw string) (PlanTier, error) {
	switch PlanTier(raw) {
	case TierBasic:
		return TierBasic, nil
	case TierPremium:
		return TierPremium, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidTier, raw)
	}
}

type Status string

const (
	StatusPendingPayment       Status = "pending_payment"
	StatusPaymentReceived      Status = "payment_received"
	StatusGeneratingPlan       Status = "generating_plan"
	StatusPlanSent             Status = "plan_sent"
	StatusAwaitingManualReview Status = "awaiting_manual_review"
	StatusError                Status = "error"
)

// transitions is the forward-only lifecycle. A record never regresses and
// terminal states have no outgoing edges.
var transitions = map[Status][]Status{
	StatusPendingPayment:  {StatusPaymentReceived},
	StatusPaymentReceived: {StatusGeneratingPlan, StatusAwaitingManualReview, StatusError},
	StatusGeneratingPlan:  {StatusPlanSent, StatusError},
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// DietRequest tracks one client's purchase and fulfillment lifecycle. It is
// created once by the checkout flow and mutated only by the fulfillment
// service afterwards.
type DietRequest struct {
	ID             uuid.UUID       `json:"id"`
	ClientName     string          `json:"client_name"`
	ClientEmail    string          `json:"client_email"`
	ClientWhatsapp string          `json:"client_whatsapp"`
	PlanTier       PlanTier        `json:"plan_tier"`
	IntakeData     json.RawMessage `json:"intake_data"`
	GeneratedPlan  *string         `json:"generated_plan,omitempty"`
	Status         Status          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func New(name, email, whatsapp string, tier PlanTier, intake json.RawMessage) *DietRequest {
	return &DietRequest{
		ClientName:     name,
		ClientEmail:    email,
		ClientWhatsapp: whatsapp,
		PlanTier:       tier,
		IntakeData:     intake,
		Status:         StatusPendingPayment,
	}
}

// Transition mutates the in-memory status after validating the edge. The
// persisted status is guarded separately by Repository.TransitionStatus.
func (r *DietRequest) Transition(next Status) error {
	if !r.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.Status, next)
	}
	r.Status = next
	return nil
}
