package dietrequest

import "github.com/google/uuid"

type CreatedEvent struct {
	RequestID uuid.UUID
	Tier      PlanTier
}

type PlanSentEvent struct {
	RequestID uuid.UUID
}

type ManualReviewRequestedEvent struct {
	RequestID uuid.UUID
}

type FulfillmentFailedEvent struct {
	RequestID uuid.UUID
	Step      string
}
