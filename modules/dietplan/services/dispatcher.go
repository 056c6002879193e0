package services

import (
	"context"

	"github.com/sirupsen/logrus"
)

type NotificationProcessor interface {
	ProcessPaymentNotification(ctx context.Context, notification PaymentNotification)
}

// FulfillmentDispatcher decouples the webhook acknowledgment from
// fulfillment: the controller submits and returns 200 immediately, a single
// background worker drains the queue.
type FulfillmentDispatcher struct {
	queue     chan PaymentNotification
	processor NotificationProcessor
	logger    *logrus.Logger
}

func NewFulfillmentDispatcher(processor NotificationProcessor, queueSize int, logger *logrus.Logger) *FulfillmentDispatcher {
	return &FulfillmentDispatcher{
		queue:     make(chan PaymentNotification, queueSize),
		processor: processor,
		logger:    logger,
	}
}

// Submit enqueues without blocking. When the queue is full the notification
// is dropped and logged; the record stays in pending_payment and can be
// resolved from the provider's dashboard.
func (d *FulfillmentDispatcher) Submit(notification PaymentNotification) {
	select {
	case d.queue <- notification:
	default:
		d.logger.WithField("payment_id", notification.Data.ID).
			Error("Fulfillment queue full, dropping notification")
	}
}

// Run drains the queue until the context is canceled. Notifications are
// handled one at a time, so two deliveries for the same payment are never
// processed concurrently by this worker.
func (d *FulfillmentDispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case notification := <-d.queue:
			d.processor.ProcessPaymentNotification(ctx, notification)
		}
	}
}
