package handlers

import (
	"github.com/sirupsen/logrus"

	"github.com/evolvinutri/backend/modules/dietplan/domain/entities/dietrequest"
	"github.com/evolvinutri/backend/pkg/application"
)

// RegisterFulfillmentEventHandlers subscribes audit-log handlers for the
// lifecycle events emitted by the dietplan services.
func RegisterFulfillmentEventHandlers(app application.Application) {
	logger := app.Logger()

	app.EventPublisher().Subscribe(func(e dietrequest.CreatedEvent) {
		logger.WithFields(logrus.Fields{
			"request_id": e.RequestID,
			"tier":       e.Tier,
		}).Info("Diet request created")
	})
	app.EventPublisher().Subscribe(func(e dietrequest.PlanSentEvent) {
		logger.WithField("request_id", e.RequestID).Info("Diet plan delivered")
	})
	app.EventPublisher().Subscribe(func(e dietrequest.ManualReviewRequestedEvent) {
		logger.WithField("request_id", e.RequestID).Info("Diet request awaiting manual review")
	})
	app.EventPublisher().Subscribe(func(e dietrequest.FulfillmentFailedEvent) {
		logger.WithFields(logrus.Fields{
			"request_id": e.RequestID,
			"step":       e.Step,
		}).Error("Diet request fulfillment failed")
	})
}
