package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/evolvinutri/backend/modules/dietplan/services"
	"github.com/evolvinutri/backend/pkg/application"
	"github.com/evolvinutri/backend/pkg/composables"
)

// Submitter is the background queue the webhook hands notifications to.
type Submitter interface {
	Submit(notification services.PaymentNotification)
}

type WebhookController struct {
	dispatcher Submitter
	basePath   string
}

func NewWebhookController(dispatcher Submitter) application.Controller {
	return &WebhookController{
		dispatcher: dispatcher,
		basePath:   "/api/webhook",
	}
}

func (c *WebhookController) Key() string {
	return c.basePath
}

func (c *WebhookController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("/payment", c.HandlePayment).Methods(http.MethodPost)
}

// HandlePayment always acknowledges with 200: a non-2xx response would make
// the provider redeliver indefinitely. Processing happens in the background.
func (c *WebhookController) HandlePayment(w http.ResponseWriter, r *http.Request) {
	logger := composables.UseLogger(r.Context())

	var notification services.PaymentNotification
	if err := json.NewDecoder(r.Body).Decode(&notification); err != nil {
		logger.WithError(err).Error("Failed to decode payment notification")
		writeJSON(w, http.StatusOK, map[string]string{
			"message": "Webhook received but failed to process internally.",
		})
		return
	}

	logger.WithField("payment_id", notification.Data.ID).Info("Payment notification received")
	c.dispatcher.Submit(notification)

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Webhook received successfully.",
	})
}
