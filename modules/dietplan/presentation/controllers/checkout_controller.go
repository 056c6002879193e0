package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/evolvinutri/backend/modules/dietplan/presentation/controllers/dtos"
	"github.com/evolvinutri/backend/modules/dietplan/services"
	"github.com/evolvinutri/backend/pkg/application"
	"github.com/evolvinutri/backend/pkg/composables"
)

type CheckoutController struct {
	checkoutService *services.CheckoutService
	basePath        string
}

func NewCheckoutController(app application.Application) application.Controller {
	return &CheckoutController{
		checkoutService: app.Service(services.CheckoutService{}).(*services.CheckoutService),
		basePath:        "/api/checkout",
	}
}

func (c *CheckoutController) Key() string {
	return c.basePath
}

func (c *CheckoutController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("/create-payment", c.CreatePayment).Methods(http.MethodPost)
}

func (c *CheckoutController) CreatePayment(w http.ResponseWriter, r *http.Request) {
	logger := composables.UseLogger(r.Context())

	var payload dtos.CreateCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if fieldErrors, ok := payload.Ok(); !ok {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "Dados incompletos para criar o pagamento.",
			"fields": fieldErrors,
		})
		return
	}

	result, err := c.checkoutService.CreateCheckout(r.Context(), payload.ToDTO())
	if err != nil {
		logger.WithError(err).Error("Failed to create checkout")
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "Falha ao criar o checkout de pagamento.",
		})
		return
	}

	writeJSON(w, http.StatusOK, result)
}
