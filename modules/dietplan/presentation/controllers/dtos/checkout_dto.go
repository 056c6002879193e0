package dtos

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/evolvinutri/backend/modules/dietplan/services"
	"github.com/evolvinutri/backend/pkg/constants"
)

// CreateCheckoutRequest mirrors the frontend's checkout payload. Field names
// follow the public API contract, not Go conventions.
type CreateCheckoutRequest struct {
	ClientName     string          `json:"clientName" validate:"required"`
	ClientEmail    string          `json:"clientEmail" validate:"required,email"`
	ClientWhatsapp string          `json:"clientWhatsapp" validate:"required"`
	PlanType       string          `json:"planType" validate:"required,oneof=basic premium"`
	FormData       json.RawMessage `json:"formData" validate:"required"`
}

func (d *CreateCheckoutRequest) Ok() (map[string]string, bool) {
	errorMessages := map[string]string{}
	errs := constants.Validate.Struct(d)
	if errs == nil {
		return errorMessages, true
	}
	for _, err := range errs.(validator.ValidationErrors) {
		errorMessages[err.Field()] = fmt.Sprintf("failed on '%s' validation", err.Tag())
	}
	return errorMessages, false
}

func (d *CreateCheckoutRequest) ToDTO() services.CreateCheckoutDTO {
	return services.CreateCheckoutDTO{
		ClientName:     d.ClientName,
		ClientEmail:    d.ClientEmail,
		ClientWhatsapp: d.ClientWhatsapp,
		PlanTier:       d.PlanType,
		IntakeData:     d.FormData,
	}
}
