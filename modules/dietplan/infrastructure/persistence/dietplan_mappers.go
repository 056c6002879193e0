package persistence

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/evolvinutri/backend/modules/dietplan/domain/entities/dietrequest"
	"github.com/evolvinutri/backend/modules/dietplan/infrastructure/persistence/models"
)

func toDomainDietRequest(row *models.DietRequest) (*dietrequest.DietRequest, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return nil, err
	}
	return &dietrequest.DietRequest{
		ID:             id,
		ClientName:     row.ClientName,
		ClientEmail:    row.ClientEmail,
		ClientWhatsapp: row.ClientWhatsapp,
		PlanTier:       dietrequest.PlanTier(row.PlanTier),
		IntakeData:     json.RawMessage(row.IntakeData),
		GeneratedPlan:  row.GeneratedPlan,
		Status:         dietrequest.Status(row.Status),
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}, nil
}

func toDBDietRequest(r *dietrequest.DietRequest) *models.DietRequest {
	row := &models.DietRequest{
		ClientName:     r.ClientName,
		ClientEmail:    r.ClientEmail,
		ClientWhatsapp: r.ClientWhatsapp,
		PlanTier:       string(r.PlanTier),
		IntakeData:     []byte(r.IntakeData),
		GeneratedPlan:  r.GeneratedPlan,
		Status:         string(r.Status),
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
	if r.ID != uuid.Nil {
		row.ID = r.ID.String()
	}
	return row
}
