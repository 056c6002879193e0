package models

import "time"

type DietRequest struct {
	ID             string
	ClientName     string
	ClientEmail    string
	ClientWhatsapp string
	PlanTier       string
	IntakeData     []byte
	GeneratedPlan  *string
	Status         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
