package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/evolvinutri/backend/modules/dietplan/domain/entities/dietrequest"
	"github.com/evolvinutri/backend/modules/dietplan/infrastructure/persistence/models"
	"github.com/evolvinutri/backend/pkg/composables"
)

const dietRequestColumns = `id, client_name, client_email, client_whatsapp, plan_tier, intake_data, generated_plan, status, created_at, updated_at`

type DietRequestRepository struct{}

func NewDietRequestRepository() dietrequest.Repository {
	return &DietRequestRepository{}
}

func (r *DietRequestRepository) Create(ctx context.Context, entity *dietrequest.DietRequest) (*dietrequest.DietRequest, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	row := toDBDietRequest(entity)
	if row.Status == "" {
		row.Status = string(dietrequest.StatusPendingPayment)
	}
	now := time.Now()

	if err := tx.QueryRow(
		ctx,
		`INSERT INTO diet_requests (client_name, client_email, client_whatsapp, plan_tier, intake_data, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		 RETURNING id, created_at, updated_at`,
		row.ClientName,
		row.ClientEmail,
		row.ClientWhatsapp,
		row.PlanTier,
		row.IntakeData,
		row.Status,
		now,
	).Scan(&row.ID, &row.CreatedAt, &row.UpdatedAt); err != nil {
		return nil, err
	}
	return toDomainDietRequest(row)
}

func (r *DietRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*dietrequest.DietRequest, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	var row models.DietRequest
	if err := tx.QueryRow(
		ctx,
		`SELECT `+dietRequestColumns+` FROM diet_requests WHERE id = $1`,
		id,
	).Scan(
		&row.ID,
		&row.ClientName,
		&row.ClientEmail,
		&row.ClientWhatsapp,
		&row.PlanTier,
		&row.IntakeData,
		&row.GeneratedPlan,
		&row.Status,
		&row.CreatedAt,
		&row.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, dietrequest.ErrNotFound
		}
		return nil, err
	}
	return toDomainDietRequest(&row)
}

func (r *DietRequestRepository) Update(ctx context.Context, entity *dietrequest.DietRequest) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	row := toDBDietRequest(entity)
	tag, err := tx.Exec(
		ctx,
		`UPDATE diet_requests
		 SET generated_plan = $2, status = $3, updated_at = now()
		 WHERE id = $1`,
		row.ID,
		row.GeneratedPlan,
		row.Status,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return dietrequest.ErrNotFound
	}
	return nil
}

// TransitionStatus is the idempotency guard for concurrent webhook delivery:
// the row moves only when it is still in the expected `from` status, and the
// affected-row count tells the caller whether it won the race.
func (r *DietRequestRepository) TransitionStatus(
	ctx context.Context,
	id uuid.UUID,
	from, to dietrequest.Status,
) (bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return false, err
	}

	tag, err := tx.Exec(
		ctx,
		`UPDATE diet_requests
		 SET status = $3, updated_at = now()
		 WHERE id = $1 AND status = $2`,
		id,
		string(from),
		string(to),
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
