package dietrequest

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, r *DietRequest) (*DietRequest, error)
	GetByID(ctx context.Context, id uuid.UUID) (*DietRequest, error)
	Update(ctx context.Context, r *DietRequest) error
	// TransitionStatus performs an atomic conditional status update and
	// reports whether a row in the `from` status was actually moved. A
	// false result means another writer got there first.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to Status) (bool, error)
}
