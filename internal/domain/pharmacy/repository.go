package pharmacy

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create persists a new inventory line.
	Create(ctx context.Context, m *Medicine) error

	// GetByID retrieves a medicine. Returns ErrMedicineNotFound if missing.
	GetByID(ctx context.Context, id uuid.UUID) (*Medicine, error)

	// List returns the full catalog ordered by name.
	List(ctx context.Context) ([]*Medicine, error)

	// AdjustStock applies a delta to the stock level atomically, failing
	// with ErrInsufficientStock if the result would go below zero.
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*Medicine, error)
}
