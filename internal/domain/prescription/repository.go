package prescription

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	// Create persists a new prescription in the pending state.
	Create(ctx context.Context, p *Prescription) error

	// GetByID retrieves a prescription. Returns ErrPrescriptionNotFound if missing.
	GetByID(ctx context.Context, id uuid.UUID) (*Prescription, error)

	// Dispense transitions the prescription from pending to dispensed in a
	// single transaction, decrementing the linked medicine's stock when one
	// is set. The update is guarded on dispensed = false so concurrent
	// callers cannot both succeed: the loser gets ErrAlreadyDispensed and
	// no timestamps or inventory are touched a second time.
	Dispense(ctx context.Context, id uuid.UUID, by uuid.UUID, at time.Time) (*Prescription, error)

	// List returns a paginated, filtered list, newest first.
	List(ctx context.Context, q *ListPrescriptionsQuery) (*PagedPrescriptions, error)
}
