package patient

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create persists a new patient. Returns ErrPatientAlreadyExists on duplicate QID.
	Create(ctx context.Context, p *Patient) error

	// GetByID retrieves a patient by primary key. Returns ErrPatientNotFound if not found.
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)

	// GetByQID retrieves a patient by their national identifier.
	GetByQID(ctx context.Context, qid string) (*Patient, error)

	// Update applies partial updates to an existing patient record.
	Update(ctx context.Context, id uuid.UUID, cmd *UpdatePatientCommand) (*Patient, error)

	// Delete removes the patient together with all of their consultations
	// and each consultation's prescriptions, atomically. No orphans remain.
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns a paginated, filtered list of patients, newest first.
	List(ctx context.Context, q *ListPatientsQuery) (*PagedPatients, error)

	// ExistsByQID checks for uniqueness without fetching the full record.
	ExistsByQID(ctx context.Context, qid string) (bool, error)

	// Count reports the number of patient rows; the initialization gate
	// uses this as its seeded-store existence check.
	Count(ctx context.Context) (int64, error)
}
