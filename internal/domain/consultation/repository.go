package consultation

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create persists a new consultation.
	Create(ctx context.Context, c *Consultation) error

	// GetByID retrieves a consultation. Returns ErrConsultationNotFound if missing.
	GetByID(ctx context.Context, id uuid.UUID) (*Consultation, error)

	// List returns a paginated list, most recent consultation date first.
	List(ctx context.Context, q *ListConsultationsQuery) (*PagedConsultations, error)

	// Recent returns the latest consultations joined with patient and
	// doctor names, for the dashboard.
	Recent(ctx context.Context, limit int) ([]*ConsultationSummary, error)
}
