package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/healthsys/clinic-api/internal/domain"
	"github.com/healthsys/clinic-api/internal/domain/consultation"
	"github.com/healthsys/clinic-api/internal/domain/patient"
)

// Function-field stubs keep each test's behavior local to the test body.

type stubAuditRepo struct{}

func (stubAuditRepo) Create(ctx context.Context, entry *domain.AuditLog) error { return nil }

func newTestAuditService(t *testing.T) *AuditService {
	t.Helper()
	svc := NewAuditService(stubAuditRepo{}, zap.NewNop(), nil)
	t.Cleanup(svc.Shutdown)
	return svc
}

type stubPatientRepo struct {
	createFn      func(ctx context.Context, p *patient.Patient) error
	getByIDFn     func(ctx context.Context, id uuid.UUID) (*patient.Patient, error)
	existsByQIDFn func(ctx context.Context, qid string) (bool, error)
}

func (s *stubPatientRepo) Create(ctx context.Context, p *patient.Patient) error {
	if s.createFn != nil {
		return s.createFn(ctx, p)
	}
	return nil
}

func (s *stubPatientRepo) GetByID(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return nil, patient.ErrPatientNotFound
}

func (s *stubPatientRepo) GetByQID(ctx context.Context, qid string) (*patient.Patient, error) {
	return nil, patient.ErrPatientNotFound
}

func (s *stubPatientRepo) Update(ctx context.Context, id uuid.UUID, cmd *patient.UpdatePatientCommand) (*patient.Patient, error) {
	return nil, patient.ErrPatientNotFound
}

func (s *stubPatientRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (s *stubPatientRepo) List(ctx context.Context, q *patient.ListPatientsQuery) (*patient.PagedPatients, error) {
	return &patient.PagedPatients{Page: q.Page, PageSize: q.PageSize}, nil
}

func (s *stubPatientRepo) ExistsByQID(ctx context.Context, qid string) (bool, error) {
	if s.existsByQIDFn != nil {
		return s.existsByQIDFn(ctx, qid)
	}
	return false, nil
}

func (s *stubPatientRepo) Count(ctx context.Context) (int64, error) { return 0, nil }

type stubUserRepo struct {
	getByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	getByEmailFn func(ctx context.Context, email string) (*domain.User, error)
}

func (s *stubUserRepo) Create(ctx context.Context, u *domain.User) error { return nil }

func (s *stubUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if s.getByEmailFn != nil {
		return s.getByEmailFn(ctx, email)
	}
	return nil, ErrInvalidCredentials
}

func (s *stubUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return nil, ErrInvalidCredentials
}

func (s *stubUserRepo) List(ctx context.Context) ([]*domain.User, error) { return nil, nil }

func (s *stubUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return nil
}

func (s *stubUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	return nil
}

type stubConsultationRepo struct {
	createFn  func(ctx context.Context, c *consultation.Consultation) error
	getByIDFn func(ctx context.Context, id uuid.UUID) (*consultation.Consultation, error)
}

func (s *stubConsultationRepo) Create(ctx context.Context, c *consultation.Consultation) error {
	if s.createFn != nil {
		return s.createFn(ctx, c)
	}
	return nil
}

func (s *stubConsultationRepo) GetByID(ctx context.Context, id uuid.UUID) (*consultation.Consultation, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return nil, consultation.ErrConsultationNotFound
}

func (s *stubConsultationRepo) List(ctx context.Context, q *consultation.ListConsultationsQuery) (*consultation.PagedConsultations, error) {
	return &consultation.PagedConsultations{Page: q.Page, PageSize: q.PageSize}, nil
}

func (s *stubConsultationRepo) Recent(ctx context.Context, limit int) ([]*consultation.ConsultationSummary, error) {
	return nil, nil
}
