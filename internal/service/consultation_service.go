package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/healthsys/clinic-api/internal/domain"
	"github.com/healthsys/clinic-api/internal/domain/consultation"
	"github.com/healthsys/clinic-api/internal/domain/patient"
	"github.com/healthsys/clinic-api/pkg/metrics"
)

type ConsultationService struct {
	repo        consultation.Repository
	patientRepo patient.Repository
	userRepo    UserRepository
	auditSvc    *AuditService
	log         *zap.Logger
	metrics     *metrics.Collector
}

func NewConsultationService(
	repo consultation.Repository,
	patientRepo patient.Repository,
	userRepo UserRepository,
	auditSvc *AuditService,
	log *zap.Logger,
	collector *metrics.Collector,
) *ConsultationService {
	return &ConsultationService{
		repo:        repo,
		patientRepo: patientRepo,
		userRepo:    userRepo,
		auditSvc:    auditSvc,
		log:         log,
		metrics:     collector,
	}
}

// RecordConsultation creates a consultation after verifying that both
// the patient and the attending doctor exist.
func (s *ConsultationService) RecordConsultation(ctx context.Context, cmd *consultation.CreateConsultationCommand, callerID uuid.UUID, callerRole string, ip string) (*consultation.Consultation, error) {
	if cmd.ConsultationDate.IsZero() {
		return nil, &ValidationError{Fields: []string{"consultation_date is required"}}
	}

	if _, err := s.patientRepo.GetByID(ctx, cmd.PatientID); err != nil {
		if errors.Is(err, patient.ErrPatientNotFound) {
			return nil, consultation.ErrUnknownPatient
		}
		return nil, fmt.Errorf("verifying patient: %w", err)
	}

	doctor, err := s.userRepo.GetByID(ctx, cmd.DoctorID)
	if err != nil {
		return nil, consultation.ErrUnknownDoctor
	}
	if doctor.Role != domain.RoleDoctor && doctor.Role != domain.RoleAdmin {
		return nil, consultation.ErrUnknownDoctor
	}

	c := &consultation.Consultation{
		ConsultationDate: cmd.ConsultationDate,
		Diagnosis:        cmd.Diagnosis,
		Notes:            cmd.Notes,
		PatientID:        cmd.PatientID,
		DoctorID:         cmd.DoctorID,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		s.log.Error("failed to create consultation", zap.Error(err))
		return nil, fmt.Errorf("creating consultation: %w", err)
	}

	if s.metrics != nil {
		s.metrics.ConsultationsCreatedTotal.Inc()
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "create",
		ResourceType: "consultation",
		ResourceID:   c.ID.String(),
		IPAddress:    ip,
	})

	return c, nil
}

func (s *ConsultationService) GetConsultation(ctx context.Context, id uuid.UUID, callerID uuid.UUID, callerRole string, ip string) (*consultation.Consultation, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "read", ResourceType: "consultation", ResourceID: id.String(), IPAddress: ip,
	})

	return c, nil
}

func (s *ConsultationService) ListConsultations(ctx context.Context, q *consultation.ListConsultationsQuery) (*consultation.PagedConsultations, error) {
	if q.PageSize <= 0 || q.PageSize > 100 {
		q.PageSize = 20
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	return s.repo.List(ctx, q)
}

// RecentConsultations serves the dashboard's joined projection.
func (s *ConsultationService) RecentConsultations(ctx context.Context, limit int) ([]*consultation.ConsultationSummary, error) {
	if limit <= 0 || limit > 50 {
		limit = 5
	}
	return s.repo.Recent(ctx, limit)
}
