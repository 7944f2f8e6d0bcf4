package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/healthsys/clinic-api/internal/domain/consultation"
	"github.com/healthsys/clinic-api/internal/domain/prescription"
	"github.com/healthsys/clinic-api/pkg/metrics"
)

type PrescriptionService struct {
	repo             prescription.Repository
	consultationRepo consultation.Repository
	auditSvc         *AuditService
	log              *zap.Logger
	metrics          *metrics.Collector
}

func NewPrescriptionService(
	repo prescription.Repository,
	consultationRepo consultation.Repository,
	auditSvc *AuditService,
	log *zap.Logger,
	collector *metrics.Collector,
) *PrescriptionService {
	return &PrescriptionService{
		repo:             repo,
		consultationRepo: consultationRepo,
		auditSvc:         auditSvc,
		log:              log,
		metrics:          collector,
	}
}

func (s *PrescriptionService) CreatePrescription(ctx context.Context, cmd *prescription.CreatePrescriptionCommand, callerID uuid.UUID, callerRole string, ip string) (*prescription.Prescription, error) {
	if strings.TrimSpace(cmd.Medication) == "" {
		return nil, &ValidationError{Fields: []string{"medication is required"}}
	}

	if _, err := s.consultationRepo.GetByID(ctx, cmd.ConsultationID); err != nil {
		if errors.Is(err, consultation.ErrConsultationNotFound) {
			return nil, prescription.ErrUnknownConsultation
		}
		return nil, fmt.Errorf("verifying consultation: %w", err)
	}

	p := &prescription.Prescription{
		Medication:     strings.TrimSpace(cmd.Medication),
		Dosage:         cmd.Dosage,
		Instructions:   cmd.Instructions,
		ConsultationID: cmd.ConsultationID,
		MedicineID:     cmd.MedicineID,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.log.Error("failed to create prescription", zap.Error(err))
		return nil, fmt.Errorf("creating prescription: %w", err)
	}

	if s.metrics != nil {
		s.metrics.PrescriptionsIssuedTotal.Inc()
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "create",
		ResourceType: "prescription",
		ResourceID:   p.ID.String(),
		IPAddress:    ip,
	})

	return p, nil
}

// DispensePrescription performs the one-way pending-to-dispensed
// transition. A second attempt surfaces ErrAlreadyDispensed and changes
// nothing.
func (s *PrescriptionService) DispensePrescription(ctx context.Context, id uuid.UUID, callerID uuid.UUID, callerRole string, ip string) (*prescription.Prescription, error) {
	p, err := s.repo.Dispense(ctx, id, callerID, time.Now())
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.PrescriptionsDispensedTotal.Inc()
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "update",
		ResourceType: "prescription",
		ResourceID:   id.String(),
		IPAddress:    ip,
		Changes:      `{"action":"dispense"}`,
	})

	s.log.Info("prescription dispensed",
		zap.String("prescription_id", id.String()),
		zap.String("dispensed_by", callerID.String()),
	)

	return p, nil
}

func (s *PrescriptionService) GetPrescription(ctx context.Context, id uuid.UUID) (*prescription.Prescription, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *PrescriptionService) ListPrescriptions(ctx context.Context, q *prescription.ListPrescriptionsQuery) (*prescription.PagedPrescriptions, error) {
	if q.PageSize <= 0 || q.PageSize > 100 {
		q.PageSize = 20
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	return s.repo.List(ctx, q)
}
