package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/healthsys/clinic-api/internal/domain"
	"github.com/healthsys/clinic-api/internal/domain/consultation"
	"github.com/healthsys/clinic-api/internal/domain/patient"
)

func newTestConsultationService(t *testing.T, patientRepo patient.Repository, userRepo UserRepository) *ConsultationService {
	t.Helper()
	return NewConsultationService(&stubConsultationRepo{}, patientRepo, userRepo, newTestAuditService(t), zap.NewNop(), nil)
}

func validConsultationCommand() *consultation.CreateConsultationCommand {
	return &consultation.CreateConsultationCommand{
		ConsultationDate: time.Now(),
		Diagnosis:        "Hypertension",
		PatientID:        uuid.New(),
		DoctorID:         uuid.New(),
	}
}

func TestRecordConsultationUnknownPatient(t *testing.T) {
	svc := newTestConsultationService(t, &stubPatientRepo{}, &stubUserRepo{})

	_, err := svc.RecordConsultation(context.Background(), validConsultationCommand(), uuid.New(), "doctor", "127.0.0.1")
	assert.ErrorIs(t, err, consultation.ErrUnknownPatient)
}

func TestRecordConsultationUnknownDoctor(t *testing.T) {
	patientRepo := &stubPatientRepo{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
			return &patient.Patient{ID: id}, nil
		},
	}
	svc := newTestConsultationService(t, patientRepo, &stubUserRepo{})

	_, err := svc.RecordConsultation(context.Background(), validConsultationCommand(), uuid.New(), "doctor", "127.0.0.1")
	assert.ErrorIs(t, err, consultation.ErrUnknownDoctor)
}

func TestRecordConsultationRejectsNonDoctorAttending(t *testing.T) {
	patientRepo := &stubPatientRepo{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
			return &patient.Patient{ID: id}, nil
		},
	}
	userRepo := &stubUserRepo{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
			return &domain.User{ID: id, Role: domain.RoleNurse}, nil
		},
	}
	svc := newTestConsultationService(t, patientRepo, userRepo)

	_, err := svc.RecordConsultation(context.Background(), validConsultationCommand(), uuid.New(), "doctor", "127.0.0.1")
	assert.ErrorIs(t, err, consultation.ErrUnknownDoctor)
}

func TestRecordConsultationSucceeds(t *testing.T) {
	patientRepo := &stubPatientRepo{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
			return &patient.Patient{ID: id}, nil
		},
	}
	userRepo := &stubUserRepo{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
			return &domain.User{ID: id, Role: domain.RoleDoctor}, nil
		},
	}
	svc := newTestConsultationService(t, patientRepo, userRepo)

	cmd := validConsultationCommand()
	got, err := svc.RecordConsultation(context.Background(), cmd, uuid.New(), "doctor", "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, cmd.PatientID, got.PatientID)
	assert.Equal(t, "Hypertension", got.Diagnosis)
}

func TestRecordConsultationRequiresDate(t *testing.T) {
	svc := newTestConsultationService(t, &stubPatientRepo{}, &stubUserRepo{})

	cmd := validConsultationCommand()
	cmd.ConsultationDate = time.Time{}

	_, err := svc.RecordConsultation(context.Background(), cmd, uuid.New(), "doctor", "127.0.0.1")
	var validErr *ValidationError
	assert.ErrorAs(t, err, &validErr)
}
