package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/healthsys/clinic-api/internal/domain/patient"
)

func newTestPatientService(t *testing.T, repo patient.Repository) *PatientService {
	t.Helper()
	return NewPatientService(repo, newTestAuditService(t), zap.NewNop(), nil)
}

func TestRegisterPatientValidation(t *testing.T) {
	svc := newTestPatientService(t, &stubPatientRepo{})
	caller := uuid.New()

	tests := []struct {
		name string
		cmd  *patient.CreatePatientCommand
		want string
	}{
		{"missing qid", &patient.CreatePatientCommand{Name: "Fatima Nasser"}, "qid is required"},
		{"missing name", &patient.CreatePatientCommand{QID: "29850615001"}, "name is required"},
		{"blank qid after trimming", &patient.CreatePatientCommand{QID: "   ", Name: "Fatima Nasser"}, "qid is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RegisterPatient(context.Background(), tt.cmd, caller, "admin", "127.0.0.1")
			var validErr *ValidationError
			require.ErrorAs(t, err, &validErr)
			assert.Contains(t, validErr.Fields, tt.want)
		})
	}
}

func TestRegisterPatientDuplicateQID(t *testing.T) {
	repo := &stubPatientRepo{
		existsByQIDFn: func(ctx context.Context, qid string) (bool, error) { return true, nil },
	}
	svc := newTestPatientService(t, repo)

	_, err := svc.RegisterPatient(context.Background(),
		&patient.CreatePatientCommand{QID: "29850615001", Name: "Fatima Nasser"},
		uuid.New(), "admin", "127.0.0.1")

	assert.ErrorIs(t, err, patient.ErrPatientAlreadyExists)
}

func TestRegisterPatientNormalizesInput(t *testing.T) {
	var created *patient.Patient
	repo := &stubPatientRepo{
		createFn: func(ctx context.Context, p *patient.Patient) error {
			created = p
			return nil
		},
	}
	svc := newTestPatientService(t, repo)

	_, err := svc.RegisterPatient(context.Background(),
		&patient.CreatePatientCommand{QID: "  29850615001  ", Name: "  Fatima Nasser  "},
		uuid.New(), "admin", "127.0.0.1")

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "29850615001", created.QID)
	assert.Equal(t, "Fatima Nasser", created.Name)
}

func TestListPatientsClampsPaging(t *testing.T) {
	svc := newTestPatientService(t, &stubPatientRepo{})

	got, err := svc.ListPatients(context.Background(), &patient.ListPatientsQuery{Page: -3, PageSize: 5000})
	require.NoError(t, err)
	assert.Equal(t, 1, got.Page)
	assert.Equal(t, 20, got.PageSize)
}
