package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/healthsys/clinic-api/internal/domain/consultation"
	"github.com/healthsys/clinic-api/internal/domain/patient"
	"github.com/healthsys/clinic-api/internal/domain/prescription"
)

type PatientRepository struct {
	db *gorm.DB
}

func NewPatientRepository(db *gorm.DB) *PatientRepository {
	return &PatientRepository{db: db}
}

var _ patient.Repository = (*PatientRepository)(nil)

func (r *PatientRepository) Create(ctx context.Context, p *patient.Patient) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		if isDuplicateKey(err) {
			return patient.ErrPatientAlreadyExists
		}
		return err
	}
	return nil
}

func (r *PatientRepository) GetByID(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
	var p patient.Patient
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, patient.ErrPatientNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PatientRepository) GetByQID(ctx context.Context, qid string) (*patient.Patient, error) {
	var p patient.Patient
	err := r.db.WithContext(ctx).First(&p, "qid = ?", qid).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, patient.ErrPatientNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PatientRepository) Update(ctx context.Context, id uuid.UUID, cmd *patient.UpdatePatientCommand) (*patient.Patient, error) {
	updates := map[string]any{}
	if cmd.Name != nil {
		updates["name"] = *cmd.Name
	}
	if cmd.ContactNumber != nil {
		updates["contact_number"] = *cmd.ContactNumber
	}
	if cmd.DateOfBirth != nil {
		updates["date_of_birth"] = *cmd.DateOfBirth
	}
	if cmd.Address != nil {
		updates["address"] = *cmd.Address
	}
	if cmd.LastVisit != nil {
		updates["last_visit"] = *cmd.LastVisit
	}

	if len(updates) > 0 {
		res := r.db.WithContext(ctx).Model(&patient.Patient{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, patient.ErrPatientNotFound
		}
	}

	return r.GetByID(ctx, id)
}

// Delete removes the patient, their consultations, and those
// consultations' prescriptions in one transaction.
func (r *PatientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var consultationIDs []uuid.UUID
		if err := tx.Model(&consultation.Consultation{}).
			Where("patient_id = ?", id).
			Pluck("id", &consultationIDs).Error; err != nil {
			return fmt.Errorf("collecting consultations: %w", err)
		}

		if len(consultationIDs) > 0 {
			if err := tx.Where("consultation_id IN ?", consultationIDs).
				Delete(&prescription.Prescription{}).Error; err != nil {
				return fmt.Errorf("deleting prescriptions: %w", err)
			}
			if err := tx.Where("patient_id = ?", id).
				Delete(&consultation.Consultation{}).Error; err != nil {
				return fmt.Errorf("deleting consultations: %w", err)
			}
		}

		res := tx.Where("id = ?", id).Delete(&patient.Patient{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return patient.ErrPatientNotFound
		}
		return nil
	})
}

func (r *PatientRepository) List(ctx context.Context, q *patient.ListPatientsQuery) (*patient.PagedPatients, error) {
	db := r.db.WithContext(ctx).Model(&patient.Patient{})

	if q.Search != "" {
		like := "%" + q.Search + "%"
		db = db.Where("name LIKE ? OR qid LIKE ?", like, like)
	}

	var count int64
	if err := db.Count(&count).Error; err != nil {
		return nil, err
	}

	var patients []*patient.Patient
	offset := (q.Page - 1) * q.PageSize
	if err := db.Order("created_at DESC").
		Offset(offset).
		Limit(q.PageSize).
		Find(&patients).Error; err != nil {
		return nil, err
	}

	return &patient.PagedPatients{
		Patients:   patients,
		TotalCount: count,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: totalPages(count, q.PageSize),
	}, nil
}

func (r *PatientRepository) ExistsByQID(ctx context.Context, qid string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&patient.Patient{}).
		Where("qid = ?", qid).
		Count(&count).Error
	return count > 0, err
}

func (r *PatientRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&patient.Patient{}).Count(&count).Error
	return count, err
}
