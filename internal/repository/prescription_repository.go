package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/healthsys/clinic-api/internal/domain/pharmacy"
	"github.com/healthsys/clinic-api/internal/domain/prescription"
)

type PrescriptionRepository struct {
	db *gorm.DB
}

func NewPrescriptionRepository(db *gorm.DB) *PrescriptionRepository {
	return &PrescriptionRepository{db: db}
}

var _ prescription.Repository = (*PrescriptionRepository)(nil)

func (r *PrescriptionRepository) Create(ctx context.Context, p *prescription.Prescription) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PrescriptionRepository) GetByID(ctx context.Context, id uuid.UUID) (*prescription.Prescription, error) {
	var p prescription.Prescription
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, prescription.ErrPrescriptionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Dispense performs the pending-to-dispensed transition. The UPDATE is
// guarded on dispensed = false: with two concurrent callers the store
// serializes the writes and exactly one sees RowsAffected = 1. The loser
// gets ErrAlreadyDispensed and the transaction leaves timestamps and any
// linked inventory untouched.
func (r *PrescriptionRepository) Dispense(ctx context.Context, id uuid.UUID, by uuid.UUID, at time.Time) (*prescription.Prescription, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p prescription.Prescription
		if err := tx.First(&p, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return prescription.ErrPrescriptionNotFound
			}
			return err
		}

		res := tx.Model(&prescription.Prescription{}).
			Where("id = ? AND dispensed = ?", id, false).
			Updates(map[string]any{
				"dispensed":    true,
				"dispensed_at": at,
				"dispensed_by": by,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return prescription.ErrAlreadyDispensed
		}

		if p.MedicineID != nil {
			stock := tx.Model(&pharmacy.Medicine{}).
				Where("id = ? AND stock_level > 0", *p.MedicineID).
				Update("stock_level", gorm.Expr("stock_level - 1"))
			if stock.Error != nil {
				return fmt.Errorf("decrementing stock: %w", stock.Error)
			}
			if stock.RowsAffected == 0 {
				return pharmacy.ErrInsufficientStock
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *PrescriptionRepository) List(ctx context.Context, q *prescription.ListPrescriptionsQuery) (*prescription.PagedPrescriptions, error) {
	db := r.db.WithContext(ctx).Model(&prescription.Prescription{})

	if q.ConsultationID != nil {
		db = db.Where("consultation_id = ?", *q.ConsultationID)
	}
	if q.Dispensed != nil {
		db = db.Where("dispensed = ?", *q.Dispensed)
	}

	var count int64
	if err := db.Count(&count).Error; err != nil {
		return nil, err
	}

	var prescriptions []*prescription.Prescription
	offset := (q.Page - 1) * q.PageSize
	if err := db.Order("created_at DESC").
		Offset(offset).
		Limit(q.PageSize).
		Find(&prescriptions).Error; err != nil {
		return nil, err
	}

	return &prescription.PagedPrescriptions{
		Prescriptions: prescriptions,
		TotalCount:    count,
		Page:          q.Page,
		PageSize:      q.PageSize,
		TotalPages:    totalPages(count, q.PageSize),
	}, nil
}
