package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/healthsys/clinic-api/internal/domain/pharmacy"
)

type MedicineRepository struct {
	db *gorm.DB
}

func NewMedicineRepository(db *gorm.DB) *MedicineRepository {
	return &MedicineRepository{db: db}
}

var _ pharmacy.Repository = (*MedicineRepository)(nil)

func (r *MedicineRepository) Create(ctx context.Context, m *pharmacy.Medicine) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *MedicineRepository) GetByID(ctx context.Context, id uuid.UUID) (*pharmacy.Medicine, error) {
	var m pharmacy.Medicine
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pharmacy.ErrMedicineNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MedicineRepository) List(ctx context.Context) ([]*pharmacy.Medicine, error) {
	var medicines []*pharmacy.Medicine
	err := r.db.WithContext(ctx).Order("name ASC").Find(&medicines).Error
	return medicines, err
}

// AdjustStock applies the delta with a guarded update so the level can
// never be driven below zero, regardless of concurrent adjustments.
func (r *MedicineRepository) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*pharmacy.Medicine, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&pharmacy.Medicine{}).
			Where("id = ? AND stock_level + ? >= 0", id, delta).
			Update("stock_level", gorm.Expr("stock_level + ?", delta))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&pharmacy.Medicine{}).Where("id = ?", id).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return pharmacy.ErrMedicineNotFound
			}
			return pharmacy.ErrInsufficientStock
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}
