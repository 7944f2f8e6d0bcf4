package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/healthsys/clinic-api/internal/domain/consultation"
)

type ConsultationRepository struct {
	db *gorm.DB
}

func NewConsultationRepository(db *gorm.DB) *ConsultationRepository {
	return &ConsultationRepository{db: db}
}

var _ consultation.Repository = (*ConsultationRepository)(nil)

func (r *ConsultationRepository) Create(ctx context.Context, c *consultation.Consultation) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *ConsultationRepository) GetByID(ctx context.Context, id uuid.UUID) (*consultation.Consultation, error) {
	var c consultation.Consultation
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, consultation.ErrConsultationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ConsultationRepository) List(ctx context.Context, q *consultation.ListConsultationsQuery) (*consultation.PagedConsultations, error) {
	db := r.db.WithContext(ctx).Model(&consultation.Consultation{})

	if q.PatientID != nil {
		db = db.Where("patient_id = ?", *q.PatientID)
	}
	if q.DoctorID != nil {
		db = db.Where("doctor_id = ?", *q.DoctorID)
	}

	var count int64
	if err := db.Count(&count).Error; err != nil {
		return nil, err
	}

	var consultations []*consultation.Consultation
	offset := (q.Page - 1) * q.PageSize
	if err := db.Order("consultation_date DESC").
		Offset(offset).
		Limit(q.PageSize).
		Find(&consultations).Error; err != nil {
		return nil, err
	}

	return &consultation.PagedConsultations{
		Consultations: consultations,
		TotalCount:    count,
		Page:          q.Page,
		PageSize:      q.PageSize,
		TotalPages:    totalPages(count, q.PageSize),
	}, nil
}

func (r *ConsultationRepository) Recent(ctx context.Context, limit int) ([]*consultation.ConsultationSummary, error) {
	var summaries []*consultation.ConsultationSummary
	err := r.db.WithContext(ctx).
		Table("consultations").
		Select("consultations.id, consultations.consultation_date, consultations.diagnosis, patients.name AS patient_name, users.name AS doctor_name").
		Joins("JOIN patients ON patients.id = consultations.patient_id").
		Joins("JOIN users ON users.id = consultations.doctor_id").
		Order("consultations.consultation_date DESC").
		Limit(limit).
		Scan(&summaries).Error
	return summaries, err
}
