package prescription

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Prescription is one prescribed medication tied to a consultation. Its
// only lifecycle is the dispensed flag: false (pending) to true
// (dispensed), exactly once, never back.
type Prescription struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Medication   string `gorm:"column:medication;type:varchar(255);not null"`
	Dosage       string `gorm:"column:dosage;type:varchar(100)"`
	Instructions string `gorm:"column:instructions;type:text"`

	Dispensed   bool       `gorm:"column:dispensed;not null;default:false;index"`
	DispensedAt *time.Time `gorm:"column:dispensed_at"`
	DispensedBy *uuid.UUID `gorm:"column:dispensed_by;type:uuid"`

	ConsultationID uuid.UUID `gorm:"column:consultation_id;type:uuid;not null;index"`

	// MedicineID optionally links to a catalog row; dispensing then
	// decrements that row's stock, once.
	MedicineID *uuid.UUID `gorm:"column:medicine_id;type:uuid;index"`
}

func (Prescription) TableName() string {
	return "prescriptions"
}

func (p *Prescription) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type CreatePrescriptionCommand struct {
	Medication     string
	Dosage         string
	Instructions   string
	ConsultationID uuid.UUID
	MedicineID     *uuid.UUID
}

type ListPrescriptionsQuery struct {
	ConsultationID *uuid.UUID
	Dispensed      *bool
	Page           int
	PageSize       int
}

type PagedPrescriptions struct {
	Prescriptions []*Prescription
	TotalCount    int64
	Page          int
	PageSize      int
	TotalPages    int
}
