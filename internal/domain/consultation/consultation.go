package consultation

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Consultation is one clinical encounter between a patient and a doctor.
// Both references must resolve at creation time; deleting the patient
// removes the consultation and its prescriptions.
type Consultation struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	ConsultationDate time.Time `gorm:"column:consultation_date;not null;index"`
	Diagnosis        string    `gorm:"column:diagnosis;type:varchar(200)"`
	Notes            string    `gorm:"column:notes;type:text"`

	PatientID uuid.UUID `gorm:"column:patient_id;type:uuid;not null;index"`
	DoctorID  uuid.UUID `gorm:"column:doctor_id;type:uuid;not null;index"`
}

func (Consultation) TableName() string {
	return "consultations"
}

func (c *Consultation) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type CreateConsultationCommand struct {
	ConsultationDate time.Time
	Diagnosis        string
	Notes            string
	PatientID        uuid.UUID
	DoctorID         uuid.UUID
}

type ListConsultationsQuery struct {
	PatientID *uuid.UUID
	DoctorID  *uuid.UUID
	Page      int
	PageSize  int
}

type PagedConsultations struct {
	Consultations []*Consultation
	TotalCount    int64
	Page          int
	PageSize      int
	TotalPages    int
}

// ConsultationSummary is the dashboard/listing projection joining in the
// patient and doctor display names.
type ConsultationSummary struct {
	ID               uuid.UUID `json:"id"`
	ConsultationDate time.Time `json:"consultation_date"`
	Diagnosis        string    `json:"diagnosis"`
	PatientName      string    `json:"patient_name"`
	DoctorName       string    `json:"doctor_name"`
}
