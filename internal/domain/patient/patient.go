package patient

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Patient struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	// QID is the national-ID analog; globally unique.
	QID           string     `gorm:"column:qid;type:varchar(20);uniqueIndex;not null"`
	Name          string     `gorm:"column:name;type:varchar(100);not null"`
	ContactNumber string     `gorm:"column:contact_number;type:varchar(20)"`
	DateOfBirth   *time.Time `gorm:"column:date_of_birth"`
	Address       string     `gorm:"column:address;type:text"`
	LastVisit     *time.Time `gorm:"column:last_visit"`
}

func (Patient) TableName() string {
	return "patients"
}

func (p *Patient) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (p *Patient) Age() int {
	if p.DateOfBirth == nil {
		return 0
	}
	now := time.Now()
	years := now.Year() - p.DateOfBirth.Year()
	if now.Month() < p.DateOfBirth.Month() ||
		(now.Month() == p.DateOfBirth.Month() && now.Day() < p.DateOfBirth.Day()) {
		years--
	}
	return years
}

type CreatePatientCommand struct {
	QID           string
	Name          string
	ContactNumber string
	DateOfBirth   *time.Time
	Address       string
	LastVisit     *time.Time
}

func (c *CreatePatientCommand) Normalize() {
	c.QID = strings.TrimSpace(c.QID)
	c.Name = strings.TrimSpace(c.Name)
	c.ContactNumber = strings.TrimSpace(c.ContactNumber)
}

type UpdatePatientCommand struct {
	Name          *string
	ContactNumber *string
	DateOfBirth   *time.Time
	Address       *string
	LastVisit     *time.Time
}

type ListPatientsQuery struct {
	Search   string // matches name or QID
	Page     int
	PageSize int
}

type PagedPatients struct {
	Patients   []*Patient
	TotalCount int64
	Page       int
	PageSize   int
	TotalPages int
}
