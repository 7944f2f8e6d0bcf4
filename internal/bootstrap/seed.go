package bootstrap

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/healthsys/clinic-api/internal/config"
	"github.com/healthsys/clinic-api/internal/domain"
	"github.com/healthsys/clinic-api/internal/domain/consultation"
	"github.com/healthsys/clinic-api/internal/domain/patient"
	"github.com/healthsys/clinic-api/internal/domain/pharmacy"
	"github.com/healthsys/clinic-api/internal/domain/prescription"
)

// seed inserts the fixed demo dataset inside the caller's transaction:
// a user roster covering every role, a handful of patients, a small
// medicine catalog, and consultations/prescriptions cross-referencing
// the just-inserted rows. All or nothing.
func seed(tx *gorm.DB, cfg config.SeedConfig) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing demo password: %w", err)
	}
	passwordHash := string(hash)

	users := []*domain.User{
		{Name: "System Administrator", Email: "admin@healthsys.demo", Role: domain.RoleAdmin, PasswordHash: passwordHash, IsActive: true},
		{Name: "Dr. Aisha Al-Emadi", Email: "a.emadi@healthsys.demo", Role: domain.RoleDoctor, PasswordHash: passwordHash, IsActive: true},
		{Name: "Dr. Omar Khalid", Email: "o.khalid@healthsys.demo", Role: domain.RoleDoctor, PasswordHash: passwordHash, IsActive: true},
		{Name: "Nadia Hassan", Email: "n.hassan@healthsys.demo", Role: domain.RoleNurse, PasswordHash: passwordHash, IsActive: true},
		{Name: "Layla Mahmoud", Email: "l.mahmoud@healthsys.demo", Role: domain.RolePharmacist, PasswordHash: passwordHash, IsActive: true},
	}
	for _, u := range users {
		if err := tx.Create(u).Error; err != nil {
			return fmt.Errorf("seeding user %s: %w", u.Email, err)
		}
	}

	patients := []*patient.Patient{
		{QID: "29850615001", Name: "Fatima Nasser", ContactNumber: "55123456", LastVisit: datePtr(2025, time.July, 20)},
		{QID: "29901103002", Name: "Mohammed Saleh", ContactNumber: "55234567", LastVisit: datePtr(2025, time.July, 18)},
		{QID: "29780228003", Name: "Yousef Ali", ContactNumber: "55345678", LastVisit: datePtr(2025, time.July, 10)},
		{QID: "30010812004", Name: "Sana Kamal", ContactNumber: "55456789", LastVisit: datePtr(2025, time.July, 5)},
	}
	for _, p := range patients {
		if err := tx.Create(p).Error; err != nil {
			return fmt.Errorf("seeding patient %s: %w", p.QID, err)
		}
	}

	medicines := []*pharmacy.Medicine{
		{Name: "Metformin 500mg", StockLevel: 150, Location: "Doha Main Clinic", ExpiryDate: datePtr(2026, time.December, 31)},
		{Name: "Amoxicillin 250mg", StockLevel: 45, Location: "Doha Main Clinic", ExpiryDate: datePtr(2026, time.August, 31)},
		{Name: "Panadol 500mg", StockLevel: 250, Location: "Doha Main Clinic", ExpiryDate: datePtr(2027, time.January, 31)},
		{Name: "Aspirin 75mg", StockLevel: 15, Location: "Doha Main Clinic", ExpiryDate: datePtr(2026, time.February, 28)},
	}
	for _, m := range medicines {
		if err := tx.Create(m).Error; err != nil {
			return fmt.Errorf("seeding medicine %s: %w", m.Name, err)
		}
	}

	today := time.Now()
	consultations := []*consultation.Consultation{
		{PatientID: patients[0].ID, DoctorID: users[1].ID, ConsultationDate: today.AddDate(0, 0, -1), Diagnosis: "Hypertension"},
		{PatientID: patients[1].ID, DoctorID: users[1].ID, ConsultationDate: today.AddDate(0, 0, -3), Diagnosis: "Type 2 Diabetes"},
		{PatientID: patients[2].ID, DoctorID: users[2].ID, ConsultationDate: today.AddDate(0, 0, -10), Diagnosis: "Migraine"},
	}
	for _, c := range consultations {
		if err := tx.Create(c).Error; err != nil {
			return fmt.Errorf("seeding consultation for %s: %w", c.Diagnosis, err)
		}
	}

	prescriptions := []*prescription.Prescription{
		{ConsultationID: consultations[0].ID, Medication: "Amlodipine 5mg", Dosage: "once daily", Instructions: "Take in the morning with water."},
		{ConsultationID: consultations[1].ID, Medication: "Metformin 500mg", Dosage: "twice daily", Instructions: "Take with meals.", MedicineID: &medicines[0].ID},
		{ConsultationID: consultations[2].ID, Medication: "Sumatriptan 50mg", Dosage: "as needed", Instructions: "At migraine onset; max two doses per day."},
	}
	for _, p := range prescriptions {
		if err := tx.Create(p).Error; err != nil {
			return fmt.Errorf("seeding prescription %s: %w", p.Medication, err)
		}
	}

	return nil
}

func datePtr(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}
