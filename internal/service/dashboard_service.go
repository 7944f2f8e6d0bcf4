package service

import (
	"context"
	"fmt"

	"github.com/healthsys/clinic-api/internal/domain/consultation"
	"github.com/healthsys/clinic-api/internal/domain/patient"
)

// DashboardService aggregates the landing-page counters. Everything here
// is derived on demand; no counter is persisted anywhere.
type DashboardService struct {
	patientRepo     patient.Repository
	consultationSvc *ConsultationService
	pharmacySvc     *PharmacyService
}

func NewDashboardService(patientRepo patient.Repository, consultationSvc *ConsultationService, pharmacySvc *PharmacyService) *DashboardService {
	return &DashboardService{
		patientRepo:     patientRepo,
		consultationSvc: consultationSvc,
		pharmacySvc:     pharmacySvc,
	}
}

type DashboardSummary struct {
	TotalPatients       int64                               `json:"total_patients"`
	LowStockItems       int                                 `json:"low_stock_items"`
	RecentConsultations []*consultation.ConsultationSummary `json:"recent_consultations"`
}

func (s *DashboardService) Summary(ctx context.Context) (*DashboardSummary, error) {
	patients, err := s.patientRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting patients: %w", err)
	}

	lowStock, err := s.pharmacySvc.LowStockCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting low stock items: %w", err)
	}

	recent, err := s.consultationSvc.RecentConsultations(ctx, 5)
	if err != nil {
		return nil, fmt.Errorf("loading recent consultations: %w", err)
	}

	return &DashboardSummary{
		TotalPatients:       patients,
		LowStockItems:       lowStock,
		RecentConsultations: recent,
	}, nil
}
