package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/healthsys/clinic-api/internal/domain/pharmacy"
)

type PharmacyService struct {
	repo       pharmacy.Repository
	thresholds pharmacy.Thresholds
	auditSvc   *AuditService
	log        *zap.Logger
}

func NewPharmacyService(repo pharmacy.Repository, thresholds pharmacy.Thresholds, auditSvc *AuditService, log *zap.Logger) *PharmacyService {
	return &PharmacyService{
		repo:       repo,
		thresholds: thresholds,
		auditSvc:   auditSvc,
		log:        log,
	}
}

// Inventory returns the catalog with status derived against the current
// date and the configured thresholds.
func (s *PharmacyService) Inventory(ctx context.Context) ([]*pharmacy.InventoryItem, error) {
	medicines, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	items := make([]*pharmacy.InventoryItem, 0, len(medicines))
	for _, m := range medicines {
		items = append(items, &pharmacy.InventoryItem{
			ID:         m.ID,
			Name:       m.Name,
			StockLevel: m.StockLevel,
			Location:   m.Location,
			ExpiryDate: m.ExpiryDate,
			Status:     m.StatusAt(now, s.thresholds),
		})
	}
	return items, nil
}

// LowStockCount reports catalog lines that currently need attention
// (anything other than In Stock), for the dashboard.
func (s *PharmacyService) LowStockCount(ctx context.Context) (int, error) {
	medicines, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	count := 0
	for _, m := range medicines {
		if m.StatusAt(now, s.thresholds) != pharmacy.StatusInStock {
			count++
		}
	}
	return count, nil
}

func (s *PharmacyService) AddMedicine(ctx context.Context, cmd *pharmacy.CreateMedicineCommand, callerID uuid.UUID, callerRole string, ip string) (*pharmacy.Medicine, error) {
	var errs []string
	if strings.TrimSpace(cmd.Name) == "" {
		errs = append(errs, "name is required")
	}
	if cmd.StockLevel < 0 {
		errs = append(errs, "stock_level cannot be negative")
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	m := &pharmacy.Medicine{
		Name:       strings.TrimSpace(cmd.Name),
		StockLevel: cmd.StockLevel,
		Location:   cmd.Location,
		ExpiryDate: cmd.ExpiryDate,
	}

	if err := s.repo.Create(ctx, m); err != nil {
		s.log.Error("failed to create medicine", zap.Error(err))
		return nil, fmt.Errorf("creating medicine: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "create",
		ResourceType: "medicine",
		ResourceID:   m.ID.String(),
		IPAddress:    ip,
	})

	return m, nil
}

func (s *PharmacyService) AdjustStock(ctx context.Context, id uuid.UUID, cmd *pharmacy.AdjustStockCommand, callerID uuid.UUID, callerRole string, ip string) (*pharmacy.Medicine, error) {
	m, err := s.repo.AdjustStock(ctx, id, cmd.Delta)
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "update",
		ResourceType: "medicine",
		ResourceID:   id.String(),
		IPAddress:    ip,
		Changes:      fmt.Sprintf(`{"stock_delta":%d}`, cmd.Delta),
	})

	return m, nil
}
