package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/healthsys/clinic-api/internal/bootstrap"
	"github.com/healthsys/clinic-api/internal/config"
	"github.com/healthsys/clinic-api/internal/domain/pharmacy"
	v1 "github.com/healthsys/clinic-api/internal/handler/v1"
	"github.com/healthsys/clinic-api/internal/rbac"
	"github.com/healthsys/clinic-api/internal/repository"
	"github.com/healthsys/clinic-api/internal/service"
	"github.com/healthsys/clinic-api/pkg/auth"
	"github.com/healthsys/clinic-api/pkg/database"
	"github.com/healthsys/clinic-api/pkg/logger"
	"github.com/healthsys/clinic-api/pkg/metrics"
	"github.com/healthsys/clinic-api/pkg/tracer"
)

func main() {
	// .env is optional; real deployments set environment variables directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("configuration: " + err.Error())
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := tracer.Init(cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		_ = tp.Shutdown(shutdownCtx)
	}()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()

	collector := metrics.NewCollector(cfg.App.Name)
	go reportDBStats(ctx, db, collector)

	userRepo := repository.NewUserRepository(db)
	patientRepo := repository.NewPatientRepository(db)
	consultationRepo := repository.NewConsultationRepository(db)
	medicineRepo := repository.NewMedicineRepository(db)
	prescriptionRepo := repository.NewPrescriptionRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	auditSvc := service.NewAuditService(auditRepo, log, collector)
	defer auditSvc.Shutdown()

	jwtManager := auth.NewJWTManager(cfg.JWT)
	authSvc := service.NewAuthService(userRepo, jwtManager, auditSvc, log)
	userSvc := service.NewUserService(userRepo, auditSvc, log)
	patientSvc := service.NewPatientService(patientRepo, auditSvc, log, collector)
	consultationSvc := service.NewConsultationService(consultationRepo, patientRepo, userRepo, auditSvc, log, collector)
	thresholds := pharmacy.Thresholds{
		LowStock: cfg.Pharmacy.LowStockThreshold,
		Reorder:  cfg.Pharmacy.ReorderThreshold,
	}
	pharmacySvc := service.NewPharmacyService(medicineRepo, thresholds, auditSvc, log)
	prescriptionSvc := service.NewPrescriptionService(prescriptionRepo, consultationRepo, auditSvc, log, collector)
	dashboardSvc := service.NewDashboardService(patientRepo, consultationSvc, pharmacySvc)

	initializer := bootstrap.NewInitializer(db, cfg.Seed, log, collector)
	authorizer := rbac.NewAuthorizer(rbac.DefaultPermissions(), log, collector)

	router := v1.NewRouter(v1.Dependencies{
		Config:          cfg,
		Logger:          log,
		JWTManager:      jwtManager,
		Authorizer:      authorizer,
		Initializer:     initializer,
		Metrics:         collector,
		AuthSvc:         authSvc,
		AuditSvc:        auditSvc,
		UserSvc:         userSvc,
		PatientSvc:      patientSvc,
		ConsultationSvc: consultationSvc,
		PharmacySvc:     pharmacySvc,
		PrescriptionSvc: prescriptionSvc,
		DashboardSvc:    dashboardSvc,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			zap.String("address", srv.Addr),
			zap.String("environment", cfg.App.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Info("server stopped")
	return nil
}

func reportDBStats(ctx context.Context, db *gorm.DB, collector *metrics.Collector) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if sqlDB, err := db.DB(); err == nil {
				collector.DBConnections.Set(float64(sqlDB.Stats().OpenConnections))
			}
		}
	}
}
