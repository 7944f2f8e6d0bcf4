package bootstrap

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/healthsys/clinic-api/internal/config"
	"github.com/healthsys/clinic-api/internal/domain"
	"github.com/healthsys/clinic-api/internal/domain/consultation"
	"github.com/healthsys/clinic-api/internal/domain/patient"
	"github.com/healthsys/clinic-api/internal/domain/pharmacy"
	"github.com/healthsys/clinic-api/internal/domain/prescription"
	"github.com/healthsys/clinic-api/pkg/metrics"
)

// Initializer guarantees the schema exists and demo data is seeded at
// most once per process, however many concurrent first requests arrive.
// It is an injected instance rather than package state so each test can
// construct a fresh gate.
type Initializer struct {
	db      *gorm.DB
	cfg     config.SeedConfig
	log     *zap.Logger
	metrics *metrics.Collector

	mu    sync.Mutex
	ready atomic.Bool
}

func NewInitializer(db *gorm.DB, cfg config.SeedConfig, log *zap.Logger, collector *metrics.Collector) *Initializer {
	return &Initializer{
		db:      db,
		cfg:     cfg,
		log:     log,
		metrics: collector,
	}
}

// EnsureReady is idempotent and safe to call before every request.
// Double-checked locking: the warm fast path reads an atomic flag and
// never touches the mutex. Failures are logged and swallowed so the
// triggering request still proceeds; the gate stays un-ready and a later
// call retries.
func (i *Initializer) EnsureReady(ctx context.Context) error {
	if i.ready.Load() {
		return nil
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	// Another caller may have finished while we waited on the lock.
	if i.ready.Load() {
		return nil
	}

	if err := i.initialize(ctx); err != nil {
		i.log.Error("database initialization failed, will retry on a later request", zap.Error(err))
		if i.metrics != nil {
			i.metrics.SeedFailuresTotal.Inc()
		}
		return nil
	}

	i.ready.Store(true)
	return nil
}

// Ready reports whether initialization has completed. Exposed for the
// health endpoint.
func (i *Initializer) Ready() bool {
	return i.ready.Load()
}

func (i *Initializer) initialize(ctx context.Context) error {
	i.log.Info("initializing database")

	if err := Migrate(i.db.WithContext(ctx)); err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}

	// Existence check: a store that already holds patients must never be
	// re-seeded, whatever the configuration says.
	var count int64
	if err := i.db.WithContext(ctx).Model(&patient.Patient{}).Count(&count).Error; err != nil {
		return fmt.Errorf("checking for existing data: %w", err)
	}
	if count > 0 {
		i.log.Info("database already contains data, skipping seeding")
		return nil
	}

	if !i.cfg.Enabled {
		i.log.Info("seeding disabled, leaving store empty")
		return nil
	}

	if err := i.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return seed(tx, i.cfg)
	}); err != nil {
		return fmt.Errorf("seeding demo data: %w", err)
	}

	if i.metrics != nil {
		i.metrics.SeedRunsTotal.Inc()
	}
	i.log.Info("database seeded")
	return nil
}

// Migrate creates the schema if absent. Kept separate from the gate so
// operational tooling can run it directly.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.AuditLog{},
		&patient.Patient{},
		&pharmacy.Medicine{},
		&consultation.Consultation{},
		&prescription.Prescription{},
	)
}
