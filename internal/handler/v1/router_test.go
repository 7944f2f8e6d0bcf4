package v1

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/healthsys/clinic-api/internal/bootstrap"
	"github.com/healthsys/clinic-api/internal/config"
	"github.com/healthsys/clinic-api/internal/domain/pharmacy"
	"github.com/healthsys/clinic-api/internal/rbac"
	"github.com/healthsys/clinic-api/internal/repository"
	"github.com/healthsys/clinic-api/internal/service"
	"github.com/healthsys/clinic-api/pkg/auth"
	"github.com/healthsys/clinic-api/pkg/metrics"
)

// The stack is built once per test binary: the metrics collector
// registers against the global prometheus registry, and the seeded
// store is shared by every subtest the way a running server would be.
var (
	buildOnce  sync.Once
	testRouter *gin.Engine
)

func testServer(t *testing.T) *gin.Engine {
	t.Helper()
	buildOnce.Do(func() {
		gin.SetMode(gin.TestMode)

		dir, err := os.MkdirTemp("", "healthsys-router-test")
		if err != nil {
			t.Fatalf("creating temp dir: %v", err)
		}

		db, err := gorm.Open(sqlite.Open(filepath.Join(dir, "test.db")), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if err != nil {
			t.Fatalf("opening database: %v", err)
		}

		cfg := &config.Config{
			App: config.AppConfig{Name: "healthsys-test", Environment: "test", Version: "test"},
			JWT: config.JWTConfig{
				Secret:          "0123456789abcdef0123456789abcdef",
				AccessTokenTTL:  15 * time.Minute,
				RefreshTokenTTL: time.Hour,
				Issuer:          "healthsys-test",
			},
			CORS: config.CORSConfig{
				AllowedOrigins: []string{"http://localhost:3000"},
				AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
				AllowedHeaders: []string{"Authorization", "Content-Type"},
				MaxAge:         time.Hour,
			},
			RateLimit: config.RateLimitConfig{RequestsPerSecond: 10_000, BurstSize: 10_000},
			Seed:      config.SeedConfig{Enabled: true, DemoPassword: "password"},
			Pharmacy:  config.PharmacyConfig{LowStockThreshold: 10, ReorderThreshold: 0},
		}

		log := zap.NewNop()
		collector := metrics.NewCollector(cfg.App.Name)

		userRepo := repository.NewUserRepository(db)
		patientRepo := repository.NewPatientRepository(db)
		consultationRepo := repository.NewConsultationRepository(db)
		medicineRepo := repository.NewMedicineRepository(db)
		prescriptionRepo := repository.NewPrescriptionRepository(db)
		auditRepo := repository.NewAuditRepository(db)

		auditSvc := service.NewAuditService(auditRepo, log, collector)
		jwtManager := auth.NewJWTManager(cfg.JWT)
		authSvc := service.NewAuthService(userRepo, jwtManager, auditSvc, log)
		userSvc := service.NewUserService(userRepo, auditSvc, log)
		patientSvc := service.NewPatientService(patientRepo, auditSvc, log, collector)
		consultationSvc := service.NewConsultationService(consultationRepo, patientRepo, userRepo, auditSvc, log, collector)
		pharmacySvc := service.NewPharmacyService(medicineRepo, pharmacy.Thresholds{LowStock: 10, Reorder: 0}, auditSvc, log)
		prescriptionSvc := service.NewPrescriptionService(prescriptionRepo, consultationRepo, auditSvc, log, collector)
		dashboardSvc := service.NewDashboardService(patientRepo, consultationSvc, pharmacySvc)

		testRouter = NewRouter(Dependencies{
			Config:          cfg,
			Logger:          log,
			JWTManager:      jwtManager,
			Authorizer:      rbac.NewAuthorizer(rbac.DefaultPermissions(), log, collector),
			Initializer:     bootstrap.NewInitializer(db, cfg.Seed, log, collector),
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
	})
	return testRouter
}

func doRequest(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope.Data
}

func loginAs(t *testing.T, r *gin.Engine, email string) string {
	t.Helper()
	w := doRequest(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    email,
		"password": "password",
	})
	require.Equal(t, http.StatusOK, w.Code, "login as %s: %s", email, w.Body.String())
	token, _ := decodeData(t, w)["access_token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestLoginAgainstSeededUsers(t *testing.T) {
	r := testServer(t)

	w := doRequest(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email": "admin@healthsys.demo", "password": "password",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := decodeData(t, w)
	assert.NotEmpty(t, data["access_token"])
	assert.NotEmpty(t, data["refresh_token"])
	assert.Equal(t, "Bearer", data["token_type"])

	w = doRequest(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email": "admin@healthsys.demo", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email": "nobody@healthsys.demo", "password": "password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMissingTokenIsUnauthorized(t *testing.T) {
	r := testServer(t)

	for _, path := range []string{"/api/v1/dashboard", "/api/v1/patients", "/api/v1/pharmacy/inventory", "/api/v1/users"} {
		w := doRequest(t, r, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "expected 401 for %s", path)
	}

	w := doRequest(t, r, http.MethodGet, "/api/v1/patients", "not-a-real-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPermissionDeniedIsForbidden(t *testing.T) {
	r := testServer(t)

	pharmacist := loginAs(t, r, "l.mahmoud@healthsys.demo")
	nurse := loginAs(t, r, "n.hassan@healthsys.demo")
	doctor := loginAs(t, r, "a.emadi@healthsys.demo")

	// Pharmacists have no clinical-record access.
	w := doRequest(t, r, http.MethodGet, "/api/v1/patients", pharmacist, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Only admins delete patients.
	w = doRequest(t, r, http.MethodDelete, "/api/v1/patients/"+uuid.NewString(), doctor, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Nurses cannot create consultations.
	w = doRequest(t, r, http.MethodPost, "/api/v1/consultations", nurse, gin.H{})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Doctors cannot dispense.
	w = doRequest(t, r, http.MethodPost, "/api/v1/prescriptions/"+uuid.NewString()+"/dispense", doctor, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Non-admins cannot list users.
	w = doRequest(t, r, http.MethodGet, "/api/v1/users", doctor, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDashboardSummary(t *testing.T) {
	r := testServer(t)
	nurse := loginAs(t, r, "n.hassan@healthsys.demo")

	w := doRequest(t, r, http.MethodGet, "/api/v1/dashboard", nurse, nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeData(t, w)
	assert.GreaterOrEqual(t, data["total_patients"].(float64), float64(4))
	recent, ok := data["recent_consultations"].([]any)
	require.True(t, ok)
	assert.NotEmpty(t, recent)
	first := recent[0].(map[string]any)
	assert.NotEmpty(t, first["patient_name"])
	assert.NotEmpty(t, first["doctor_name"])
}

func TestPatientLifecycleOverHTTP(t *testing.T) {
	r := testServer(t)
	nurse := loginAs(t, r, "n.hassan@healthsys.demo")
	admin := loginAs(t, r, "admin@healthsys.demo")

	w := doRequest(t, r, http.MethodPost, "/api/v1/patients", nurse, gin.H{
		"qid":            "31230101999",
		"name":           "Huda Rahman",
		"contact_number": "55987654",
		"date_of_birth":  "1995-04-12",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decodeData(t, w)
	id := created["id"].(string)
	assert.Equal(t, "1995-04-12", created["date_of_birth"])

	// Duplicate QID conflicts.
	w = doRequest(t, r, http.MethodPost, "/api/v1/patients", nurse, gin.H{
		"qid": "31230101999", "name": "Someone Else",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Partial update.
	w = doRequest(t, r, http.MethodPut, "/api/v1/patients/"+id, nurse, gin.H{
		"contact_number": "55000000",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "55000000", decodeData(t, w)["contact_number"])
	assert.Equal(t, "Huda Rahman", decodeData(t, w)["name"])

	// Admin removes the record; it is gone afterwards.
	w = doRequest(t, r, http.MethodDelete, "/api/v1/patients/"+id, admin, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, r, http.MethodGet, "/api/v1/patients/"+id, nurse, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDispenseFlowOverHTTP(t *testing.T) {
	r := testServer(t)
	pharmacist := loginAs(t, r, "l.mahmoud@healthsys.demo")

	w := doRequest(t, r, http.MethodGet, "/api/v1/prescriptions?dispensed=false", pharmacist, nil)
	require.Equal(t, http.StatusOK, w.Code)

	list := decodeData(t, w)["prescriptions"].([]any)
	require.NotEmpty(t, list)

	// Pick the seeded prescription linked to the medicine catalog.
	var id, medicineID string
	for _, item := range list {
		rx := item.(map[string]any)
		if mid, ok := rx["medicine_id"].(string); ok && mid != "" {
			id = rx["id"].(string)
			medicineID = mid
			break
		}
	}
	require.NotEmpty(t, id, "expected a seeded prescription linked to the catalog")

	stockBefore := medicineStock(t, r, pharmacist, medicineID)

	w = doRequest(t, r, http.MethodPost, "/api/v1/prescriptions/"+id+"/dispense", pharmacist, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	dispensed := decodeData(t, w)
	assert.Equal(t, true, dispensed["dispensed"])
	assert.NotEmpty(t, dispensed["dispensed_at"])

	// Linked stock went down by exactly one.
	assert.Equal(t, stockBefore-1, medicineStock(t, r, pharmacist, medicineID))

	// A second dispense conflicts and leaves stock alone.
	w = doRequest(t, r, http.MethodPost, "/api/v1/prescriptions/"+id+"/dispense", pharmacist, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, stockBefore-1, medicineStock(t, r, pharmacist, medicineID))
}

func medicineStock(t *testing.T, r *gin.Engine, token, medicineID string) int {
	t.Helper()
	w := doRequest(t, r, http.MethodGet, "/api/v1/pharmacy/inventory", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	for _, item := range decodeData(t, w)["medicines"].([]any) {
		m := item.(map[string]any)
		if m["id"].(string) == medicineID {
			return int(m["stock_level"].(float64))
		}
	}
	t.Fatalf("medicine %s not found in inventory", medicineID)
	return 0
}

func TestInventoryStatusDerivation(t *testing.T) {
	r := testServer(t)
	pharmacist := loginAs(t, r, "l.mahmoud@healthsys.demo")

	w := doRequest(t, r, http.MethodPost, "/api/v1/pharmacy/inventory", pharmacist, gin.H{
		"name":        fmt.Sprintf("Test Syrup %s", uuid.NewString()[:8]),
		"stock_level": 3,
		"expiry_date": time.Now().AddDate(1, 0, 0).Format("2006-01-02"),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := decodeData(t, w)["id"].(string)

	w = doRequest(t, r, http.MethodGet, "/api/v1/pharmacy/inventory", pharmacist, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var status string
	for _, item := range decodeData(t, w)["medicines"].([]any) {
		m := item.(map[string]any)
		if m["id"].(string) == id {
			status = m["status"].(string)
		}
	}
	assert.Equal(t, "Low Stock", status)

	// Restocking moves it back to In Stock.
	w = doRequest(t, r, http.MethodPatch, "/api/v1/pharmacy/inventory/"+id+"/stock", pharmacist, gin.H{"delta": 100})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(103), decodeData(t, w)["stock_level"])
}

func TestHealthAndMetricsEndpoints(t *testing.T) {
	r := testServer(t)

	// Touch the API first so the lazy gate has run.
	loginAs(t, r, "admin@healthsys.demo")

	w := doRequest(t, r, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)

	w = doRequest(t, r, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
