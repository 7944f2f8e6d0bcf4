package v1

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/healthsys/clinic-api/internal/bootstrap"
	"github.com/healthsys/clinic-api/internal/config"
	"github.com/healthsys/clinic-api/internal/middleware"
	"github.com/healthsys/clinic-api/internal/rbac"
	"github.com/healthsys/clinic-api/internal/service"
	"github.com/healthsys/clinic-api/pkg/auth"
	"github.com/healthsys/clinic-api/pkg/metrics"
)

// Dependencies carries everything the router wires together.
type Dependencies struct {
	Config      *config.Config
	Logger      *zap.Logger
	JWTManager  *auth.JWTManager
	Authorizer  *rbac.Authorizer
	Initializer *bootstrap.Initializer
	Metrics     *metrics.Collector

	AuthSvc         *service.AuthService
	AuditSvc        *service.AuditService
	UserSvc         *service.UserService
	PatientSvc      *service.PatientService
	ConsultationSvc *service.ConsultationService
	PharmacySvc     *service.PharmacyService
	PrescriptionSvc *service.PrescriptionService
	DashboardSvc    *service.DashboardService
}

// NewRouter assembles the HTTP surface. Every /api/v1 route passes the
// initialization gate, then authentication, then its route-specific
// permission check.
func NewRouter(deps Dependencies) *gin.Engine {
	if deps.Config.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(deps.Config.App.Name))
	r.Use(middleware.Metrics(deps.Metrics))
	r.Use(middleware.RateLimit(deps.Config.RateLimit))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.Config.CORS.AllowedOrigins,
		AllowMethods:     deps.Config.CORS.AllowedMethods,
		AllowHeaders:     deps.Config.CORS.AllowedHeaders,
		AllowCredentials: true,
		MaxAge:           deps.Config.CORS.MaxAge,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		status, state := http.StatusOK, "ok"
		if !deps.Initializer.Ready() {
			status, state = http.StatusServiceUnavailable, "initializing"
		}
		c.JSON(status, gin.H{
			"status":  state,
			"version": deps.Config.App.Version,
		})
	})
	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	authHandler := NewAuthHandler(deps.AuthSvc)
	userHandler := NewUserHandler(deps.UserSvc)
	patientHandler := NewPatientHandler(deps.PatientSvc)
	consultationHandler := NewConsultationHandler(deps.ConsultationSvc)
	pharmacyHandler := NewPharmacyHandler(deps.PharmacySvc)
	prescriptionHandler := NewPrescriptionHandler(deps.PrescriptionSvc)
	dashboardHandler := NewDashboardHandler(deps.DashboardSvc)

	api := r.Group("/api/v1")
	api.Use(middleware.EnsureReady(deps.Initializer))

	// Authentication endpoints take no bearer token.
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
	}

	authed := api.Group("")
	authed.Use(middleware.Authenticate(deps.JWTManager))

	authed.GET("/auth/me", authHandler.Me)
	authed.POST("/auth/password", authHandler.ChangePassword)

	perm := func(p rbac.Permission) gin.HandlerFunc {
		return middleware.RequirePermission(deps.Authorizer, deps.AuditSvc, p)
	}

	authed.GET("/dashboard", perm(rbac.PermViewDashboard), dashboardHandler.Summary)

	patients := authed.Group("/patients")
	{
		patients.GET("", perm(rbac.PermViewPatients), patientHandler.List)
		patients.POST("", perm(rbac.PermRegisterPatient), patientHandler.Create)
		patients.GET("/:id", perm(rbac.PermViewPatients), patientHandler.Get)
		patients.PUT("/:id", perm(rbac.PermUpdatePatient), patientHandler.Update)
		patients.DELETE("/:id", perm(rbac.PermDeletePatient), patientHandler.Delete)
	}

	consultations := authed.Group("/consultations")
	{
		consultations.GET("", perm(rbac.PermViewConsultations), consultationHandler.List)
		consultations.POST("", perm(rbac.PermCreateConsultation), consultationHandler.Create)
		consultations.GET("/:id", perm(rbac.PermViewConsultations), consultationHandler.Get)
	}

	inventory := authed.Group("/pharmacy/inventory")
	{
		inventory.GET("", perm(rbac.PermViewInventory), pharmacyHandler.Inventory)
		inventory.POST("", perm(rbac.PermManageInventory), pharmacyHandler.Create)
		inventory.PATCH("/:id/stock", perm(rbac.PermManageInventory), pharmacyHandler.AdjustStock)
	}

	prescriptions := authed.Group("/prescriptions")
	{
		prescriptions.GET("", perm(rbac.PermViewPrescriptions), prescriptionHandler.List)
		prescriptions.POST("", perm(rbac.PermCreatePrescription), prescriptionHandler.Create)
		prescriptions.GET("/:id", perm(rbac.PermViewPrescriptions), prescriptionHandler.Get)
		prescriptions.POST("/:id/dispense", perm(rbac.PermDispensePrescription), prescriptionHandler.Dispense)
	}

	users := authed.Group("/users")
	{
		users.GET("", perm(rbac.PermViewUsers), userHandler.List)
		users.POST("", perm(rbac.PermManageUsers), userHandler.Create)
	}

	return r
}
