package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/healthsys/clinic-api/internal/domain/patient"
	"github.com/healthsys/clinic-api/internal/middleware"
	"github.com/healthsys/clinic-api/internal/service"
)

type PatientHandler struct {
	patientSvc *service.PatientService
}

func NewPatientHandler(patientSvc *service.PatientService) *PatientHandler {
	return &PatientHandler{patientSvc: patientSvc}
}

type createPatientRequest struct {
	QID           string `json:"qid" binding:"required"`
	Name          string `json:"name" binding:"required"`
	ContactNumber string `json:"contact_number"`
	DateOfBirth   string `json:"date_of_birth"`
	Address       string `json:"address"`
	LastVisit     string `json:"last_visit"`
}

type updatePatientRequest struct {
	Name          *string `json:"name"`
	ContactNumber *string `json:"contact_number"`
	DateOfBirth   string  `json:"date_of_birth"`
	Address       *string `json:"address"`
	LastVisit     string  `json:"last_visit"`
}

type patientResponse struct {
	ID            uuid.UUID `json:"id"`
	QID           string    `json:"qid"`
	Name          string    `json:"name"`
	ContactNumber string    `json:"contact_number"`
	DateOfBirth   string    `json:"date_of_birth,omitempty"`
	Age           int       `json:"age"`
	Address       string    `json:"address"`
	LastVisit     string    `json:"last_visit,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func toPatientResponse(p *patient.Patient) patientResponse {
	return patientResponse{
		ID:            p.ID,
		QID:           p.QID,
		Name:          p.Name,
		ContactNumber: p.ContactNumber,
		DateOfBirth:   formatDate(p.DateOfBirth),
		Age:           p.Age(),
		Address:       p.Address,
		LastVisit:     formatDate(p.LastVisit),
		CreatedAt:     p.CreatedAt,
	}
}

func (h *PatientHandler) Create(c *gin.Context) {
	claims, _ := middleware.ActorClaims(c)

	var req createPatientRequest
	if !bindJSON(c, &req) {
		return
	}

	dob, ok := parseDate(c, "date_of_birth", req.DateOfBirth)
	if !ok {
		return
	}
	lastVisit, ok := parseDate(c, "last_visit", req.LastVisit)
	if !ok {
		return
	}

	cmd := &patient.CreatePatientCommand{
		QID:           req.QID,
		Name:          req.Name,
		ContactNumber: req.ContactNumber,
		DateOfBirth:   dob,
		Address:       req.Address,
		LastVisit:     lastVisit,
	}

	p, err := h.patientSvc.RegisterPatient(c.Request.Context(), cmd, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, toPatientResponse(p))
}

func (h *PatientHandler) Get(c *gin.Context) {
	claims, _ := middleware.ActorClaims(c)

	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	p, err := h.patientSvc.GetPatient(c.Request.Context(), id, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toPatientResponse(p))
}

func (h *PatientHandler) Update(c *gin.Context) {
	claims, _ := middleware.ActorClaims(c)

	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req updatePatientRequest
	if !bindJSON(c, &req) {
		return
	}

	dob, ok := parseDate(c, "date_of_birth", req.DateOfBirth)
	if !ok {
		return
	}
	lastVisit, ok := parseDate(c, "last_visit", req.LastVisit)
	if !ok {
		return
	}

	cmd := &patient.UpdatePatientCommand{
		Name:          req.Name,
		ContactNumber: req.ContactNumber,
		DateOfBirth:   dob,
		Address:       req.Address,
		LastVisit:     lastVisit,
	}

	p, err := h.patientSvc.UpdatePatient(c.Request.Context(), id, cmd, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toPatientResponse(p))
}

func (h *PatientHandler) Delete(c *gin.Context) {
	claims, _ := middleware.ActorClaims(c)

	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.patientSvc.DeletePatient(c.Request.Context(), id, claims.UserID, string(claims.Role), c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse[any]{Message: "patient and related records deleted"})
}

func (h *PatientHandler) List(c *gin.Context) {
	q := &patient.ListPatientsQuery{
		Search:   c.Query("search"),
		Page:     parseQueryInt(c, "page", 1),
		PageSize: parseQueryInt(c, "page_size", 20),
	}

	paged, err := h.patientSvc.ListPatients(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	patients := make([]patientResponse, 0, len(paged.Patients))
	for _, p := range paged.Patients {
		patients = append(patients, toPatientResponse(p))
	}

	respondOK(c, gin.H{
		"patients":    patients,
		"total_count": paged.TotalCount,
		"page":        paged.Page,
		"page_size":   paged.PageSize,
		"total_pages": paged.TotalPages,
	})
}
