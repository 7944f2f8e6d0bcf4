package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/healthsys/clinic-api/internal/domain/consultation"
	"github.com/healthsys/clinic-api/internal/middleware"
	"github.com/healthsys/clinic-api/internal/service"
)

type ConsultationHandler struct {
	consultationSvc *service.ConsultationService
}

func NewConsultationHandler(consultationSvc *service.ConsultationService) *ConsultationHandler {
	return &ConsultationHandler{consultationSvc: consultationSvc}
}

type createConsultationRequest struct {
	ConsultationDate time.Time `json:"consultation_date" binding:"required"`
	Diagnosis        string    `json:"diagnosis"`
	Notes            string    `json:"notes"`
	PatientID        uuid.UUID `json:"patient_id" binding:"required"`
	DoctorID         uuid.UUID `json:"doctor_id" binding:"required"`
}

type consultationResponse struct {
	ID               uuid.UUID `json:"id"`
	ConsultationDate time.Time `json:"consultation_date"`
	Diagnosis        string    `json:"diagnosis"`
	Notes            string    `json:"notes"`
	PatientID        uuid.UUID `json:"patient_id"`
	DoctorID         uuid.UUID `json:"doctor_id"`
	CreatedAt        time.Time `json:"created_at"`
}

func toConsultationResponse(con *consultation.Consultation) consultationResponse {
	return consultationResponse{
		ID:               con.ID,
		ConsultationDate: con.ConsultationDate,
		Diagnosis:        con.Diagnosis,
		Notes:            con.Notes,
		PatientID:        con.PatientID,
		DoctorID:         con.DoctorID,
		CreatedAt:        con.CreatedAt,
	}
}

func (h *ConsultationHandler) Create(c *gin.Context) {
	claims, _ := middleware.ActorClaims(c)

	var req createConsultationRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &consultation.CreateConsultationCommand{
		ConsultationDate: req.ConsultationDate,
		Diagnosis:        req.Diagnosis,
		Notes:            req.Notes,
		PatientID:        req.PatientID,
		DoctorID:         req.DoctorID,
	}

	con, err := h.consultationSvc.RecordConsultation(c.Request.Context(), cmd, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, toConsultationResponse(con))
}

func (h *ConsultationHandler) Get(c *gin.Context) {
	claims, _ := middleware.ActorClaims(c)

	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	con, err := h.consultationSvc.GetConsultation(c.Request.Context(), id, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toConsultationResponse(con))
}

func (h *ConsultationHandler) List(c *gin.Context) {
	q := &consultation.ListConsultationsQuery{
		Page:     parseQueryInt(c, "page", 1),
		PageSize: parseQueryInt(c, "page_size", 20),
	}

	if raw := c.Query("patient_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(400, ErrorResponse{Error: "invalid patient_id: must be a valid UUID"})
			return
		}
		q.PatientID = &id
	}
	if raw := c.Query("doctor_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(400, ErrorResponse{Error: "invalid doctor_id: must be a valid UUID"})
			return
		}
		q.DoctorID = &id
	}

	paged, err := h.consultationSvc.ListConsultations(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	consultations := make([]consultationResponse, 0, len(paged.Consultations))
	for _, con := range paged.Consultations {
		consultations = append(consultations, toConsultationResponse(con))
	}

	respondOK(c, gin.H{
		"consultations": consultations,
		"total_count":   paged.TotalCount,
		"page":          paged.Page,
		"page_size":     paged.PageSize,
		"total_pages":   paged.TotalPages,
	})
}
