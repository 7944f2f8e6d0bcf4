package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/healthsys/clinic-api/internal/domain/prescription"
	"github.com/healthsys/clinic-api/internal/middleware"
	"github.com/healthsys/clinic-api/internal/service"
)

type PrescriptionHandler struct {
	prescriptionSvc *service.PrescriptionService
}

func NewPrescriptionHandler(prescriptionSvc *service.PrescriptionService) *PrescriptionHandler {
	return &PrescriptionHandler{prescriptionSvc: prescriptionSvc}
}

type createPrescriptionRequest struct {
	Medication     string     `json:"medication" binding:"required"`
	Dosage         string     `json:"dosage"`
	Instructions   string     `json:"instructions"`
	ConsultationID uuid.UUID  `json:"consultation_id" binding:"required"`
	MedicineID     *uuid.UUID `json:"medicine_id"`
}

type prescriptionResponse struct {
	ID             uuid.UUID  `json:"id"`
	Medication     string     `json:"medication"`
	Dosage         string     `json:"dosage"`
	Instructions   string     `json:"instructions"`
	Dispensed      bool       `json:"dispensed"`
	DispensedAt    *time.Time `json:"dispensed_at,omitempty"`
	DispensedBy    *uuid.UUID `json:"dispensed_by,omitempty"`
	ConsultationID uuid.UUID  `json:"consultation_id"`
	MedicineID     *uuid.UUID `json:"medicine_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

func toPrescriptionResponse(p *prescription.Prescription) prescriptionResponse {
	return prescriptionResponse{
		ID:             p.ID,
		Medication:     p.Medication,
		Dosage:         p.Dosage,
		Instructions:   p.Instructions,
		Dispensed:      p.Dispensed,
		DispensedAt:    p.DispensedAt,
		DispensedBy:    p.DispensedBy,
		ConsultationID: p.ConsultationID,
		MedicineID:     p.MedicineID,
		CreatedAt:      p.CreatedAt,
	}
}

func (h *PrescriptionHandler) Create(c *gin.Context) {
	claims, _ := middleware.ActorClaims(c)

	var req createPrescriptionRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &prescription.CreatePrescriptionCommand{
		Medication:     req.Medication,
		Dosage:         req.Dosage,
		Instructions:   req.Instructions,
		ConsultationID: req.ConsultationID,
		MedicineID:     req.MedicineID,
	}

	p, err := h.prescriptionSvc.CreatePrescription(c.Request.Context(), cmd, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, toPrescriptionResponse(p))
}

func (h *PrescriptionHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	p, err := h.prescriptionSvc.GetPrescription(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toPrescriptionResponse(p))
}

// Dispense flips the prescription to dispensed. Repeated calls conflict.
func (h *PrescriptionHandler) Dispense(c *gin.Context) {
	claims, _ := middleware.ActorClaims(c)

	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	p, err := h.prescriptionSvc.DispensePrescription(c.Request.Context(), id, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toPrescriptionResponse(p))
}

func (h *PrescriptionHandler) List(c *gin.Context) {
	q := &prescription.ListPrescriptionsQuery{
		Page:     parseQueryInt(c, "page", 1),
		PageSize: parseQueryInt(c, "page_size", 20),
	}

	if raw := c.Query("consultation_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(400, ErrorResponse{Error: "invalid consultation_id: must be a valid UUID"})
			return
		}
		q.ConsultationID = &id
	}
	if raw := c.Query("dispensed"); raw != "" {
		dispensed := raw == "true"
		q.Dispensed = &dispensed
	}

	paged, err := h.prescriptionSvc.ListPrescriptions(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	prescriptions := make([]prescriptionResponse, 0, len(paged.Prescriptions))
	for _, p := range paged.Prescriptions {
		prescriptions = append(prescriptions, toPrescriptionResponse(p))
	}

	respondOK(c, gin.H{
		"prescriptions": prescriptions,
		"total_count":   paged.TotalCount,
		"page":          paged.Page,
		"page_size":     paged.PageSize,
		"total_pages":   paged.TotalPages,
	})
}
