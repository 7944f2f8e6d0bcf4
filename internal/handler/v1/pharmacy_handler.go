package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/healthsys/clinic-api/internal/domain/pharmacy"
	"github.com/healthsys/clinic-api/internal/middleware"
	"github.com/healthsys/clinic-api/internal/service"
)

type PharmacyHandler struct {
	pharmacySvc *service.PharmacyService
}

func NewPharmacyHandler(pharmacySvc *service.PharmacyService) *PharmacyHandler {
	return &PharmacyHandler{pharmacySvc: pharmacySvc}
}

type createMedicineRequest struct {
	Name       string `json:"name" binding:"required"`
	StockLevel int    `json:"stock_level"`
	Location   string `json:"location"`
	ExpiryDate string `json:"expiry_date"`
}

type adjustStockRequest struct {
	Delta int `json:"delta" binding:"required"`
}

type medicineResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	StockLevel int       `json:"stock_level"`
	Location   string    `json:"location"`
	ExpiryDate string    `json:"expiry_date,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func toMedicineResponse(m *pharmacy.Medicine) medicineResponse {
	return medicineResponse{
		ID:         m.ID,
		Name:       m.Name,
		StockLevel: m.StockLevel,
		Location:   m.Location,
		ExpiryDate: formatDate(m.ExpiryDate),
		CreatedAt:  m.CreatedAt,
	}
}

// Inventory returns every catalog line with its derived status.
func (h *PharmacyHandler) Inventory(c *gin.Context) {
	items, err := h.pharmacySvc.Inventory(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{"medicines": items})
}

func (h *PharmacyHandler) Create(c *gin.Context) {
	claims, _ := middleware.ActorClaims(c)

	var req createMedicineRequest
	if !bindJSON(c, &req) {
		return
	}

	expiry, ok := parseDate(c, "expiry_date", req.ExpiryDate)
	if !ok {
		return
	}

	cmd := &pharmacy.CreateMedicineCommand{
		Name:       req.Name,
		StockLevel: req.StockLevel,
		Location:   req.Location,
		ExpiryDate: expiry,
	}

	m, err := h.pharmacySvc.AddMedicine(c.Request.Context(), cmd, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, toMedicineResponse(m))
}

func (h *PharmacyHandler) AdjustStock(c *gin.Context) {
	claims, _ := middleware.ActorClaims(c)

	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req adjustStockRequest
	if !bindJSON(c, &req) {
		return
	}

	m, err := h.pharmacySvc.AdjustStock(c.Request.Context(), id, &pharmacy.AdjustStockCommand{Delta: req.Delta}, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toMedicineResponse(m))
}
