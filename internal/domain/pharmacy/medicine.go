package pharmacy

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockStatus is derived from stock level and expiry at read time; it is
// never persisted, so a stale stored value can never be trusted.
type StockStatus string

const (
	StatusInStock  StockStatus = "In Stock"
	StatusLowStock StockStatus = "Low Stock"
	StatusReorder  StockStatus = "Reorder"
	StatusExpired  StockStatus = "Expired"
)

// Thresholds are the inventory cut-offs, injected from configuration.
type Thresholds struct {
	LowStock int // stock at or below this is "Low Stock"
	Reorder  int // stock at or below this is "Reorder"
}

type Medicine struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Name       string     `gorm:"column:name;type:varchar(100);not null"`
	StockLevel int        `gorm:"column:stock_level;not null"`
	Location   string     `gorm:"column:location;type:varchar(100)"`
	ExpiryDate *time.Time `gorm:"column:expiry_date"`
}

func (Medicine) TableName() string {
	return "medicines"
}

func (m *Medicine) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// StatusAt derives the stock status as of the given date. Expiry takes
// precedence over every stock threshold.
func (m *Medicine) StatusAt(now time.Time, t Thresholds) StockStatus {
	if m.ExpiryDate != nil && m.ExpiryDate.Before(truncateToDay(now)) {
		return StatusExpired
	}
	switch {
	case m.StockLevel <= t.Reorder:
		return StatusReorder
	case m.StockLevel <= t.LowStock:
		return StatusLowStock
	}
	return StatusInStock
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

type CreateMedicineCommand struct {
	Name       string
	StockLevel int
	Location   string
	ExpiryDate *time.Time
}

type AdjustStockCommand struct {
	// Delta is applied to the current stock level; the result never goes
	// below zero.
	Delta int
}

// InventoryItem is the read projection served to callers: the stored
// fields plus the derived status.
type InventoryItem struct {
	ID         uuid.UUID   `json:"id"`
	Name       string      `json:"name"`
	StockLevel int         `json:"stock_level"`
	Location   string      `json:"location"`
	ExpiryDate *time.Time  `json:"expiry_date"`
	Status     StockStatus `json:"status"`
}
