package pharmacy

import "errors"

var (
	ErrMedicineNotFound  = errors.New("medicine not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidStockLevel = errors.New("stock level cannot be negative")
)
