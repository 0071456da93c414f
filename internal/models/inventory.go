package models

import "time"

type InventoryItem struct {
	ID                int64     `json:"id" db:"id"`
	Name              string    `json:"name" db:"name"`
	Quantity          float64   `json:"quantity" db:"quantity"`
	Unit              string    `json:"unit" db:"unit"`
	LowStockThreshold float64   `json:"low_stock_threshold" db:"low_stock_threshold"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// IsLowStock reports whether the item has fallen below its reorder threshold.
func (i *InventoryItem) IsLowStock() bool {
	return i.Quantity < i.LowStockThreshold
}

// InventoryQuantity is one {id, quantity} pair of a bulk update.
type InventoryQuantity struct {
	ID       int64   `json:"id"`
	Quantity float64 `json:"quantity"`
}
