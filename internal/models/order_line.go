package models

type OrderLine struct {
	ID         int64   `json:"id" db:"id"`
	OrderID    int64   `json:"order_id" db:"order_id"`
	CheckID    *int64  `json:"check_id,omitempty" db:"check_id"`
	MenuItemID int64   `json:"menu_item_id" db:"menu_item_id"`
	Quantity   int     `json:"quantity" db:"quantity"`
	Price      float64 `json:"price" db:"price"`
}

// LineInput is one requested order line.
type LineInput struct {
	MenuItemID int64   `json:"menu_id"`
	Quantity   int     `json:"quantity"`
	Price      float64 `json:"price"`
}
