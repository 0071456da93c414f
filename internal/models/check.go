package models

import (
	"strings"
	"time"
)

type CheckStatus string

const (
	CheckOpen   CheckStatus = "Open"
	CheckClosed CheckStatus = "Closed"
	CheckPaid   CheckStatus = "Paid"
)

// ParseCheckStatus accepts any casing of a known status.
func ParseCheckStatus(raw string) (CheckStatus, bool) {
	for _, s := range []CheckStatus{CheckOpen, CheckClosed, CheckPaid} {
		if strings.EqualFold(string(s), strings.TrimSpace(raw)) {
			return s, true
		}
	}
	return "", false
}

// Check is a running bill. It owns the order lines whose check_id points at it.
type Check struct {
	ID           int64        `json:"id" db:"id"`
	RestaurantID int64        `json:"restaurant_id" db:"restaurant_id"`
	TableLabel   *string      `json:"table_label,omitempty" db:"table_label"`
	Status       CheckStatus  `json:"status" db:"status"`
	TipAmount    *float64     `json:"tip_amount,omitempty" db:"tip_amount"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" db:"updated_at"`
	Lines        []*OrderLine `json:"lines"`
	Total        float64      `json:"total"`
}

// SplitResult is the state of both checks after a split.
type SplitResult struct {
	Source *Check `json:"source"`
	Split  *Check `json:"split"`
}
