package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type PaymentMethod string

const (
	PaymentCash          PaymentMethod = "Cash"
	PaymentCard          PaymentMethod = "Card"
	PaymentGiftCard      PaymentMethod = "GiftCard"
	PaymentLoyaltyPoints PaymentMethod = "LoyaltyPoints"
)

// ParsePaymentMethod accepts "card", "Gift Card", "gift_card", "loyalty-points" and so on.
func ParsePaymentMethod(raw string) (PaymentMethod, bool) {
	norm := strings.NewReplacer(" ", "", "_", "", "-", "").Replace(strings.ToLower(raw))
	switch norm {
	case "cash":
		return PaymentCash, true
	case "card":
		return PaymentCard, true
	case "giftcard":
		return PaymentGiftCard, true
	case "loyaltypoints", "loyalty":
		return PaymentLoyaltyPoints, true
	}
	return "", false
}

type Payment struct {
	ID        int64         `json:"id" db:"id"`
	OrderID   *int64        `json:"order_id,omitempty" db:"order_id"`
	CheckID   *int64        `json:"check_id,omitempty" db:"check_id"`
	Amount    float64       `json:"amount" db:"amount"`
	Method    PaymentMethod `json:"method" db:"method"`
	Reference uuid.UUID     `json:"reference" db:"reference"`
	PaidAt    time.Time     `json:"paid_at" db:"paid_at"`
}

// PaymentInput is a requested payment.
type PaymentInput struct {
	Amount float64 `json:"amount"`
	Method string  `json:"method"`
}
