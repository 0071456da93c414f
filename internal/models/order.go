package models

import (
	"strings"
	"time"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "Pending"
	OrderPreparing OrderStatus = "Preparing"
	OrderReady     OrderStatus = "Ready"
	OrderServed    OrderStatus = "Served"
	OrderCompleted OrderStatus = "Completed"
)

// orderStatusRank orders the kitchen lifecycle; transitions only move forward.
var orderStatusRank = map[OrderStatus]int{
	OrderPending:   0,
	OrderPreparing: 1,
	OrderReady:     2,
	OrderServed:    3,
	OrderCompleted: 4,
}

// ParseOrderStatus accepts any casing of a known status.
func ParseOrderStatus(raw string) (OrderStatus, bool) {
	for status := range orderStatusRank {
		if strings.EqualFold(string(status), strings.TrimSpace(raw)) {
			return status, true
		}
	}
	return "", false
}

// CanTransitionTo reports whether an order may move from s to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	from, ok := orderStatusRank[s]
	if !ok {
		return false
	}
	to, ok := orderStatusRank[next]
	return ok && to > from
}

type OrderPriority string

const (
	PriorityLow    OrderPriority = "Low"
	PriorityMedium OrderPriority = "Medium"
	PriorityHigh   OrderPriority = "High"
	PriorityUrgent OrderPriority = "Urgent"
)

// ParseOrderPriority accepts any casing of a known priority.
func ParseOrderPriority(raw string) (OrderPriority, bool) {
	for _, p := range []OrderPriority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent} {
		if strings.EqualFold(string(p), strings.TrimSpace(raw)) {
			return p, true
		}
	}
	return "", false
}

type Order struct {
	ID              int64         `json:"id" db:"id"`
	UserID          string        `json:"user_id" db:"user_id"`
	RestaurantID    int64         `json:"restaurant_id" db:"restaurant_id"`
	CheckID         *int64        `json:"check_id,omitempty" db:"check_id"`
	TotalPrice      float64       `json:"total_price" db:"total_price"`
	Status          OrderStatus   `json:"status" db:"status"`
	Priority        OrderPriority `json:"priority" db:"priority"`
	AssignedStaffID *int64        `json:"assigned_staff_id,omitempty" db:"assigned_staff_id"`
	CreatedAt       time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at" db:"updated_at"`
	Lines           []*OrderLine  `json:"lines,omitempty"`
	Payments        []*Payment    `json:"payments,omitempty"`
}
