package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/buddyike18/project-dine-backend/internal/common"
)

const (
	maxLinesPerOrder = 200
	maxLineQuantity  = 10000
	maxUnitPrice     = 1000000.0
	maxPaymentAmount = 100000000.0
	maxBulkItems     = 500
	maxSplitLines    = 200
)

// PlaceOrder creates an order with its lines and an optional payment.
type PlaceOrder struct {
	UserID       string        `json:"-"`
	RestaurantID int64         `json:"restaurant"`
	Priority     string        `json:"priority,omitempty"`
	CheckID      *int64        `json:"check_id,omitempty"`
	Lines        []LineInput   `json:"lines"`
	Payment      *PaymentInput `json:"payment,omitempty"`
}

// Validate checks the command and canonicalizes priority and payment method.
func (c *PlaceOrder) Validate() error {
	if strings.TrimSpace(c.UserID) == "" {
		return common.Validation("user", "user is required")
	}
	if err := common.ValidatePositiveID(c.RestaurantID, "restaurant"); err != nil {
		return err
	}
	if c.CheckID != nil {
		if err := common.ValidatePositiveID(*c.CheckID, "check_id"); err != nil {
			return err
		}
	}
	if c.Priority == "" {
		c.Priority = string(PriorityMedium)
	} else {
		p, ok := ParseOrderPriority(c.Priority)
		if !ok {
			return common.Validation("priority", "priority must be one of: Low, Medium, High, Urgent")
		}
		c.Priority = string(p)
	}
	if err := validateLines(c.Lines); err != nil {
		return err
	}
	if c.Payment != nil {
		if err := validatePayment(c.Payment, "payment"); err != nil {
			return err
		}
	}
	return nil
}

// ReplaceOrderContents swaps every line of an order owned by the subject.
type ReplaceOrderContents struct {
	OrderID int64       `json:"-"`
	UserID  string      `json:"-"`
	Lines   []LineInput `json:"lines"`
}

func (c *ReplaceOrderContents) Validate() error {
	if strings.TrimSpace(c.UserID) == "" {
		return common.Validation("user", "user is required")
	}
	if err := common.ValidatePositiveID(c.OrderID, "order_id"); err != nil {
		return err
	}
	return validateLines(c.Lines)
}

// UpdateOrderStatus moves an order along its lifecycle.
type UpdateOrderStatus struct {
	OrderID int64  `json:"-"`
	Status  string `json:"status"`
}

func (c *UpdateOrderStatus) Validate() error {
	if err := common.ValidatePositiveID(c.OrderID, "order_id"); err != nil {
		return err
	}
	s, ok := ParseOrderStatus(c.Status)
	if !ok {
		return common.Validation("status", "status must be one of: Pending, Preparing, Ready, Served, Completed")
	}
	c.Status = string(s)
	return nil
}

// UpdateOrderPriority changes an order's kitchen priority.
type UpdateOrderPriority struct {
	OrderID  int64  `json:"-"`
	Priority string `json:"priority"`
}

func (c *UpdateOrderPriority) Validate() error {
	if err := common.ValidatePositiveID(c.OrderID, "order_id"); err != nil {
		return err
	}
	p, ok := ParseOrderPriority(c.Priority)
	if !ok {
		return common.Validation("priority", "priority must be one of: Low, Medium, High, Urgent")
	}
	c.Priority = string(p)
	return nil
}

// AssignStaff assigns an employee to an order.
type AssignStaff struct {
	OrderID int64 `json:"-"`
	StaffID int64 `json:"staff_id"`
}

func (c *AssignStaff) Validate() error {
	if err := common.ValidatePositiveID(c.OrderID, "order_id"); err != nil {
		return err
	}
	return common.ValidatePositiveID(c.StaffID, "staff_id")
}

// BulkInventoryUpdate sets the quantity of several inventory items at once.
type BulkInventoryUpdate struct {
	Items []InventoryQuantity `json:"items"`
}

func (c *BulkInventoryUpdate) Validate() error {
	if len(c.Items) == 0 {
		return common.Validation("items", "at least one item is required")
	}
	if len(c.Items) > maxBulkItems {
		return common.Validation("items", fmt.Sprintf("cannot update more than %d items at once", maxBulkItems))
	}
	seen := make(map[int64]struct{}, len(c.Items))
	for i, item := range c.Items {
		if err := common.ValidatePositiveID(item.ID, fmt.Sprintf("items[%d].id", i)); err != nil {
			return err
		}
		if err := common.ValidateNonNegativeFloat(item.Quantity, fmt.Sprintf("items[%d].quantity", i), 1e9); err != nil {
			return err
		}
		if _, dup := seen[item.ID]; dup {
			return common.Validation(fmt.Sprintf("items[%d].id", i), fmt.Sprintf("item %d appears more than once", item.ID))
		}
		seen[item.ID] = struct{}{}
	}
	return nil
}

// ParseInventoryQuantities decodes raw batch entries one by one so a single
// malformed entry (wrong type, missing field) rejects the whole batch.
func ParseInventoryQuantities(raw []json.RawMessage) ([]InventoryQuantity, error) {
	items := make([]InventoryQuantity, 0, len(raw))
	for i, entry := range raw {
		var fields struct {
			ID       *int64   `json:"id"`
			Quantity *float64 `json:"quantity"`
		}
		dec := json.NewDecoder(bytes.NewReader(entry))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&fields); err != nil {
			return nil, common.Validation(fmt.Sprintf("items[%d]", i), "item must be an object with numeric id and quantity")
		}
		if fields.ID == nil {
			return nil, common.Validation(fmt.Sprintf("items[%d].id", i), "id is required")
		}
		if fields.Quantity == nil {
			return nil, common.Validation(fmt.Sprintf("items[%d].quantity", i), "quantity is required")
		}
		items = append(items, InventoryQuantity{ID: *fields.ID, Quantity: *fields.Quantity})
	}
	return items, nil
}

// CreateInventoryItem registers a new stock item.
type CreateInventoryItem struct {
	Name              string  `json:"name"`
	Quantity          float64 `json:"quantity"`
	Unit              string  `json:"unit"`
	LowStockThreshold float64 `json:"low_stock_threshold"`
}

func (c *CreateInventoryItem) Validate() error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return common.Validation("name", "name is required")
	}
	if len(c.Name) > 200 {
		return common.Validation("name", "name cannot exceed 200 characters")
	}
	c.Unit = strings.TrimSpace(c.Unit)
	if c.Unit == "" {
		return common.Validation("unit", "unit is required")
	}
	if err := common.ValidateNonNegativeFloat(c.Quantity, "quantity", 1e9); err != nil {
		return err
	}
	return common.ValidateNonNegativeFloat(c.LowStockThreshold, "low_stock_threshold", 1e9)
}

// OpenCheck starts a new tab.
type OpenCheck struct {
	RestaurantID int64   `json:"restaurant_id"`
	TableLabel   *string `json:"table_label,omitempty"`
}

func (c *OpenCheck) Validate() error {
	if err := common.ValidatePositiveID(c.RestaurantID, "restaurant_id"); err != nil {
		return err
	}
	return common.ValidateOptionalString(c.TableLabel, "table_label", 50)
}

// SplitCheck moves the listed lines from an open check onto a new one.
type SplitCheck struct {
	SourceCheckID int64   `json:"-"`
	LineIDs       []int64 `json:"line_ids"`
}

func (c *SplitCheck) Validate() error {
	if err := common.ValidatePositiveID(c.SourceCheckID, "check_id"); err != nil {
		return err
	}
	if len(c.LineIDs) == 0 {
		return common.Validation("line_ids", "at least one line id is required")
	}
	if len(c.LineIDs) > maxSplitLines {
		return common.Validation("line_ids", fmt.Sprintf("cannot move more than %d lines", maxSplitLines))
	}
	seen := make(map[int64]struct{}, len(c.LineIDs))
	for i, id := range c.LineIDs {
		if err := common.ValidatePositiveID(id, fmt.Sprintf("line_ids[%d]", i)); err != nil {
			return err
		}
		if _, dup := seen[id]; dup {
			return common.Validation(fmt.Sprintf("line_ids[%d]", i), fmt.Sprintf("line %d listed more than once", id))
		}
		seen[id] = struct{}{}
	}
	return nil
}

// RecordCheckPayment records a payment against an open check and closes it.
type RecordCheckPayment struct {
	CheckID int64    `json:"-"`
	Amount  float64  `json:"amount"`
	Method  string   `json:"method"`
	Tip     *float64 `json:"tip_amount,omitempty"`
}

func (c *RecordCheckPayment) Validate() error {
	if err := common.ValidatePositiveID(c.CheckID, "check_id"); err != nil {
		return err
	}
	p := PaymentInput{Amount: c.Amount, Method: c.Method}
	if err := validatePayment(&p, ""); err != nil {
		return err
	}
	c.Method = p.Method
	if c.Tip != nil {
		return validateMoney(*c.Tip, "tip_amount", maxPaymentAmount)
	}
	return nil
}

// SettleCheck marks a closed check as paid, optionally recording the tip.
type SettleCheck struct {
	CheckID int64    `json:"-"`
	Tip     *float64 `json:"tip_amount,omitempty"`
}

func (c *SettleCheck) Validate() error {
	if err := common.ValidatePositiveID(c.CheckID, "check_id"); err != nil {
		return err
	}
	if c.Tip != nil {
		return validateMoney(*c.Tip, "tip_amount", maxPaymentAmount)
	}
	return nil
}

func validateLines(lines []LineInput) error {
	if len(lines) == 0 {
		return common.Validation("lines", "at least one line is required")
	}
	if len(lines) > maxLinesPerOrder {
		return common.Validation("lines", fmt.Sprintf("an order cannot have more than %d lines", maxLinesPerOrder))
	}
	for i, l := range lines {
		if err := common.ValidatePositiveID(l.MenuItemID, fmt.Sprintf("lines[%d].menu_id", i)); err != nil {
			return err
		}
		if err := common.ValidatePositiveInteger(l.Quantity, fmt.Sprintf("lines[%d].quantity", i), maxLineQuantity); err != nil {
			return err
		}
		if err := validateMoney(l.Price, fmt.Sprintf("lines[%d].price", i), maxUnitPrice); err != nil {
			return err
		}
	}
	if linesSum(lines).GreaterThan(MaxOrderTotal) {
		return common.Validation("lines", fmt.Sprintf("order total cannot exceed %s", MaxOrderTotal.StringFixed(2)))
	}
	return nil
}

// validateMoney checks a non-negative amount stored in a NUMERIC(12,2) column.
func validateMoney(value float64, fieldName string, maxValue float64) error {
	if err := common.ValidateNonNegativeFloat(value, fieldName, maxValue); err != nil {
		return err
	}
	if HasSubCentPrecision(value) {
		return common.Validation(fieldName, fmt.Sprintf("%s cannot have more than two decimal places", fieldName))
	}
	return nil
}

func validatePayment(p *PaymentInput, prefix string) error {
	field := func(name string) string {
		if prefix == "" {
			return name
		}
		return prefix + "." + name
	}
	if err := validateMoney(p.Amount, field("amount"), maxPaymentAmount); err != nil {
		return err
	}
	method, ok := ParsePaymentMethod(p.Method)
	if !ok {
		return common.Validation(field("method"), "method must be one of: Cash, Card, GiftCard, LoyaltyPoints")
	}
	p.Method = string(method)
	return nil
}
