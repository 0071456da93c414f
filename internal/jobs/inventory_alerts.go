package jobs

import (
	"context"

	"github.com/buddyike18/project-dine-backend/internal/events"
	"github.com/buddyike18/project-dine-backend/internal/models"

	"github.com/labstack/gommon/log"
)

const defaultAlertLimit = 500

// LowStockLister is the part of the inventory service the alert job reads.
type LowStockLister interface {
	ListLowStock(ctx context.Context, limit int) ([]*models.InventoryItem, error)
}

// LowStockAlert is the payload of an inventory.low_stock event.
type LowStockAlert struct {
	ItemID    int64   `json:"item_id"`
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	Threshold float64 `json:"low_stock_threshold"`
	Unit      string  `json:"unit"`
}

type InventoryAlertService struct {
	inventory LowStockLister
	publisher events.Publisher
	limit     int
}

func NewInventoryAlertService(inventory LowStockLister, publisher events.Publisher, limit int) *InventoryAlertService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	if limit <= 0 {
		limit = defaultAlertLimit
	}
	return &InventoryAlertService{inventory: inventory, publisher: publisher, limit: limit}
}

// CheckLowStock returns every item below its reorder threshold.
func (a *InventoryAlertService) CheckLowStock(ctx context.Context) ([]LowStockAlert, error) {
	items, err := a.inventory.ListLowStock(ctx, a.limit)
	if err != nil {
		return nil, err
	}
	alerts := make([]LowStockAlert, 0, len(items))
	for _, item := range items {
		alerts = append(alerts, LowStockAlert{
			ItemID:    item.ID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Threshold: item.LowStockThreshold,
			Unit:      item.Unit,
		})
	}
	return alerts, nil
}

// ScheduledLowStockCheck logs and publishes one event per low item.
// A failed publish is logged and does not stop the remaining alerts.
func (a *InventoryAlertService) ScheduledLowStockCheck(ctx context.Context) error {
	alerts, err := a.CheckLowStock(ctx)
	if err != nil {
		log.Errorf("Low stock check failed: %v", err)
		return err
	}
	if len(alerts) == 0 {
		log.Debug("No low stock items")
		return nil
	}

	log.Infof("%d inventory items below threshold", len(alerts))
	for _, alert := range alerts {
		log.Infof("- '%s' has %.2f %s (threshold: %.2f)", alert.Name, alert.Quantity, alert.Unit, alert.Threshold)
		if err := a.publisher.Publish(ctx, events.New(events.InventoryLow, alert)); err != nil {
			log.Warnf("publish low stock alert for item %d: %v", alert.ItemID, err)
		}
	}
	return nil
}
