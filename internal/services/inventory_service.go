package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/buddyike18/project-dine-backend/internal/common"
	"github.com/buddyike18/project-dine-backend/internal/events"
	"github.com/buddyike18/project-dine-backend/internal/models"
	"github.com/buddyike18/project-dine-backend/internal/repositories"

	"github.com/jackc/pgx/v5"
)

type InventoryService interface {
	CreateItem(ctx context.Context, cmd *models.CreateInventoryItem) (*models.InventoryItem, error)
	GetItem(ctx context.Context, id int64) (*models.InventoryItem, error)
	ListItems(ctx context.Context, limit, offset int) ([]*models.InventoryItem, error)
	ListLowStock(ctx context.Context, limit int) ([]*models.InventoryItem, error)
	BulkUpdate(ctx context.Context, cmd *models.BulkInventoryUpdate) ([]*models.InventoryItem, error)
}

type inventoryService struct {
	exec    *Executor
	effects *Effects
}

func NewInventoryService(exec *Executor, effects *Effects) InventoryService {
	if effects == nil {
		effects = NewEffects(nil, nil)
	}
	return &inventoryService{exec: exec, effects: effects}
}

func (s *inventoryService) CreateItem(ctx context.Context, cmd *models.CreateInventoryItem) (*models.InventoryItem, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	item := &models.InventoryItem{
		Name:              cmd.Name,
		Quantity:          cmd.Quantity,
		Unit:              cmd.Unit,
		LowStockThreshold: cmd.LowStockThreshold,
	}
	if err := repositories.NewInventoryRepo(s.exec.DB()).Create(ctx, item); err != nil {
		return nil, common.Classify("create_inventory_item", "inventory item", err)
	}
	return item, nil
}

func (s *inventoryService) GetItem(ctx context.Context, id int64) (*models.InventoryItem, error) {
	item, err := repositories.NewInventoryRepo(s.exec.DB()).GetByID(ctx, id)
	if err != nil {
		return nil, common.Classify("get_inventory_item", "inventory item", err)
	}
	return item, nil
}

func (s *inventoryService) ListItems(ctx context.Context, limit, offset int) ([]*models.InventoryItem, error) {
	limit, offset, err := common.ValidatePaginationParams(limit, offset)
	if err != nil {
		return nil, err
	}
	items, err := repositories.NewInventoryRepo(s.exec.DB()).List(ctx, limit, offset)
	if err != nil {
		return nil, common.Persistence("list_inventory", err)
	}
	return items, nil
}

func (s *inventoryService) ListLowStock(ctx context.Context, limit int) ([]*models.InventoryItem, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	items, err := repositories.NewInventoryRepo(s.exec.DB()).ListLowStock(ctx, limit)
	if err != nil {
		return nil, common.Persistence("list_low_stock", err)
	}
	return items, nil
}

// BulkUpdate sets every listed quantity or none of them. The batch is fully
// validated before the transaction opens, and rows are written in ascending
// id order so overlapping batches lock rows in the same order.
func (s *inventoryService) BulkUpdate(ctx context.Context, cmd *models.BulkInventoryUpdate) ([]*models.InventoryItem, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	ordered := make([]models.InventoryQuantity, len(cmd.Items))
	copy(ordered, cmd.Items)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	updated := make([]*models.InventoryItem, 0, len(ordered))
	err := s.exec.Run(ctx, "bulk_update_inventory", "inventory item",
		func(ctx context.Context, tx pgx.Tx) error {
			repo := repositories.NewInventoryRepo(tx)
			for _, change := range ordered {
				item, err := repo.UpdateQuantity(ctx, change.ID, change.Quantity)
				if errors.Is(err, pgx.ErrNoRows) {
					return common.NotFound(fmt.Sprintf("inventory item %d", change.ID))
				}
				if err != nil {
					return err
				}
				updated = append(updated, item)
			}
			return nil
		},
	)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(updated))
	lowStock := 0
	for i, item := range updated {
		ids[i] = item.ID
		if item.IsLowStock() {
			lowStock++
		}
	}
	s.effects.Committed(ctx, 0, events.New(events.InventoryUpdated, map[string]any{
		"item_ids":  ids,
		"low_stock": lowStock,
	}))
	return updated, nil
}
