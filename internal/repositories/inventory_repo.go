package repositories

import (
	"context"

	"github.com/buddyike18/project-dine-backend/internal/models"
	"github.com/buddyike18/project-dine-backend/pkg/database"

	"github.com/jackc/pgx/v5"
)

type InventoryRepository interface {
	Create(ctx context.Context, item *models.InventoryItem) error
	GetByID(ctx context.Context, id int64) (*models.InventoryItem, error)
	List(ctx context.Context, limit, offset int) ([]*models.InventoryItem, error)
	UpdateQuantity(ctx context.Context, id int64, quantity float64) (*models.InventoryItem, error)
	ListLowStock(ctx context.Context, limit int) ([]*models.InventoryItem, error)
}

const inventoryColumns = `id, name, quantity, unit, low_stock_threshold, updated_at`

type inventoryRepo struct {
	db database.DBTX
}

func NewInventoryRepo(db database.DBTX) InventoryRepository {
	return &inventoryRepo{db: db}
}

func scanInventoryItem(row pgx.Row) (*models.InventoryItem, error) {
	item := &models.InventoryItem{}
	if err := row.Scan(&item.ID, &item.Name, &item.Quantity, &item.Unit, &item.LowStockThreshold, &item.UpdatedAt); err != nil {
		return nil, err
	}
	return item, nil
}

func (r *inventoryRepo) Create(ctx context.Context, item *models.InventoryItem) error {
	query := `
		INSERT INTO inventory_items (name, quantity, unit, low_stock_threshold, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, updated_at
	`
	return r.db.QueryRow(ctx, query, item.Name, item.Quantity, item.Unit, item.LowStockThreshold).Scan(&item.ID, &item.UpdatedAt)
}

func (r *inventoryRepo) GetByID(ctx context.Context, id int64) (*models.InventoryItem, error) {
	return scanInventoryItem(r.db.QueryRow(ctx, `SELECT `+inventoryColumns+` FROM inventory_items WHERE id = $1`, id))
}

func (r *inventoryRepo) List(ctx context.Context, limit, offset int) ([]*models.InventoryItem, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory_items ORDER BY name LIMIT $1 OFFSET $2`
	return r.list(ctx, query, limit, offset)
}

// UpdateQuantity sets an absolute quantity. pgx.ErrNoRows means the item does not exist.
func (r *inventoryRepo) UpdateQuantity(ctx context.Context, id int64, quantity float64) (*models.InventoryItem, error) {
	query := `
		UPDATE inventory_items
		SET quantity = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + inventoryColumns
	return scanInventoryItem(r.db.QueryRow(ctx, query, quantity, id))
}

func (r *inventoryRepo) ListLowStock(ctx context.Context, limit int) ([]*models.InventoryItem, error) {
	query := `
		SELECT ` + inventoryColumns + `
		FROM inventory_items
		WHERE quantity < low_stock_threshold
		ORDER BY quantity - low_stock_threshold
		LIMIT $1
	`
	return r.list(ctx, query, limit)
}

func (r *inventoryRepo) list(ctx context.Context, query string, args ...any) ([]*models.InventoryItem, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []*models.InventoryItem{}
	for rows.Next() {
		item, err := scanInventoryItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
