package repositories

import (
	"context"

	"github.com/buddyike18/project-dine-backend/internal/models"
	"github.com/buddyike18/project-dine-backend/pkg/database"

	"github.com/jackc/pgx/v5"
)

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id int64) (*models.Order, error)
	GetOwned(ctx context.Context, id int64, userID string) (*models.Order, error)
	LockOwned(ctx context.Context, id int64, userID string) (*models.Order, error)
	Lock(ctx context.Context, id int64) (*models.Order, error)
	UpdateTotal(ctx context.Context, order *models.Order) error
	UpdateStatus(ctx context.Context, id int64, status models.OrderStatus) (*models.Order, error)
	UpdatePriority(ctx context.Context, id int64, priority models.OrderPriority) (*models.Order, error)
	AssignStaff(ctx context.Context, id int64, staffID int64) (*models.Order, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*models.Order, error)
}

const orderColumns = `id, user_id, restaurant_id, check_id, total_price, status, priority, assigned_staff_id, created_at, updated_at`

type orderRepo struct {
	db database.DBTX
}

func NewOrderRepo(db database.DBTX) OrderRepository {
	return &orderRepo{db: db}
}

func scanOrder(row pgx.Row) (*models.Order, error) {
	order := &models.Order{}
	var status, priority string
	err := row.Scan(&order.ID, &order.UserID, &order.RestaurantID, &order.CheckID, &order.TotalPrice,
		&status, &priority, &order.AssignedStaffID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}
	order.Status = models.OrderStatus(status)
	order.Priority = models.OrderPriority(priority)
	return order, nil
}

func (r *orderRepo) Create(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (user_id, restaurant_id, check_id, total_price, status, priority, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRow(ctx, query, order.UserID, order.RestaurantID, order.CheckID, order.TotalPrice,
		string(order.Status), string(order.Priority)).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
}

func (r *orderRepo) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return scanOrder(r.db.QueryRow(ctx, query, id))
}

func (r *orderRepo) GetOwned(ctx context.Context, id int64, userID string) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 AND user_id = $2`
	return scanOrder(r.db.QueryRow(ctx, query, id, userID))
}

// LockOwned reads an order owned by userID and row-locks it until the transaction ends.
func (r *orderRepo) LockOwned(ctx context.Context, id int64, userID string) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 AND user_id = $2 FOR UPDATE`
	return scanOrder(r.db.QueryRow(ctx, query, id, userID))
}

func (r *orderRepo) Lock(ctx context.Context, id int64) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 FOR UPDATE`
	return scanOrder(r.db.QueryRow(ctx, query, id))
}

func (r *orderRepo) UpdateTotal(ctx context.Context, order *models.Order) error {
	query := `
		UPDATE orders
		SET total_price = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING updated_at
	`
	return r.db.QueryRow(ctx, query, order.TotalPrice, order.ID).Scan(&order.UpdatedAt)
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id int64, status models.OrderStatus) (*models.Order, error) {
	query := `UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2 RETURNING ` + orderColumns
	return scanOrder(r.db.QueryRow(ctx, query, string(status), id))
}

func (r *orderRepo) UpdatePriority(ctx context.Context, id int64, priority models.OrderPriority) (*models.Order, error) {
	query := `UPDATE orders SET priority = $1, updated_at = NOW() WHERE id = $2 RETURNING ` + orderColumns
	return scanOrder(r.db.QueryRow(ctx, query, string(priority), id))
}

func (r *orderRepo) AssignStaff(ctx context.Context, id int64, staffID int64) (*models.Order, error) {
	query := `UPDATE orders SET assigned_staff_id = $1, updated_at = NOW() WHERE id = $2 RETURNING ` + orderColumns
	return scanOrder(r.db.QueryRow(ctx, query, staffID, id))
}

func (r *orderRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*models.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}
