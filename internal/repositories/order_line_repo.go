package repositories

import (
	"context"

	"github.com/buddyike18/project-dine-backend/internal/models"
	"github.com/buddyike18/project-dine-backend/pkg/database"
)

type OrderLineRepository interface {
	Create(ctx context.Context, line *models.OrderLine) error
	DeleteByOrder(ctx context.Context, orderID int64) (int64, error)
	ListByOrder(ctx context.Context, orderID int64) ([]*models.OrderLine, error)
	ListByCheck(ctx context.Context, checkID int64) ([]*models.OrderLine, error)
	ListByChecks(ctx context.Context, checkIDs []int64) ([]*models.OrderLine, error)
	CheckIDsByOrder(ctx context.Context, orderID int64) ([]int64, error)
	MoveToCheck(ctx context.Context, fromCheckID, toCheckID int64, lineIDs []int64) (int64, error)
}

type orderLineRepo struct {
	db database.DBTX
}

func NewOrderLineRepo(db database.DBTX) OrderLineRepository {
	return &orderLineRepo{db: db}
}

func (r *orderLineRepo) Create(ctx context.Context, line *models.OrderLine) error {
	query := `
		INSERT INTO order_lines (order_id, check_id, menu_item_id, quantity, price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	return r.db.QueryRow(ctx, query, line.OrderID, line.CheckID, line.MenuItemID, line.Quantity, line.Price).Scan(&line.ID)
}

func (r *orderLineRepo) DeleteByOrder(ctx context.Context, orderID int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM order_lines WHERE order_id = $1`, orderID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *orderLineRepo) ListByOrder(ctx context.Context, orderID int64) ([]*models.OrderLine, error) {
	query := `
		SELECT id, order_id, check_id, menu_item_id, quantity, price
		FROM order_lines
		WHERE order_id = $1
		ORDER BY id
	`
	return r.list(ctx, query, orderID)
}

func (r *orderLineRepo) ListByCheck(ctx context.Context, checkID int64) ([]*models.OrderLine, error) {
	query := `
		SELECT id, order_id, check_id, menu_item_id, quantity, price
		FROM order_lines
		WHERE check_id = $1
		ORDER BY id
	`
	return r.list(ctx, query, checkID)
}

func (r *orderLineRepo) ListByChecks(ctx context.Context, checkIDs []int64) ([]*models.OrderLine, error) {
	query := `
		SELECT id, order_id, check_id, menu_item_id, quantity, price
		FROM order_lines
		WHERE check_id = ANY($1)
		ORDER BY id
	`
	return r.list(ctx, query, checkIDs)
}

// CheckIDsByOrder returns the distinct checks the order's lines currently sit on.
func (r *orderLineRepo) CheckIDsByOrder(ctx context.Context, orderID int64) ([]int64, error) {
	query := `
		SELECT DISTINCT check_id
		FROM order_lines
		WHERE order_id = $1 AND check_id IS NOT NULL
		ORDER BY check_id
	`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// MoveToCheck re-points the given lines of fromCheckID at toCheckID and
// returns how many lines actually moved.
func (r *orderLineRepo) MoveToCheck(ctx context.Context, fromCheckID, toCheckID int64, lineIDs []int64) (int64, error) {
	query := `
		UPDATE order_lines
		SET check_id = $1
		WHERE check_id = $2 AND id = ANY($3)
	`
	tag, err := r.db.Exec(ctx, query, toCheckID, fromCheckID, lineIDs)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *orderLineRepo) list(ctx context.Context, query string, arg any) ([]*models.OrderLine, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := []*models.OrderLine{}
	for rows.Next() {
		line := &models.OrderLine{}
		if err := rows.Scan(&line.ID, &line.OrderID, &line.CheckID, &line.MenuItemID, &line.Quantity, &line.Price); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}
