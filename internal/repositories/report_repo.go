package repositories

import (
	"context"
	"time"

	"github.com/buddyike18/project-dine-backend/pkg/database"
)

// StatusTotal is the order count and revenue of one order status.
type StatusTotal struct {
	Status  string
	Orders  int64
	Revenue float64
}

// MethodTotal is the payment count and amount of one payment method.
type MethodTotal struct {
	Method   string
	Payments int64
	Amount   float64
}

type ReportRepository interface {
	OrderTotalsByStatus(ctx context.Context, restaurantID int64, from, to time.Time) ([]StatusTotal, error)
	PaymentTotalsByMethod(ctx context.Context, restaurantID int64, from, to time.Time) ([]MethodTotal, error)
}

type reportRepo struct {
	db database.DBTX
}

func NewReportRepo(db database.DBTX) ReportRepository {
	return &reportRepo{db: db}
}

func (r *reportRepo) OrderTotalsByStatus(ctx context.Context, restaurantID int64, from, to time.Time) ([]StatusTotal, error) {
	query := `
		SELECT status, COUNT(*), COALESCE(SUM(total_price), 0)::float8
		FROM orders
		WHERE restaurant_id = $1 AND created_at >= $2 AND created_at < $3
		GROUP BY status
		ORDER BY status
	`
	rows, err := r.db.Query(ctx, query, restaurantID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := []StatusTotal{}
	for rows.Next() {
		var t StatusTotal
		if err := rows.Scan(&t.Status, &t.Orders, &t.Revenue); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

// PaymentTotalsByMethod covers both order payments and check payments of the restaurant.
func (r *reportRepo) PaymentTotalsByMethod(ctx context.Context, restaurantID int64, from, to time.Time) ([]MethodTotal, error) {
	query := `
		SELECT p.method, COUNT(*), COALESCE(SUM(p.amount), 0)::float8
		FROM payments p
		LEFT JOIN orders o ON o.id = p.order_id
		LEFT JOIN checks c ON c.id = p.check_id
		WHERE COALESCE(o.restaurant_id, c.restaurant_id) = $1 AND p.paid_at >= $2 AND p.paid_at < $3
		GROUP BY p.method
		ORDER BY p.method
	`
	rows, err := r.db.Query(ctx, query, restaurantID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := []MethodTotal{}
	for rows.Next() {
		var t MethodTotal
		if err := rows.Scan(&t.Method, &t.Payments, &t.Amount); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}
