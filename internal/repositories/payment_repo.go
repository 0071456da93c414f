package repositories

import (
	"context"

	"github.com/buddyike18/project-dine-backend/internal/models"
	"github.com/buddyike18/project-dine-backend/pkg/database"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	ListByOrder(ctx context.Context, orderID int64) ([]*models.Payment, error)
	ListByCheck(ctx context.Context, checkID int64) ([]*models.Payment, error)
}

type paymentRepo struct {
	db database.DBTX
}

func NewPaymentRepo(db database.DBTX) PaymentRepository {
	return &paymentRepo{db: db}
}

func (r *paymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	query := `
		INSERT INTO payments (order_id, check_id, amount, method, reference, paid_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, paid_at
	`
	return r.db.QueryRow(ctx, query, payment.OrderID, payment.CheckID, payment.Amount, string(payment.Method), payment.Reference).
		Scan(&payment.ID, &payment.PaidAt)
}

func (r *paymentRepo) ListByOrder(ctx context.Context, orderID int64) ([]*models.Payment, error) {
	query := `
		SELECT id, order_id, check_id, amount, method, reference, paid_at
		FROM payments
		WHERE order_id = $1
		ORDER BY paid_at
	`
	return r.list(ctx, query, orderID)
}

func (r *paymentRepo) ListByCheck(ctx context.Context, checkID int64) ([]*models.Payment, error) {
	query := `
		SELECT id, order_id, check_id, amount, method, reference, paid_at
		FROM payments
		WHERE check_id = $1
		ORDER BY paid_at
	`
	return r.list(ctx, query, checkID)
}

func (r *paymentRepo) list(ctx context.Context, query string, arg int64) ([]*models.Payment, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := []*models.Payment{}
	for rows.Next() {
		p := &models.Payment{}
		var method string
		if err := rows.Scan(&p.ID, &p.OrderID, &p.CheckID, &p.Amount, &method, &p.Reference, &p.PaidAt); err != nil {
			return nil, err
		}
		p.Method = models.PaymentMethod(method)
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
