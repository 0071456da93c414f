package services

import (
	"context"
	"testing"
	"time"

	"github.com/buddyike18/project-dine-backend/internal/events"

	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	orderCols     = []string{"id", "user_id", "restaurant_id", "check_id", "total_price", "status", "priority", "assigned_staff_id", "created_at", "updated_at"}
	checkCols     = []string{"id", "restaurant_id", "table_label", "status", "tip_amount", "created_at", "updated_at"}
	lineCols      = []string{"id", "order_id", "check_id", "menu_item_id", "quantity", "price"}
	paymentCols   = []string{"id", "order_id", "check_id", "amount", "method", "reference", "paid_at"}
	inventoryCols = []string{"id", "name", "quantity", "unit", "low_stock_threshold", "updated_at"}

	testTime = time.Date(2026, 3, 14, 19, 30, 0, 0, time.UTC)
)

// typed nils for nullable columns in mocked rows
var (
	noID    *int64
	noLabel *string
	noTip   *float64
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event events.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	return nil
}

func eventOfType(eventType string) any {
	return mock.MatchedBy(func(e events.Event) bool { return e.Type == eventType })
}

func newTestPool(t *testing.T) pgxmock.PgxPoolIface {
	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func checkRow(id, restaurantID int64, status string) *pgxmock.Rows {
	return pgxmock.NewRows(checkCols).AddRow(id, restaurantID, noLabel, status, noTip, testTime, testTime)
}

func idRow(id int64) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id"}).AddRow(id)
}

func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505", ConstraintName: "inventory_items_name_key"}
}
