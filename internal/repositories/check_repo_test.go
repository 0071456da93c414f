package repositories

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/buddyike18/project-dine-backend/internal/models"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var checkCols = []string{"id", "restaurant_id", "table_label", "status", "tip_amount", "created_at", "updated_at"}

// typed nils for nullable columns in mocked rows
var (
	noID    *int64
	noLabel *string
	noTip   *float64
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func TestCheckRepo_CreateAndLock(t *testing.T) {
	mock := newMock(t)
	repo := NewCheckRepo(mock)
	now := time.Now().UTC()
	label := "T4"

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO checks")).
		WithArgs(int64(3), &label, "Open").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(10), now, now))

	check := &models.Check{RestaurantID: 3, TableLabel: &label, Status: models.CheckOpen}
	require.NoError(t, repo.Create(context.Background(), check))
	assert.Equal(t, int64(10), check.ID)

	mock.ExpectQuery(regexp.QuoteMeta("FROM checks WHERE id = $1 FOR UPDATE")).
		WithArgs(int64(10)).
		WillReturnRows(pgxmock.NewRows(checkCols).AddRow(int64(10), int64(3), &label, "Open", noTip, now, now))

	locked, err := repo.Lock(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, models.CheckOpen, locked.Status)
	assert.Equal(t, "T4", *locked.TableLabel)
	assert.Nil(t, locked.TipAmount)
}

func TestCheckRepo_UpdateStatusWritesTip(t *testing.T) {
	mock := newMock(t)
	repo := NewCheckRepo(mock)
	tip := 2.5
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE checks")).
		WithArgs("Paid", &tip, int64(10)).
		WillReturnRows(pgxmock.NewRows([]string{"updated_at"}).AddRow(now))

	check := &models.Check{ID: 10, Status: models.CheckPaid, TipAmount: &tip}
	require.NoError(t, repo.UpdateStatus(context.Background(), check))
	assert.Equal(t, now, check.UpdatedAt)
}

func TestCheckRepo_ListByRestaurantWithStatus(t *testing.T) {
	mock := newMock(t)
	repo := NewCheckRepo(mock)
	status := models.CheckClosed
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("AND status = $2 ORDER BY created_at DESC LIMIT $3 OFFSET $4")).
		WithArgs(int64(3), "Closed", 20, 0).
		WillReturnRows(pgxmock.NewRows(checkCols).AddRow(int64(10), int64(3), noLabel, "Closed", noTip, now, now))

	checks, err := repo.ListByRestaurant(context.Background(), 3, &status, 20, 0)
	require.NoError(t, err)
	require.Len(t, checks, 1)
	assert.Equal(t, models.CheckClosed, checks[0].Status)
}

func TestPaymentRepo_CreateAndList(t *testing.T) {
	mock := newMock(t)
	repo := NewPaymentRepo(mock)
	orderID := int64(42)
	ref := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO payments")).
		WithArgs(&orderID, (*int64)(nil), 13.0, "Card", ref).
		WillReturnRows(pgxmock.NewRows([]string{"id", "paid_at"}).AddRow(int64(5), now))

	p := &models.Payment{OrderID: &orderID, Amount: 13.0, Method: models.PaymentCard, Reference: ref}
	require.NoError(t, repo.Create(context.Background(), p))
	assert.Equal(t, int64(5), p.ID)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE order_id = $1")).
		WithArgs(int64(42)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "order_id", "check_id", "amount", "method", "reference", "paid_at"}).
			AddRow(int64(5), &orderID, noID, 13.0, "Card", ref, now))

	payments, err := repo.ListByOrder(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, models.PaymentCard, payments[0].Method)
	assert.Equal(t, ref, payments[0].Reference)
}
