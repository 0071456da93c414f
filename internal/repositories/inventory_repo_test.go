package repositories

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/buddyike18/project-dine-backend/internal/models"

	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var inventoryCols = []string{"id", "name", "quantity", "unit", "low_stock_threshold", "updated_at"}

func TestInventoryRepo_UpdateQuantity(t *testing.T) {
	mock := newMock(t)
	repo := NewInventoryRepo(mock)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE inventory_items")).
		WithArgs(12.5, int64(4)).
		WillReturnRows(pgxmock.NewRows(inventoryCols).AddRow(int64(4), "Flour", 12.5, "kg", 5.0, now))

	item, err := repo.UpdateQuantity(context.Background(), 4, 12.5)
	require.NoError(t, err)
	assert.Equal(t, 12.5, item.Quantity)
	assert.False(t, item.IsLowStock())
}

func TestInventoryRepo_UpdateQuantityMissingRow(t *testing.T) {
	mock := newMock(t)
	repo := NewInventoryRepo(mock)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE inventory_items")).
		WithArgs(1.0, int64(999)).
		WillReturnRows(pgxmock.NewRows(inventoryCols))

	_, err := repo.UpdateQuantity(context.Background(), 999, 1.0)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestInventoryRepo_ListLowStock(t *testing.T) {
	mock := newMock(t)
	repo := NewInventoryRepo(mock)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE quantity < low_stock_threshold")).
		WithArgs(100).
		WillReturnRows(pgxmock.NewRows(inventoryCols).
			AddRow(int64(2), "Milk", 1.0, "l", 6.0, now).
			AddRow(int64(7), "Eggs", 10.0, "pcs", 12.0, now))

	items, err := repo.ListLowStock(context.Background(), 100)
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, item := range items {
		assert.True(t, item.IsLowStock(), item.Name)
	}
}

func TestInventoryRepo_Create(t *testing.T) {
	mock := newMock(t)
	repo := NewInventoryRepo(mock)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO inventory_items")).
		WithArgs("Basil", 0.5, "kg", 0.2).
		WillReturnRows(pgxmock.NewRows([]string{"id", "updated_at"}).AddRow(int64(8), now))

	item := &models.InventoryItem{Name: "Basil", Quantity: 0.5, Unit: "kg", LowStockThreshold: 0.2}
	require.NoError(t, repo.Create(context.Background(), item))
	assert.Equal(t, int64(8), item.ID)
}
