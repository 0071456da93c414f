package analytics

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/buddyike18/project-dine-backend/internal/common"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockReportCache struct {
	mock.Mock
}

func (m *MockReportCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	args := m.Called(ctx, key, dest)
	return args.Bool(0), args.Error(1)
}

func (m *MockReportCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *MockReportCache) InvalidateRestaurant(ctx context.Context, restaurantID int64) error {
	return m.Called(ctx, restaurantID).Error(0)
}

func (m *MockReportCache) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

var (
	march     = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	april     = time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	generated = time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)
	salesKey  = "dine:report:3:sales:2026-03-01T00:00:00Z:2026-04-01T00:00:00Z"
)

func newService(t *testing.T) (*AnalyticsService, pgxmock.PgxPoolIface, *MockReportCache) {
	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	cache := &MockReportCache{}
	t.Cleanup(func() {
		assert.NoError(t, pool.ExpectationsWereMet())
		cache.AssertExpectations(t)
		pool.Close()
	})
	svc := NewAnalyticsService(pool, cache, 5*time.Minute)
	svc.now = func() time.Time { return generated }
	return svc, pool, cache
}

func TestSalesSummary_ComputesAndCachesOnMiss(t *testing.T) {
	svc, pool, cache := newService(t)

	cache.On("Get", mock.Anything, salesKey, mock.Anything).Return(false, nil)
	pool.ExpectQuery(regexp.QuoteMeta("FROM orders")).
		WithArgs(int64(3), march, april).
		WillReturnRows(pgxmock.NewRows([]string{"status", "count", "sum"}).
			AddRow("Completed", int64(4), 52.5).
			AddRow("Pending", int64(1), 13.0))
	cache.On("Set", mock.Anything, salesKey, mock.AnythingOfType("*analytics.SalesSummary"), 5*time.Minute).Return(nil)

	summary, err := svc.SalesSummary(context.Background(), 3, march, april)
	require.NoError(t, err)
	assert.Equal(t, int64(5), summary.OrderCount)
	assert.Equal(t, 65.5, summary.Revenue)
	assert.Equal(t, map[string]int64{"Completed": 4, "Pending": 1}, summary.ByStatus)
	assert.Equal(t, generated, summary.GeneratedAt)
}

func TestSalesSummary_ServesCacheHit(t *testing.T) {
	svc, _, cache := newService(t)

	cache.On("Get", mock.Anything, salesKey, mock.AnythingOfType("*analytics.SalesSummary")).
		Run(func(args mock.Arguments) {
			*args.Get(2).(*SalesSummary) = SalesSummary{RestaurantID: 3, OrderCount: 9, Revenue: 120}
		}).
		Return(true, nil)

	summary, err := svc.SalesSummary(context.Background(), 3, march, april)
	require.NoError(t, err)
	assert.Equal(t, int64(9), summary.OrderCount)
	assert.Equal(t, 120.0, summary.Revenue)
}

func TestSalesSummary_CacheErrorsFallBackToDatabase(t *testing.T) {
	svc, pool, cache := newService(t)

	cache.On("Get", mock.Anything, salesKey, mock.Anything).Return(false, errors.New("redis down"))
	pool.ExpectQuery(regexp.QuoteMeta("FROM orders")).
		WithArgs(int64(3), march, april).
		WillReturnRows(pgxmock.NewRows([]string{"status", "count", "sum"}))
	cache.On("Set", mock.Anything, salesKey, mock.Anything, 5*time.Minute).Return(errors.New("redis down"))

	summary, err := svc.SalesSummary(context.Background(), 3, march, april)
	require.NoError(t, err)
	assert.Zero(t, summary.OrderCount)
	assert.Empty(t, summary.ByStatus)
}

func TestSalesSummary_RejectsBadRange(t *testing.T) {
	svc, _, _ := newService(t)

	_, err := svc.SalesSummary(context.Background(), 3, april, march)
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = svc.SalesSummary(context.Background(), 3, march, march.AddDate(2, 0, 0))
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = svc.SalesSummary(context.Background(), 0, march, april)
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestPaymentsByMethod(t *testing.T) {
	svc, pool, cache := newService(t)
	key := "dine:report:3:payments:2026-03-01T00:00:00Z:2026-04-01T00:00:00Z"

	cache.On("Get", mock.Anything, key, mock.Anything).Return(false, nil)
	pool.ExpectQuery(regexp.QuoteMeta("FROM payments p")).
		WithArgs(int64(3), march, april).
		WillReturnRows(pgxmock.NewRows([]string{"method", "count", "sum"}).
			AddRow("Card", int64(3), 40.1).
			AddRow("Cash", int64(2), 20.2))
	cache.On("Set", mock.Anything, key, mock.Anything, 5*time.Minute).Return(nil)

	report, err := svc.PaymentsByMethod(context.Background(), 3, march, april)
	require.NoError(t, err)
	assert.Equal(t, 60.3, report.Total)
	require.Len(t, report.Methods, 2)
	assert.Equal(t, MethodBreakdown{Method: "Card", Payments: 3, Amount: 40.1}, report.Methods[0])
}

func TestPaymentsByMethod_DatabaseFailureIsPersistence(t *testing.T) {
	svc, pool, cache := newService(t)

	cache.On("Get", mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
	pool.ExpectQuery(regexp.QuoteMeta("FROM payments p")).
		WithArgs(int64(3), march, april).
		WillReturnError(errors.New("conn reset"))

	_, err := svc.PaymentsByMethod(context.Background(), 3, march, april)
	assert.ErrorIs(t, err, common.ErrPersistence)
	cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
