package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/buddyike18/project-dine-backend/internal/analytics"
	"github.com/buddyike18/project-dine-backend/internal/common"
	"github.com/buddyike18/project-dine-backend/internal/models"
	"github.com/buddyike18/project-dine-backend/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) order(args mock.Arguments) (*models.Order, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderService) PlaceOrder(ctx context.Context, cmd *models.PlaceOrder) (*models.Order, error) {
	return m.order(m.Called(ctx, cmd))
}

func (m *MockOrderService) ReplaceOrderContents(ctx context.Context, cmd *models.ReplaceOrderContents) (*models.Order, error) {
	return m.order(m.Called(ctx, cmd))
}

func (m *MockOrderService) GetOrder(ctx context.Context, userID string, orderID int64) (*models.Order, error) {
	return m.order(m.Called(ctx, userID, orderID))
}

func (m *MockOrderService) ListOrders(ctx context.Context, userID string, limit, offset int) ([]*models.Order, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Order), args.Error(1)
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, cmd *models.UpdateOrderStatus) (*models.Order, error) {
	return m.order(m.Called(ctx, cmd))
}

func (m *MockOrderService) UpdatePriority(ctx context.Context, cmd *models.UpdateOrderPriority) (*models.Order, error) {
	return m.order(m.Called(ctx, cmd))
}

func (m *MockOrderService) AssignStaff(ctx context.Context, cmd *models.AssignStaff) (*models.Order, error) {
	return m.order(m.Called(ctx, cmd))
}

type MockCheckService struct {
	mock.Mock
}

func (m *MockCheckService) check(args mock.Arguments) (*models.Check, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Check), args.Error(1)
}

func (m *MockCheckService) OpenCheck(ctx context.Context, cmd *models.OpenCheck) (*models.Check, error) {
	return m.check(m.Called(ctx, cmd))
}

func (m *MockCheckService) GetCheck(ctx context.Context, checkID int64) (*models.Check, error) {
	return m.check(m.Called(ctx, checkID))
}

func (m *MockCheckService) ListChecks(ctx context.Context, restaurantID int64, status *models.CheckStatus, limit, offset int) ([]*models.Check, error) {
	args := m.Called(ctx, restaurantID, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Check), args.Error(1)
}

func (m *MockCheckService) SplitCheck(ctx context.Context, cmd *models.SplitCheck) (*models.SplitResult, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SplitResult), args.Error(1)
}

func (m *MockCheckService) RecordPayment(ctx context.Context, cmd *models.RecordCheckPayment) (*models.Check, *models.Payment, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.Check), args.Get(1).(*models.Payment), args.Error(2)
}

func (m *MockCheckService) SettleCheck(ctx context.Context, cmd *models.SettleCheck) (*models.Check, error) {
	return m.check(m.Called(ctx, cmd))
}

type MockReceiptService struct {
	mock.Mock
}

func (m *MockReceiptService) EnsureBucket(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockReceiptService) Generate(ctx context.Context, checkID int64) (*services.Receipt, error) {
	args := m.Called(ctx, checkID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Receipt), args.Error(1)
}

type MockInventoryService struct {
	mock.Mock
}

func (m *MockInventoryService) items(args mock.Arguments) ([]*models.InventoryItem, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.InventoryItem), args.Error(1)
}

func (m *MockInventoryService) CreateItem(ctx context.Context, cmd *models.CreateInventoryItem) (*models.InventoryItem, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryItem), args.Error(1)
}

func (m *MockInventoryService) GetItem(ctx context.Context, id int64) (*models.InventoryItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryItem), args.Error(1)
}

func (m *MockInventoryService) ListItems(ctx context.Context, limit, offset int) ([]*models.InventoryItem, error) {
	return m.items(m.Called(ctx, limit, offset))
}

func (m *MockInventoryService) ListLowStock(ctx context.Context, limit int) ([]*models.InventoryItem, error) {
	return m.items(m.Called(ctx, limit))
}

func (m *MockInventoryService) BulkUpdate(ctx context.Context, cmd *models.BulkInventoryUpdate) ([]*models.InventoryItem, error) {
	return m.items(m.Called(ctx, cmd))
}

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) SalesSummary(ctx context.Context, restaurantID int64, from, to time.Time) (*analytics.SalesSummary, error) {
	args := m.Called(ctx, restaurantID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analytics.SalesSummary), args.Error(1)
}

func (m *MockReportService) PaymentsByMethod(ctx context.Context, restaurantID int64, from, to time.Time) (*analytics.PaymentsReport, error) {
	args := m.Called(ctx, restaurantID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analytics.PaymentsReport), args.Error(1)
}

// newContext builds an echo context for method/target with an optional JSON
// body, authenticated as subject when subject is non-empty.
func newContext(method, target, body, subject string) (echo.Context, *httptest.ResponseRecorder) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if subject != "" {
		req = req.WithContext(common.WithSubject(req.Context(), subject))
	}
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func withID(c echo.Context, id string) echo.Context {
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) common.ErrorResponse {
	t.Helper()
	var resp common.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func assertStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, rec.Code, rec.Body.String())
}
