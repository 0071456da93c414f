package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/buddyike18/project-dine-backend/internal/common"
	"github.com/buddyike18/project-dine-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type OrderHandlersTestSuite struct {
	suite.Suite
	service  *MockOrderService
	handlers *OrderHandlers
}

func (s *OrderHandlersTestSuite) SetupTest() {
	s.service = &MockOrderService{}
	s.handlers = NewOrderHandlers(s.service)
}

func (s *OrderHandlersTestSuite) TearDownTest() {
	s.service.AssertExpectations(s.T())
}

func (s *OrderHandlersTestSuite) TestPlaceOrder_Created() {
	body := `{"restaurant":4,"lines":[{"menu_id":10,"quantity":2,"price":6.5}],"payment":{"amount":13.0,"method":"Card"}}`
	orderID := int64(21)
	placed := &models.Order{
		ID: orderID, UserID: "u1", RestaurantID: 4, TotalPrice: 13.0, Status: models.OrderPending,
		Lines:    []*models.OrderLine{{ID: 1, OrderID: orderID, MenuItemID: 10, Quantity: 2, Price: 6.5}},
		Payments: []*models.Payment{{ID: 1, OrderID: &orderID, Amount: 13.0, Method: models.PaymentCard}},
	}
	s.service.On("PlaceOrder", mock.Anything, mock.MatchedBy(func(cmd *models.PlaceOrder) bool {
		return cmd.UserID == "u1" && cmd.RestaurantID == 4 && len(cmd.Lines) == 1 &&
			cmd.Lines[0].MenuItemID == 10 && cmd.Payment != nil && cmd.Payment.Amount == 13.0
	})).Return(placed, nil)

	c, rec := newContext(http.MethodPost, "/v1/orders", body, "u1")
	s.Require().NoError(s.handlers.PlaceOrder(c))

	assertStatus(s.T(), rec, http.StatusCreated)
	var got models.Order
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Equal(13.0, got.TotalPrice)
	s.Len(got.Lines, 1)
	s.Require().Len(got.Payments, 1)
	s.Equal(got.ID, *got.Payments[0].OrderID)
	s.Equal(got.ID, got.Lines[0].OrderID)
}

func (s *OrderHandlersTestSuite) TestPlaceOrder_RequiresSubject() {
	c, rec := newContext(http.MethodPost, "/v1/orders", `{}`, "")
	s.Require().NoError(s.handlers.PlaceOrder(c))
	assertStatus(s.T(), rec, http.StatusUnauthorized)
}

func (s *OrderHandlersTestSuite) TestPlaceOrder_MalformedBody() {
	c, rec := newContext(http.MethodPost, "/v1/orders", `{"restaurant":"four"`, "u1")
	s.Require().NoError(s.handlers.PlaceOrder(c))
	assertStatus(s.T(), rec, http.StatusBadRequest)
	s.Equal("CLIENT_ERROR", decodeError(s.T(), rec).Error.Code)
}

func (s *OrderHandlersTestSuite) TestPlaceOrder_ValidationFailure() {
	s.service.On("PlaceOrder", mock.Anything, mock.Anything).
		Return(nil, common.Validation("lines[0].quantity", "lines[0].quantity must be positive"))

	c, rec := newContext(http.MethodPost, "/v1/orders", `{"restaurant":4,"lines":[{"menu_id":10,"quantity":0,"price":1}]}`, "u1")
	s.Require().NoError(s.handlers.PlaceOrder(c))

	assertStatus(s.T(), rec, http.StatusBadRequest)
	resp := decodeError(s.T(), rec)
	s.Equal("VALIDATION_ERROR", resp.Error.Code)
	s.Equal("lines[0].quantity must be positive", resp.Error.Details["lines[0].quantity"])
}

func (s *OrderHandlersTestSuite) TestPlaceOrder_TransientFailureIsRetryable() {
	s.service.On("PlaceOrder", mock.Anything, mock.Anything).
		Return(nil, common.Persistence("place_order", context.DeadlineExceeded))

	c, rec := newContext(http.MethodPost, "/v1/orders", `{"restaurant":4}`, "u1")
	s.Require().NoError(s.handlers.PlaceOrder(c))

	assertStatus(s.T(), rec, http.StatusInternalServerError)
	resp := decodeError(s.T(), rec)
	s.Equal("SERVER_ERROR", resp.Error.Code)
	s.True(resp.Error.Retryable)
	s.NotContains(rec.Body.String(), "deadline")
}

func (s *OrderHandlersTestSuite) TestPlaceOrder_UnclassifiedFailure() {
	s.service.On("PlaceOrder", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

	c, rec := newContext(http.MethodPost, "/v1/orders", `{"restaurant":4}`, "u1")
	s.Require().NoError(s.handlers.PlaceOrder(c))

	assertStatus(s.T(), rec, http.StatusInternalServerError)
	s.False(decodeError(s.T(), rec).Error.Retryable)
}

func (s *OrderHandlersTestSuite) TestGetOrder() {
	s.service.On("GetOrder", mock.Anything, "u1", int64(21)).Return(&models.Order{ID: 21, UserID: "u1"}, nil)

	c, rec := newContext(http.MethodGet, "/v1/orders/21", "", "u1")
	s.Require().NoError(s.handlers.GetOrder(withID(c, "21")))
	assertStatus(s.T(), rec, http.StatusOK)
}

func (s *OrderHandlersTestSuite) TestGetOrder_ForeignOrderIsNotFound() {
	s.service.On("GetOrder", mock.Anything, "u2", int64(21)).Return(nil, common.NotFound("order"))

	c, rec := newContext(http.MethodGet, "/v1/orders/21", "", "u2")
	s.Require().NoError(s.handlers.GetOrder(withID(c, "21")))

	assertStatus(s.T(), rec, http.StatusNotFound)
	s.Equal("order not found", decodeError(s.T(), rec).Error.Message)
}

func (s *OrderHandlersTestSuite) TestGetOrder_BadID() {
	c, rec := newContext(http.MethodGet, "/v1/orders/abc", "", "u1")
	s.Require().NoError(s.handlers.GetOrder(withID(c, "abc")))
	assertStatus(s.T(), rec, http.StatusBadRequest)
}

func (s *OrderHandlersTestSuite) TestListOrders_Pagination() {
	s.service.On("ListOrders", mock.Anything, "u1", 50, 0).Return(nil, nil).Once()
	s.service.On("ListOrders", mock.Anything, "u1", 10, 20).Return([]*models.Order{{ID: 3}}, nil).Once()

	c, rec := newContext(http.MethodGet, "/v1/orders", "", "u1")
	s.Require().NoError(s.handlers.ListOrders(c))
	assertStatus(s.T(), rec, http.StatusOK)
	s.JSONEq(`{"orders":[],"limit":50,"offset":0}`, rec.Body.String())

	c, rec = newContext(http.MethodGet, "/v1/orders?limit=10&offset=20", "", "u1")
	s.Require().NoError(s.handlers.ListOrders(c))
	assertStatus(s.T(), rec, http.StatusOK)

	c, rec = newContext(http.MethodGet, "/v1/orders?limit=ten", "", "u1")
	s.Require().NoError(s.handlers.ListOrders(c))
	assertStatus(s.T(), rec, http.StatusBadRequest)
}

func (s *OrderHandlersTestSuite) TestReplaceOrderContents() {
	s.service.On("ReplaceOrderContents", mock.Anything, mock.MatchedBy(func(cmd *models.ReplaceOrderContents) bool {
		return cmd.OrderID == 21 && cmd.UserID == "u1" && len(cmd.Lines) == 2
	})).Return(&models.Order{ID: 21, TotalPrice: 13.0}, nil)

	body := `{"lines":[{"menu_id":1,"quantity":2,"price":5.0},{"menu_id":2,"quantity":1,"price":3.0}]}`
	c, rec := newContext(http.MethodPut, "/v1/orders/21/lines", body, "u1")
	s.Require().NoError(s.handlers.ReplaceOrderContents(withID(c, "21")))
	assertStatus(s.T(), rec, http.StatusOK)
}

func (s *OrderHandlersTestSuite) TestUpdateStatus() {
	s.service.On("UpdateStatus", mock.Anything, &models.UpdateOrderStatus{OrderID: 21, Status: "Ready"}).
		Return(&models.Order{ID: 21, Status: models.OrderReady}, nil)

	c, rec := newContext(http.MethodPatch, "/v1/orders/21/status", `{"status":"Ready"}`, "u1")
	s.Require().NoError(s.handlers.UpdateStatus(withID(c, "21")))
	assertStatus(s.T(), rec, http.StatusOK)
}

func (s *OrderHandlersTestSuite) TestUpdatePriorityAndStaff() {
	s.service.On("UpdatePriority", mock.Anything, &models.UpdateOrderPriority{OrderID: 21, Priority: "urgent"}).
		Return(nil, common.NotFound("order"))
	s.service.On("AssignStaff", mock.Anything, &models.AssignStaff{OrderID: 21, StaffID: 8}).
		Return(&models.Order{ID: 21}, nil)

	c, rec := newContext(http.MethodPatch, "/v1/orders/21/priority", `{"priority":"urgent"}`, "u1")
	s.Require().NoError(s.handlers.UpdatePriority(withID(c, "21")))
	assertStatus(s.T(), rec, http.StatusNotFound)

	c, rec = newContext(http.MethodPatch, "/v1/orders/21/staff", `{"staff_id":8}`, "u1")
	s.Require().NoError(s.handlers.AssignStaff(withID(c, "21")))
	assertStatus(s.T(), rec, http.StatusOK)
}

func TestOrderHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(OrderHandlersTestSuite))
}

func TestParseRange(t *testing.T) {
	c, _ := newContext(http.MethodGet, "/?from=2026-03-01&to=2026-04-01T12:00:00Z", "", "")
	from, to, err := parseRange(c, testNow)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01T00:00:00Z", from.Format("2006-01-02T15:04:05Z07:00"))
	assert.Equal(t, 12, to.Hour())

	c, _ = newContext(http.MethodGet, "/", "", "")
	from, to, err = parseRange(c, testNow)
	require.NoError(t, err)
	assert.Equal(t, testNow, to)
	assert.Equal(t, testNow.Add(-defaultReportWindow), from)

	c, _ = newContext(http.MethodGet, "/?from=yesterday", "", "")
	_, _, err = parseRange(c, testNow)
	assert.ErrorIs(t, err, common.ErrValidation)
}
