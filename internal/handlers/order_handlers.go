package handlers

import (
	"net/http"

	"github.com/buddyike18/project-dine-backend/internal/common"
	"github.com/buddyike18/project-dine-backend/internal/models"
	"github.com/buddyike18/project-dine-backend/internal/services"

	"github.com/labstack/echo/v4"
)

// OrderHandlers handles HTTP requests for orders
type OrderHandlers struct {
	orderService services.OrderService
}

func NewOrderHandlers(orderService services.OrderService) *OrderHandlers {
	return &OrderHandlers{orderService: orderService}
}

// PlaceOrder handles POST /orders
func (h *OrderHandlers) PlaceOrder(c echo.Context) error {
	ctx := c.Request().Context()
	subject, ok := common.GetSubjectFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var cmd models.PlaceOrder
	if err := c.Bind(&cmd); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	cmd.UserID = subject

	order, err := h.orderService.PlaceOrder(ctx, &cmd)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusCreated, order)
}

// GetOrder handles GET /orders/:id
func (h *OrderHandlers) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	subject, ok := common.GetSubjectFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := common.ParseID(c.Param("id"), "id")
	if err != nil {
		return common.SendError(c, err)
	}

	order, err := h.orderService.GetOrder(ctx, subject, id)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// ListOrders handles GET /orders
func (h *OrderHandlers) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	subject, ok := common.GetSubjectFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	limit, offset, err := parsePagination(c)
	if err != nil {
		return common.SendError(c, err)
	}

	orders, err := h.orderService.ListOrders(ctx, subject, limit, offset)
	if err != nil {
		return common.SendError(c, err)
	}
	if orders == nil {
		orders = []*models.Order{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"orders": orders,
		"limit":  limit,
		"offset": offset,
	})
}

// ReplaceOrderContents handles PUT /orders/:id/lines
func (h *OrderHandlers) ReplaceOrderContents(c echo.Context) error {
	ctx := c.Request().Context()
	subject, ok := common.GetSubjectFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := common.ParseID(c.Param("id"), "id")
	if err != nil {
		return common.SendError(c, err)
	}

	var cmd models.ReplaceOrderContents
	if err := c.Bind(&cmd); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	cmd.OrderID = id
	cmd.UserID = subject

	order, err := h.orderService.ReplaceOrderContents(ctx, &cmd)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// UpdateStatus handles PATCH /orders/:id/status
func (h *OrderHandlers) UpdateStatus(c echo.Context) error {
	id, err := common.ParseID(c.Param("id"), "id")
	if err != nil {
		return common.SendError(c, err)
	}
	var cmd models.UpdateOrderStatus
	if err := c.Bind(&cmd); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	cmd.OrderID = id

	order, err := h.orderService.UpdateStatus(c.Request().Context(), &cmd)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// UpdatePriority handles PATCH /orders/:id/priority
func (h *OrderHandlers) UpdatePriority(c echo.Context) error {
	id, err := common.ParseID(c.Param("id"), "id")
	if err != nil {
		return common.SendError(c, err)
	}
	var cmd models.UpdateOrderPriority
	if err := c.Bind(&cmd); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	cmd.OrderID = id

	order, err := h.orderService.UpdatePriority(c.Request().Context(), &cmd)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// AssignStaff handles PATCH /orders/:id/staff
func (h *OrderHandlers) AssignStaff(c echo.Context) error {
	id, err := common.ParseID(c.Param("id"), "id")
	if err != nil {
		return common.SendError(c, err)
	}
	var cmd models.AssignStaff
	if err := c.Bind(&cmd); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	cmd.OrderID = id

	order, err := h.orderService.AssignStaff(c.Request().Context(), &cmd)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}
