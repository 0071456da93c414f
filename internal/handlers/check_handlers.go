package handlers

import (
	"net/http"

	"github.com/buddyike18/project-dine-backend/internal/common"
	"github.com/buddyike18/project-dine-backend/internal/models"
	"github.com/buddyike18/project-dine-backend/internal/services"

	"github.com/labstack/echo/v4"
)

// CheckHandlers handles HTTP requests for checks and their receipts
type CheckHandlers struct {
	checkService   services.CheckService
	receiptService services.ReceiptService
}

func NewCheckHandlers(checkService services.CheckService, receiptService services.ReceiptService) *CheckHandlers {
	return &CheckHandlers{checkService: checkService, receiptService: receiptService}
}

// CheckPaymentResponse is the body returned after a check payment.
type CheckPaymentResponse struct {
	Check   *models.Check   `json:"check"`
	Payment *models.Payment `json:"payment"`
}

// OpenCheck handles POST /checks
func (h *CheckHandlers) OpenCheck(c echo.Context) error {
	var cmd models.OpenCheck
	if err := c.Bind(&cmd); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	check, err := h.checkService.OpenCheck(c.Request().Context(), &cmd)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusCreated, check)
}

// GetCheck handles GET /checks/:id
func (h *CheckHandlers) GetCheck(c echo.Context) error {
	id, err := common.ParseID(c.Param("id"), "id")
	if err != nil {
		return common.SendError(c, err)
	}

	check, err := h.checkService.GetCheck(c.Request().Context(), id)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, check)
}

// ListChecks handles GET /checks?restaurant_id=&status=
func (h *CheckHandlers) ListChecks(c echo.Context) error {
	restaurantID, err := common.ParseID(c.QueryParam("restaurant_id"), "restaurant_id")
	if err != nil {
		return common.SendError(c, err)
	}
	var status *models.CheckStatus
	if raw := c.QueryParam("status"); raw != "" {
		s, ok := models.ParseCheckStatus(raw)
		if !ok {
			return common.SendValidationError(c, "status", "status must be one of: Open, Closed, Paid")
		}
		status = &s
	}
	limit, offset, err := parsePagination(c)
	if err != nil {
		return common.SendError(c, err)
	}

	checks, err := h.checkService.ListChecks(c.Request().Context(), restaurantID, status, limit, offset)
	if err != nil {
		return common.SendError(c, err)
	}
	if checks == nil {
		checks = []*models.Check{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"checks": checks,
		"limit":  limit,
		"offset": offset,
	})
}

// SplitCheck handles POST /checks/:id/split
func (h *CheckHandlers) SplitCheck(c echo.Context) error {
	id, err := common.ParseID(c.Param("id"), "id")
	if err != nil {
		return common.SendError(c, err)
	}
	var cmd models.SplitCheck
	if err := c.Bind(&cmd); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	cmd.SourceCheckID = id

	result, err := h.checkService.SplitCheck(c.Request().Context(), &cmd)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusCreated, result)
}

// RecordPayment handles POST /checks/:id/payments
func (h *CheckHandlers) RecordPayment(c echo.Context) error {
	id, err := common.ParseID(c.Param("id"), "id")
	if err != nil {
		return common.SendError(c, err)
	}
	var cmd models.RecordCheckPayment
	if err := c.Bind(&cmd); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	cmd.CheckID = id

	check, payment, err := h.checkService.RecordPayment(c.Request().Context(), &cmd)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusCreated, CheckPaymentResponse{Check: check, Payment: payment})
}

// SettleCheck handles POST /checks/:id/settle
func (h *CheckHandlers) SettleCheck(c echo.Context) error {
	id, err := common.ParseID(c.Param("id"), "id")
	if err != nil {
		return common.SendError(c, err)
	}
	var cmd models.SettleCheck
	if err := c.Bind(&cmd); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	cmd.CheckID = id

	check, err := h.checkService.SettleCheck(c.Request().Context(), &cmd)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, check)
}

// GenerateReceipt handles POST /checks/:id/receipt
func (h *CheckHandlers) GenerateReceipt(c echo.Context) error {
	if h.receiptService == nil {
		return c.JSON(http.StatusServiceUnavailable, common.CreateErrorResponse("UNAVAILABLE", "Receipt storage is not configured", nil))
	}
	id, err := common.ParseID(c.Param("id"), "id")
	if err != nil {
		return common.SendError(c, err)
	}

	receipt, err := h.receiptService.Generate(c.Request().Context(), id)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusCreated, receipt)
}
