package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/buddyike18/project-dine-backend/internal/analytics"
	"github.com/buddyike18/project-dine-backend/internal/common"

	"github.com/labstack/echo/v4"
)

// ReportService is satisfied by *analytics.AnalyticsService.
type ReportService interface {
	SalesSummary(ctx context.Context, restaurantID int64, from, to time.Time) (*analytics.SalesSummary, error)
	PaymentsByMethod(ctx context.Context, restaurantID int64, from, to time.Time) (*analytics.PaymentsReport, error)
}

// ReportHandlers handles HTTP requests for restaurant reports
type ReportHandlers struct {
	reports ReportService
	now     func() time.Time
}

func NewReportHandlers(reports ReportService) *ReportHandlers {
	return &ReportHandlers{reports: reports, now: time.Now}
}

func (h *ReportHandlers) params(c echo.Context) (int64, time.Time, time.Time, error) {
	restaurantID, err := common.ParseID(c.QueryParam("restaurant_id"), "restaurant_id")
	if err != nil {
		return 0, time.Time{}, time.Time{}, err
	}
	from, to, err := parseRange(c, h.now().UTC())
	if err != nil {
		return 0, time.Time{}, time.Time{}, err
	}
	return restaurantID, from, to, nil
}

// SalesSummary handles GET /reports/sales
func (h *ReportHandlers) SalesSummary(c echo.Context) error {
	restaurantID, from, to, err := h.params(c)
	if err != nil {
		return common.SendError(c, err)
	}

	summary, err := h.reports.SalesSummary(c.Request().Context(), restaurantID, from, to)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}

// PaymentsByMethod handles GET /reports/payments
func (h *ReportHandlers) PaymentsByMethod(c echo.Context) error {
	restaurantID, from, to, err := h.params(c)
	if err != nil {
		return common.SendError(c, err)
	}

	report, err := h.reports.PaymentsByMethod(c.Request().Context(), restaurantID, from, to)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, report)
}
