package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/buddyike18/project-dine-backend/internal/common"

	"github.com/labstack/echo/v4"
)

const defaultReportWindow = 30 * 24 * time.Hour

// parsePagination reads limit and offset query parameters.
func parsePagination(c echo.Context) (int, int, error) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		return 0, 0, err
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		return 0, 0, err
	}
	return common.ValidatePaginationParams(limit, offset)
}

func queryInt(c echo.Context, name string) (int, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, common.Validation(name, name+" must be an integer")
	}
	return v, nil
}

// parseTime accepts RFC 3339 timestamps and plain dates.
func parseTime(raw, field string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Time{}, common.Validation(field, field+" must be a date (YYYY-MM-DD) or RFC 3339 timestamp")
}

// parseRange reads from/to query parameters. to defaults to now and from to
// thirty days before to.
func parseRange(c echo.Context, now time.Time) (time.Time, time.Time, error) {
	to := now
	if raw := c.QueryParam("to"); raw != "" {
		t, err := parseTime(raw, "to")
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = t
	}
	from := to.Add(-defaultReportWindow)
	if raw := c.QueryParam("from"); raw != "" {
		t, err := parseTime(raw, "from")
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = t
	}
	return from, to, nil
}
