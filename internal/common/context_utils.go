package common

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

type contextKey string

const SubjectKey contextKey = "subject"

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error struct {
		Code      string            `json:"code"`
		Message   string            `json:"message"`
		Details   map[string]string `json:"details,omitempty"`
		Retryable bool              `json:"retryable,omitempty"`
	} `json:"error"`
}

// CreateErrorResponse creates a standardized error response
func CreateErrorResponse(code string, message string, details map[string]string) *ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Details = details
	return &resp
}

// SendValidationError sends a validation error response
func SendValidationError(c echo.Context, field, message string) error {
	var details map[string]string
	if field != "" {
		details = map[string]string{field: message}
	}
	return c.JSON(http.StatusBadRequest, CreateErrorResponse("VALIDATION_ERROR", "Validation failed", details))
}

// SendClientError sends a client error response
func SendClientError(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, CreateErrorResponse("CLIENT_ERROR", message, nil))
}

// SendServerError sends a server error response
func SendServerError(c echo.Context, message string, retryable bool) error {
	resp := CreateErrorResponse("SERVER_ERROR", message, nil)
	resp.Error.Retryable = retryable
	return c.JSON(http.StatusInternalServerError, resp)
}

// SendNotFoundError sends a not found error response
func SendNotFoundError(c echo.Context, message string) error {
	return c.JSON(http.StatusNotFound, CreateErrorResponse("NOT_FOUND", message, nil))
}

// SendUnauthorizedError sends an unauthorized error response
func SendUnauthorizedError(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, CreateErrorResponse("UNAUTHORIZED", "Unauthorized access", nil))
}

// SendError maps a service error onto the HTTP response for its kind.
func SendError(c echo.Context, err error) error {
	var de *Error
	if !errors.As(err, &de) {
		c.Logger().Errorf("unclassified error: %v", err)
		return SendServerError(c, "Internal server error", false)
	}
	switch de.Kind {
	case KindValidation:
		return SendValidationError(c, de.Field, de.Message)
	case KindNotFound:
		return SendNotFoundError(c, de.Message)
	default:
		c.Logger().Errorf("%s failed: %v", de.Op, de.Cause)
		return SendServerError(c, "Failed to "+opLabel(de.Op)+": "+de.Message, de.Retryable)
	}
}

func opLabel(op string) string {
	if op == "" {
		return "process request"
	}
	return strings.ReplaceAll(op, "_", " ")
}

// GetSubjectFromContext extracts the authenticated subject from the request context
func GetSubjectFromContext(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(SubjectKey).(string)
	return subject, ok && subject != ""
}

// WithSubject stores the authenticated subject in ctx.
func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, SubjectKey, subject)
}

// ParseID parses a positive integer path or query parameter.
func ParseID(raw, fieldName string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, Validation(fieldName, fmt.Sprintf("%s is required", fieldName))
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, Validation(fieldName, fmt.Sprintf("%s must be a positive integer", fieldName))
	}
	return id, nil
}

// ValidatePositiveID validates foreign key style identifiers
func ValidatePositiveID(id int64, fieldName string) error {
	if id <= 0 {
		return Validation(fieldName, fmt.Sprintf("%s must be a positive integer", fieldName))
	}
	return nil
}

// ValidatePositiveInteger validates positive integer values with upper bounds
func ValidatePositiveInteger(value int, fieldName string, maxValue int) error {
	if value <= 0 {
		return Validation(fieldName, fmt.Sprintf("%s must be positive", fieldName))
	}
	if value > maxValue {
		return Validation(fieldName, fmt.Sprintf("%s cannot exceed %d", fieldName, maxValue))
	}
	return nil
}

// ValidateNonNegativeFloat validates amounts that may be zero
func ValidateNonNegativeFloat(value float64, fieldName string, maxValue float64) error {
	if value < 0 {
		return Validation(fieldName, fmt.Sprintf("%s cannot be negative", fieldName))
	}
	if value > maxValue {
		return Validation(fieldName, fmt.Sprintf("%s cannot exceed %.2f", fieldName, maxValue))
	}
	return nil
}

// ValidateOptionalString validates optional string fields
func ValidateOptionalString(value *string, fieldName string, maxLength int) error {
	if value != nil {
		*value = strings.TrimSpace(*value)
		if len(*value) > maxLength {
			return Validation(fieldName, fmt.Sprintf("%s cannot exceed %d characters", fieldName, maxLength))
		}
	}
	return nil
}

// ValidatePaginationParams validates pagination parameters
func ValidatePaginationParams(limit, offset int) (int, int, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 1000 {
		limit = 1000
	}
	if offset < 0 {
		offset = 0
	}
	if offset > 1000000 {
		return 0, 0, Validation("offset", "offset cannot exceed 1,000,000")
	}
	return limit, offset, nil
}

// SafeFloat64 safely handles float64 pointer operations
func SafeFloat64(f *float64) float64 {
	if f == nil {
		return 0.0
	}
	return *f
}
