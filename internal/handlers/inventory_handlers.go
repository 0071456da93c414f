package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/buddyike18/project-dine-backend/internal/common"
	"github.com/buddyike18/project-dine-backend/internal/models"
	"github.com/buddyike18/project-dine-backend/internal/services"

	"github.com/labstack/echo/v4"
)

// InventoryHandlers handles HTTP requests for inventory items
type InventoryHandlers struct {
	inventoryService services.InventoryService
}

func NewInventoryHandlers(inventoryService services.InventoryService) *InventoryHandlers {
	return &InventoryHandlers{inventoryService: inventoryService}
}

// CreateItem handles POST /inventory
func (h *InventoryHandlers) CreateItem(c echo.Context) error {
	var cmd models.CreateInventoryItem
	if err := c.Bind(&cmd); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	item, err := h.inventoryService.CreateItem(c.Request().Context(), &cmd)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusCreated, item)
}

// GetItem handles GET /inventory/:id
func (h *InventoryHandlers) GetItem(c echo.Context) error {
	id, err := common.ParseID(c.Param("id"), "id")
	if err != nil {
		return common.SendError(c, err)
	}

	item, err := h.inventoryService.GetItem(c.Request().Context(), id)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

// ListItems handles GET /inventory
func (h *InventoryHandlers) ListItems(c echo.Context) error {
	limit, offset, err := parsePagination(c)
	if err != nil {
		return common.SendError(c, err)
	}

	items, err := h.inventoryService.ListItems(c.Request().Context(), limit, offset)
	if err != nil {
		return common.SendError(c, err)
	}
	if items == nil {
		items = []*models.InventoryItem{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"items":  items,
		"limit":  limit,
		"offset": offset,
	})
}

// ListLowStock handles GET /inventory/low-stock
func (h *InventoryHandlers) ListLowStock(c echo.Context) error {
	limit, _, err := parsePagination(c)
	if err != nil {
		return common.SendError(c, err)
	}

	items, err := h.inventoryService.ListLowStock(c.Request().Context(), limit)
	if err != nil {
		return common.SendError(c, err)
	}
	if items == nil {
		items = []*models.InventoryItem{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"items": items,
		"count": len(items),
	})
}

// BulkUpdate handles PUT /inventory/bulk. Entries are decoded one at a time so a
// single malformed entry rejects the whole batch.
func (h *InventoryHandlers) BulkUpdate(c echo.Context) error {
	var req struct {
		Items []json.RawMessage `json:"items"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	quantities, err := models.ParseInventoryQuantities(req.Items)
	if err != nil {
		return common.SendError(c, err)
	}

	items, err := h.inventoryService.BulkUpdate(c.Request().Context(), &models.BulkInventoryUpdate{Items: quantities})
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"items":   items,
		"updated": len(items),
	})
}
