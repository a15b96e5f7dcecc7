package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/chatrapathi4/KLH-LOST-FOUND-17-10-2025/internal/middleware"
	"github.com/chatrapathi4/KLH-LOST-FOUND-17-10-2025/internal/model"
	"github.com/chatrapathi4/KLH-LOST-FOUND-17-10-2025/internal/store"
	"github.com/chatrapathi4/KLH-LOST-FOUND-17-10-2025/pkg/logger"
	"github.com/chatrapathi4/KLH-LOST-FOUND-17-10-2025/prometheus"
)

// ItemRequest defines the structure for item creation requests. The contact
// email is not part of the request: it is always the owner's account email.
type ItemRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	Type         string `json:"type"`
	Location     string `json:"location"`
	DateOccurred string `json:"dateOccurred"`
	Phone        string `json:"phone"`
}

// Validate returns the list of violated constraints, empty when the request is
// acceptable. The parsed occurrence date is returned alongside.
func (r *ItemRequest) Validate() (time.Time, []string) {
	var problems []string

	if strings.TrimSpace(r.Title) == "" {
		problems = append(problems, "title is required")
	} else if len(r.Title) > model.MaxTitleLen {
		problems = append(problems, fmt.Sprintf("title must be at most %d characters", model.MaxTitleLen))
	}

	if strings.TrimSpace(r.Description) == "" {
		problems = append(problems, "description is required")
	} else if len(r.Description) > model.MaxDescriptionLen {
		problems = append(problems, fmt.Sprintf("description must be at most %d characters", model.MaxDescriptionLen))
	}

	if !model.ValidCategory(r.Category) {
		problems = append(problems, "category must be one of: "+strings.Join(model.Categories, ", "))
	}
	if !model.ValidType(r.Type) {
		problems = append(problems, "type must be lost or found")
	}
	if strings.TrimSpace(r.Location) == "" {
		problems = append(problems, "location is required")
	}

	var occurred time.Time
	if r.DateOccurred == "" {
		problems = append(problems, "dateOccurred is required")
	} else {
		var err error
		occurred, err = parseDate(r.DateOccurred)
		if err != nil {
			problems = append(problems, "dateOccurred must be a valid date")
		}
	}

	return occurred, problems
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// ItemHandler serves the /api/items endpoints on top of the item store.
type ItemHandler struct {
	items store.ItemStore
}

func NewItemHandler(items store.ItemStore) *ItemHandler {
	return &ItemHandler{items: items}
}

// ListItems handles retrieving items with optional filtering
func (h *ItemHandler) ListItems(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordItemOperation("list")

	filter := store.ItemFilter{
		Type:     c.QueryParam("type"),
		Category: c.QueryParam("category"),
		Status:   c.QueryParam("status"),
		Search:   c.QueryParam("search"),
	}
	// Unfiltered browsing shows open reports only.
	if filter.Status == "" {
		filter.Status = model.StatusActive
	}
	if limitParam := c.QueryParam("limit"); limitParam != "" {
		limit, err := strconv.Atoi(limitParam)
		if err == nil && limit > 0 {
			filter.Limit = limit
		} else {
			log.Warn("Invalid limit parameter", zap.String("value", limitParam))
		}
	}

	items, err := h.items.List(c.Request().Context(), filter)
	if err != nil {
		log.Error("Failed to list items", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"message": "Failed to retrieve items",
		})
	}
	if items == nil {
		items = []model.Item{}
	}

	log.Info("Items retrieved",
		zap.Int("count", len(items)),
		zap.String("type", filter.Type),
		zap.String("category", filter.Category),
		zap.String("status", filter.Status),
		zap.String("search", filter.Search))
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    items,
	})
}

// GetItem handles retrieving a single item by ID
func (h *ItemHandler) GetItem(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordItemOperation("view")

	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"success": false,
			"message": "Item not found",
		})
	}

	item, err := h.items.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("Item not found", zap.Uint("item_id", id))
			return c.JSON(http.StatusNotFound, echo.Map{
				"success": false,
				"message": "Item not found",
			})
		}
		log.Error("Failed to get item", zap.Uint("item_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"message": "Failed to retrieve item",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    item,
	})
}

// CreateItem handles posting a new lost or found report
func (h *ItemHandler) CreateItem(c echo.Context) error {
	log := logger.FromContext(c)
	user := middleware.CurrentUser(c)

	var req ItemRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"message": "Invalid request data",
		})
	}

	occurred, problems := req.Validate()
	if len(problems) > 0 {
		log.Warn("Item validation failed", zap.Strings("problems", problems))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"message": strings.Join(problems, "; "),
		})
	}

	item := &model.Item{
		Title:        strings.TrimSpace(req.Title),
		Description:  strings.TrimSpace(req.Description),
		Category:     req.Category,
		Type:         req.Type,
		Location:     strings.TrimSpace(req.Location),
		DateReported: time.Now(),
		DateOccurred: occurred,
		Images:       []string{},
		PostedByID:   user.ID,
		Status:       model.StatusActive,
		ContactInfo: model.ContactInfo{
			Email: user.Email,
			Phone: req.Phone,
		},
	}

	if err := h.items.Create(c.Request().Context(), item); err != nil {
		log.Error("Failed to create item", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"message": "Failed to create item",
		})
	}

	prometheus.RecordItemOperation("create")
	log.Info("Item created",
		zap.Uint("item_id", item.ID),
		zap.String("type", item.Type),
		zap.String("category", item.Category),
		zap.Uint("posted_by", user.ID))

	message := "Found item posted successfully"
	if item.Type == model.TypeLost {
		message = "Lost item posted successfully"
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": message,
		"data":    item,
	})
}

// MyItems handles listing the authenticated user's own reports, all statuses
func (h *ItemHandler) MyItems(c echo.Context) error {
	log := logger.FromContext(c)
	user := middleware.CurrentUser(c)

	items, err := h.items.ListByOwner(c.Request().Context(), user.ID)
	if err != nil {
		log.Error("Failed to list user's items", zap.Uint("user_id", user.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"message": "Failed to retrieve items",
		})
	}
	if items == nil {
		items = []model.Item{}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    items,
	})
}

// UpdateItemStatus handles owner-gated status transitions
func (h *ItemHandler) UpdateItemStatus(c echo.Context) error {
	log := logger.FromContext(c)
	user := middleware.CurrentUser(c)

	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"success": false,
			"message": "Item not found",
		})
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"message": "Invalid request data",
		})
	}
	if !model.ValidStatus(req.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"message": "status must be one of: active, claimed, resolved",
		})
	}

	item, err := h.items.UpdateStatus(c.Request().Context(), id, user.ID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			log.Warn("Item not found for status update", zap.Uint("item_id", id))
			return c.JSON(http.StatusNotFound, echo.Map{
				"success": false,
				"message": "Item not found",
			})
		case errors.Is(err, store.ErrForbidden):
			log.Warn("Status update by non-owner",
				zap.Uint("item_id", id),
				zap.Uint("requester", user.ID))
			return c.JSON(http.StatusForbidden, echo.Map{
				"success": false,
				"message": "Unauthorized",
			})
		default:
			log.Error("Failed to update item status", zap.Uint("item_id", id), zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"success": false,
				"message": "Failed to update item status",
			})
		}
	}

	prometheus.RecordItemOperation("status_update")
	log.Info("Item status updated",
		zap.Uint("item_id", item.ID),
		zap.String("status", item.Status))
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Item status updated",
		"data":    item,
	})
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
