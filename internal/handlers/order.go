package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/zenko/internal/middleware"
	"github.com/example/zenko/internal/models"
	"github.com/example/zenko/internal/services"
	"github.com/example/zenko/internal/utils"
)

// OrderHandler serves order history for customers and order management
// for admins.
type OrderHandler struct {
	db *gorm.DB
}

// NewOrderHandler constructs an OrderHandler.
func NewOrderHandler(db *gorm.DB) *OrderHandler {
	return &OrderHandler{db: db}
}

// ListOrders returns the authenticated user's orders newest-first.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}

	pagination := utils.ParsePagination(c)

	var total int64
	if err := h.db.Model(&models.Order{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return err
	}

	var orders []models.Order
	if err := h.db.Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(pagination.Limit).Offset(pagination.Offset).
		Find(&orders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    orders,
		"meta": fiber.Map{
			"page":  pagination.Page,
			"limit": pagination.Limit,
			"total": total,
		},
	})
}

// GetOrder returns one of the authenticated user's orders with its lines.
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}

	var order models.Order
	err := h.db.Preload("Items.Product").
		Where("id = ? AND user_id = ?", c.Params("id"), userID).
		First(&order).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}

// ExportPDF streams the user's full order history as a PDF document.
func (h *OrderHandler) ExportPDF(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		return err
	}

	var orders []models.Order
	if err := h.db.Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&orders).Error; err != nil {
		return err
	}

	document, err := services.RenderOrderHistoryPDF(&user, orders)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to render document")
	}

	filename := fmt.Sprintf("order-history-%s.pdf", time.Now().UTC().Format("2006-01-02"))
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(document)
}

// AdminListOrders returns all orders across users. Admin only.
func (h *OrderHandler) AdminListOrders(c *fiber.Ctx) error {
	pagination := utils.ParsePagination(c)

	query := h.db.Model(&models.Order{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var orders []models.Order
	if err := query.Preload("Items").
		Order("created_at desc").
		Limit(pagination.Limit).Offset(pagination.Offset).
		Find(&orders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    orders,
		"meta": fiber.Map{
			"page":  pagination.Page,
			"limit": pagination.Limit,
			"total": total,
		},
	})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

var validOrderStatuses = map[string]bool{
	models.OrderStatusPending:    true,
	models.OrderStatusProcessing: true,
	models.OrderStatusShipped:    true,
	models.OrderStatusDelivered:  true,
	models.OrderStatusCancelled:  true,
}

// UpdateOrderStatus moves an order through its fulfillment lifecycle. The
// status is the only mutable field; amounts and lines stay frozen. Admin only.
func (h *OrderHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	var req updateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if !validOrderStatuses[req.Status] {
		return fiber.NewError(fiber.StatusBadRequest, "invalid order status")
	}

	res := h.db.Model(&models.Order{}).
		Where("id = ?", c.Params("id")).
		Update("status", req.Status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "order not found")
	}

	return c.JSON(fiber.Map{"success": true, "status": req.Status})
}
