package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/zenko/internal/middleware"
	"github.com/example/zenko/internal/services"
)

// CartHandler serves the authenticated user's cart.
type CartHandler struct {
	cart *services.CartService
}

// NewCartHandler constructs a CartHandler.
func NewCartHandler(cart *services.CartService) *CartHandler {
	return &CartHandler{cart: cart}
}

// GetCart returns the cart's lines and live total.
func (h *CartHandler) GetCart(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}

	items, err := h.cart.Items(userID)
	if err != nil {
		return err
	}
	total, err := h.cart.Total(userID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"items":   items,
		"total":   total,
	})
}

type addItemRequest struct {
	ProductID string `json:"product_id"`
	Volume    string `json:"volume"`
	Quantity  int    `json:"quantity"`
}

// AddItem adds or merges a (product, volume) line.
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}

	var req addItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}

	item, err := h.cart.Add(userID, productID, req.Volume, req.Quantity)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "item": item})
}

// Increment bumps a line's quantity by one.
func (h *CartHandler) Increment(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}

	itemID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid item id")
	}

	item, err := h.cart.Increment(userID, itemID)
	if err != nil {
		return err
	}

	total, err := h.cart.Total(userID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"new_quantity": item.Quantity,
		"cart_total":   total,
	})
}

// RemoveOne decrements a line, deleting it when the quantity reaches zero.
func (h *CartHandler) RemoveOne(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}

	itemID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid item id")
	}

	remaining, err := h.cart.RemoveOne(userID, itemID)
	if err != nil {
		return err
	}

	total, err := h.cart.Total(userID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"new_quantity": remaining,
		"removed":      remaining == 0,
		"cart_total":   total,
	})
}

func queryInt(c *fiber.Ctx, key string, fallback int) int {
	if parsed, err := strconv.Atoi(c.Query(key)); err == nil {
		return parsed
	}
	return fallback
}
