package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/zenko/internal/config"
	"github.com/example/zenko/internal/middleware"
	"github.com/example/zenko/internal/models"
	"github.com/example/zenko/internal/services"
	"github.com/example/zenko/internal/utils"
)

// CheckoutHandler drives the cart-to-order transition and the buy-now path.
type CheckoutHandler struct {
	cfg      *config.Config
	checkout *services.CheckoutService
	cart     *services.CartService
}

// NewCheckoutHandler constructs a CheckoutHandler.
func NewCheckoutHandler(cfg *config.Config, checkout *services.CheckoutService, cart *services.CartService) *CheckoutHandler {
	return &CheckoutHandler{cfg: cfg, checkout: checkout, cart: cart}
}

// Preview returns the cart contents together with both delivery tiers so the
// client can recompute the grand total as the country selection changes.
func (h *CheckoutHandler) Preview(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}

	items, err := h.cart.Items(userID)
	if err != nil {
		return err
	}
	subtotal, err := h.cart.Total(userID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"items":    items,
		"subtotal": subtotal,
		"delivery_charges": fiber.Map{
			models.CountryInsideDhaka:  h.checkout.DeliveryCharge(models.CountryInsideDhaka),
			models.CountryOutsideDhaka: h.checkout.DeliveryCharge(models.CountryOutsideDhaka),
		},
	})
}

// Checkout validates the shipping form and converts the cart into an order.
func (h *CheckoutHandler) Checkout(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}

	var form services.CheckoutForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	order, err := h.checkout.Checkout(userID, form)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "order": order})
}

type buyNowRequest struct {
	Volume   string `json:"volume"`
	Quantity int    `json:"quantity"`
}

// BuyNow puts the selected product straight into the cart. For anonymous
// callers the selection is preserved in a short-lived signed intent token
// that can be redeemed right after login.
func (h *CheckoutHandler) BuyNow(c *fiber.Ctx) error {
	productID, err := uuid.Parse(c.Params("product_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}

	var req buyNowRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if userID, ok := h.optionalUser(c); ok {
		item, err := h.cart.Add(userID, productID, req.Volume, req.Quantity)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"success":  true,
			"item":     item,
			"redirect": "/checkout/",
		})
	}

	token, err := utils.GenerateIntentToken(h.cfg.JWTSecret, utils.BuyIntent{
		ProductID: productID,
		Volume:    req.Volume,
		Quantity:  req.Quantity,
	})
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate intent token")
	}

	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success":      false,
		"login":        true,
		"intent_token": token,
	})
}

type redeemRequest struct {
	IntentToken string `json:"intent_token"`
}

// RedeemBuyNow replays a pending buy-now selection after login.
func (h *CheckoutHandler) RedeemBuyNow(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}

	var req redeemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	intent, err := utils.ParseIntentToken(h.cfg.JWTSecret, req.IntentToken)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid or expired intent token")
	}

	item, err := h.cart.Add(userID, intent.ProductID, intent.Volume, intent.Quantity)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"item":     item,
		"redirect": "/checkout/",
	})
}

// optionalUser parses a bearer token if one is present, without requiring it.
func (h *CheckoutHandler) optionalUser(c *fiber.Ctx) (uuid.UUID, bool) {
	authHeader := c.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return uuid.Nil, false
	}

	userID, err := utils.ParseToken(h.cfg.JWTSecret, parts[1])
	if err != nil {
		return uuid.Nil, false
	}
	return userID, true
}
