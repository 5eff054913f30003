package services

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/example/zenko/internal/apperr"
	"github.com/example/zenko/internal/config"
	"github.com/example/zenko/internal/models"
)

// CheckoutForm carries the shipping fields submitted at checkout.
type CheckoutForm struct {
	Country    string `json:"country" validate:"required,oneof=inside_dhaka outside_dhaka"`
	FirstName  string `json:"first_name" validate:"required,max=100"`
	LastName   string `json:"last_name" validate:"required,max=100"`
	Address    string `json:"address" validate:"required,max=255"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"required,max=20"`
	OrderNotes string `json:"order_notes" validate:"max=2000"`
}

// CheckoutService converts a cart into an immutable order.
type CheckoutService struct {
	db       *gorm.DB
	cfg      *config.Config
	validate *validator.Validate
}

// NewCheckoutService constructs a CheckoutService.
func NewCheckoutService(db *gorm.DB, cfg *config.Config) *CheckoutService {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return field.Name
		}
		return name
	})
	return &CheckoutService{db: db, cfg: cfg, validate: v}
}

// DeliveryCharge applies the two-tier flat-rate policy.
func (s *CheckoutService) DeliveryCharge(country string) decimal.Decimal {
	if country == models.CountryInsideDhaka {
		return s.cfg.DeliveryChargeInside
	}
	return s.cfg.DeliveryChargeOutside
}

// Checkout validates the form and runs the cart-to-order transition in a
// single transaction: the order and its snapshot lines are created and the
// cart lines deleted, all-or-nothing. The cart row is claimed with a write
// and its lines re-read inside the transaction, so a second concurrent
// attempt waits, observes an empty cart and is rejected instead of
// double-billing.
func (s *CheckoutService) Checkout(userID uuid.UUID, form CheckoutForm) (*models.Order, error) {
	if err := s.validateForm(form); err != nil {
		return nil, err
	}

	charge := s.DeliveryCharge(form.Country)

	var order models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := tx.Where("user_id = ?", userID).
			FirstOrCreate(&cart, models.Cart{UserID: userID}).Error; err != nil {
			return apperr.Wrap(apperr.CodeTransaction, err, "failed to load cart")
		}

		// Claim the cart row with a write before reading its lines. A second
		// concurrent checkout blocks on this row until the first commits,
		// then observes the emptied cart.
		if err := tx.Model(&models.Cart{}).
			Where("id = ?", cart.ID).
			Update("updated_at", time.Now()).Error; err != nil {
			return apperr.Wrap(apperr.CodeTransaction, err, "failed to claim cart")
		}

		var items []models.CartItem
		if err := tx.Preload("Product").
			Where("cart_id = ?", cart.ID).
			Order("created_at asc").
			Find(&items).Error; err != nil {
			return apperr.Wrap(apperr.CodeTransaction, err, "failed to read cart lines")
		}

		if len(items) == 0 {
			return apperr.New(apperr.CodeEmptyCart, "cart is empty")
		}

		order = models.Order{
			UserID:         userID,
			Country:        form.Country,
			FirstName:      form.FirstName,
			LastName:       form.LastName,
			Address:        form.Address,
			Email:          form.Email,
			Phone:          form.Phone,
			OrderNotes:     form.OrderNotes,
			Status:         models.OrderStatusPending,
			DeliveryCharge: charge,
		}

		subtotal := decimal.Zero
		for _, item := range items {
			if item.Product == nil {
				return apperr.New(apperr.CodeTransaction, "cart line references a missing product")
			}
			subtotal = subtotal.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))

			productID := item.ProductID
			// The one and only point where the price is frozen.
			order.Items = append(order.Items, models.OrderItem{
				ProductID:   &productID,
				ProductName: item.Product.Name,
				Volume:      item.Volume,
				Quantity:    item.Quantity,
				UnitPrice:   item.Product.Price,
			})
		}
		order.TotalPrice = subtotal.Add(charge)

		if err := tx.Create(&order).Error; err != nil {
			return apperr.Wrap(apperr.CodeTransaction, err, "failed to create order")
		}

		if err := tx.Where("cart_id = ?", cart.ID).
			Delete(&models.CartItem{}).Error; err != nil {
			return apperr.Wrap(apperr.CodeTransaction, err, "failed to clear cart")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &order, nil
}

// validateForm collects field-level errors so the caller can re-prompt
// per field instead of receiving one opaque message.
func (s *CheckoutService) validateForm(form CheckoutForm) error {
	err := s.validate.Struct(form)
	if err == nil {
		return nil
	}

	fields := map[string]string{}
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			fields[fe.Field()] = validationMessage(fe)
		}
	}
	return apperr.New(apperr.CodeValidation, "checkout form is invalid").WithFields(fields)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "max":
		return "must be at most " + fe.Param() + " characters"
	}
	return "invalid value"
}
