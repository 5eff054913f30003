package services

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/example/zenko/internal/apperr"
	"github.com/example/zenko/internal/models"
)

// CartService manages each user's cart aggregate. Every mutation verifies
// the touched line belongs to the requesting identity.
type CartService struct {
	db *gorm.DB
}

// NewCartService constructs a CartService.
func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db}
}

// GetOrCreate returns the user's cart, creating it lazily on first access.
func (s *CartService) GetOrCreate(userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := s.db.Where("user_id = ?", userID).
		FirstOrCreate(&cart, models.Cart{UserID: userID}).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// Add gets-or-creates the (product, volume) line. A fresh line takes the
// requested quantity; an existing one is incremented by it.
func (s *CartService) Add(userID, productID uuid.UUID, volume string, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		quantity = 1
	}
	if volume == "" {
		volume = models.VolumeDefault
	}
	if !models.IsValidVolume(volume) {
		return nil, apperr.New(apperr.CodeValidation, "invalid volume option").
			WithFields(map[string]string{"volume": "must be one of the offered volume options"})
	}

	var product models.Product
	if err := s.db.First(&product, "id = ?", productID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.New(apperr.CodeNotFound, "product not found")
		}
		return nil, err
	}

	cart, err := s.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}

	var item models.CartItem
	err = s.db.Where("cart_id = ? AND product_id = ? AND volume = ?", cart.ID, productID, volume).
		First(&item).Error
	switch err {
	case nil:
		item.Quantity += quantity
		if err := s.db.Save(&item).Error; err != nil {
			return nil, err
		}
	case gorm.ErrRecordNotFound:
		item = models.CartItem{
			CartID:    cart.ID,
			ProductID: productID,
			Volume:    volume,
			Quantity:  quantity,
		}
		if err := s.db.Create(&item).Error; err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	item.Product = &product
	return &item, nil
}

// Increment bumps a line's quantity by one.
func (s *CartService) Increment(userID, itemID uuid.UUID) (*models.CartItem, error) {
	item, err := s.findOwnedItem(userID, itemID)
	if err != nil {
		return nil, err
	}

	item.Quantity++
	if err := s.db.Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// RemoveOne decrements a line's quantity, deleting the line outright when
// it would drop to zero. Returns the remaining quantity.
func (s *CartService) RemoveOne(userID, itemID uuid.UUID) (int, error) {
	item, err := s.findOwnedItem(userID, itemID)
	if err != nil {
		return 0, err
	}

	if item.Quantity > 1 {
		item.Quantity--
		if err := s.db.Save(item).Error; err != nil {
			return 0, err
		}
		return item.Quantity, nil
	}

	if err := s.db.Delete(item).Error; err != nil {
		return 0, err
	}
	return 0, nil
}

// Items returns the cart's lines with products preloaded.
func (s *CartService) Items(userID uuid.UUID) ([]models.CartItem, error) {
	cart, err := s.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}

	var items []models.CartItem
	if err := s.db.Preload("Product").
		Where("cart_id = ?", cart.ID).
		Order("created_at asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Total sums current catalog prices across lines. Pre-checkout totals are
// always computed live; snapshotting happens only at order creation.
func (s *CartService) Total(userID uuid.UUID) (decimal.Decimal, error) {
	items, err := s.Items(userID)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, item := range items {
		if item.Product == nil {
			continue
		}
		total = total.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total, nil
}

// findOwnedItem loads a cart line and enforces ownership: a missing line is
// NotFound, someone else's line is Forbidden, never silently conflated.
func (s *CartService) findOwnedItem(userID, itemID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	if err := s.db.First(&item, "id = ?", itemID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.New(apperr.CodeNotFound, "cart item not found")
		}
		return nil, err
	}

	var cart models.Cart
	if err := s.db.First(&cart, "id = ?", item.CartID).Error; err != nil {
		return nil, err
	}
	if cart.UserID != userID {
		return nil, apperr.New(apperr.CodeForbidden, "cart item belongs to another user")
	}

	return &item, nil
}
