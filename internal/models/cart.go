package models

import (
	"github.com/google/uuid"
)

// Volume options a cart or order line may carry.
const (
	VolumeDefault = "50 ml"
	Volume30ML    = "30 ml"
	VolumeCombo   = "10 ml combo"
)

// IsValidVolume reports whether v is one of the enumerated volume options.
func IsValidVolume(v string) bool {
	switch v {
	case VolumeDefault, Volume30ML, VolumeCombo:
		return true
	}
	return false
}

// Cart is the per-user mutable line collection, exactly one per user,
// created lazily on first access.
type Cart struct {
	BaseModel
	UserID uuid.UUID  `gorm:"type:uuid;uniqueIndex" json:"user_id"`
	Items  []CartItem `gorm:"constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// CartItem is one (product, volume) line. The (cart, product, volume)
// combination is unique; duplicate adds merge quantities instead.
type CartItem struct {
	BaseModel
	CartID    uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_cart_product_volume" json:"cart_id"`
	ProductID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_cart_product_volume" json:"product_id"`
	Product   *Product  `gorm:"constraint:OnDelete:CASCADE" json:"product,omitempty"`
	Volume    string    `gorm:"size:20;default:'50 ml';uniqueIndex:idx_cart_product_volume" json:"volume"`
	Quantity  int       `json:"quantity"`
}
