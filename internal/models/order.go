package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order statuses.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Country tiers driving the flat-rate delivery charge.
const (
	CountryInsideDhaka  = "inside_dhaka"
	CountryOutsideDhaka = "outside_dhaka"
)

// Order is immutable once created. TotalPrice equals the cart subtotal at
// checkout time plus DeliveryCharge and is never recomputed.
type Order struct {
	BaseModel
	UserID         uuid.UUID       `gorm:"type:uuid;index" json:"user_id"`
	User           *User           `json:"user,omitempty"`
	Country        string          `gorm:"size:50" json:"country"`
	FirstName      string          `json:"first_name"`
	LastName       string          `json:"last_name"`
	Address        string          `json:"address"`
	Email          string          `json:"email"`
	Phone          string          `gorm:"size:20" json:"phone"`
	OrderNotes     string          `json:"order_notes"`
	Status         string          `gorm:"size:20;default:'pending'" json:"status"`
	DeliveryCharge decimal.Decimal `gorm:"type:numeric(10,2)" json:"delivery_charge"`
	TotalPrice     decimal.Decimal `gorm:"type:numeric(10,2)" json:"total_price"`
	Items          []OrderItem     `gorm:"constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// OrderItem snapshots a cart line at checkout time. UnitPrice is the catalog
// price at the moment of order creation and never changes afterwards.
type OrderItem struct {
	BaseModel
	OrderID     uuid.UUID       `gorm:"type:uuid;index" json:"order_id"`
	ProductID   *uuid.UUID      `gorm:"type:uuid;index" json:"product_id"`
	// Catalog deletions detach the line; the snapshot fields keep the history readable.
	Product     *Product        `gorm:"constraint:OnDelete:SET NULL" json:"product,omitempty"`
	ProductName string          `json:"product_name"`
	Volume      string          `gorm:"size:20;default:'50 ml'" json:"volume"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(10,2)" json:"unit_price"`
}

// LineTotal is quantity times the snapshotted unit price.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
