package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Read-mostly from the storefront's perspective.
type Product struct {
	BaseModel
	Name        string          `json:"name"`
	ProductType string          `json:"product_type"`
	Gender      string          `json:"gender"`
	Details     string          `json:"details"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2)" json:"price"`
	IsSale      bool            `json:"is_sale"`
	SalePrice   decimal.Decimal `gorm:"type:numeric(10,2)" json:"sale_price"`
	IsPopular   bool            `json:"is_popular"`
	IsNew       bool            `json:"is_new"`
	Image       string          `json:"image"`
	Video       string          `json:"video"`
}

// FeaturedProduct pins a product to the home page rail.
type FeaturedProduct struct {
	BaseModel
	ProductID uuid.UUID `gorm:"type:uuid;index" json:"product_id"`
	Product   *Product  `json:"product,omitempty"`
}
