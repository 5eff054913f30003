package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/example/zenko/internal/models"
	"github.com/example/zenko/internal/services"
)

// CatalogHandler serves the browsable product catalog.
type CatalogHandler struct {
	db      *gorm.DB
	catalog *services.CatalogService
}

// NewCatalogHandler constructs a CatalogHandler.
func NewCatalogHandler(db *gorm.DB, catalog *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{db: db, catalog: catalog}
}

// Shop lists the whole catalog with the selected sort and page.
func (h *CatalogHandler) Shop(c *fiber.Ctx) error {
	page, err := h.catalog.List("", services.ParseSortKey(c.Query("sort")), queryInt(c, "page", 1))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": page})
}

// Category lists one gender category.
func (h *CatalogHandler) Category(c *fiber.Ctx) error {
	page, err := h.catalog.List(c.Params("gender"), services.ParseSortKey(c.Query("sort")), queryInt(c, "page", 1))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": page})
}

// GetProduct returns one product by ID.
func (h *CatalogHandler) GetProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := h.db.First(&product, "id = ?", c.Params("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": product})
}

// Search runs a full catalog search over the query term.
func (h *CatalogHandler) Search(c *fiber.Ctx) error {
	page, err := h.catalog.Search(c.Query("q"), services.ParseSortKey(c.Query("sort")), queryInt(c, "page", 1))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"query":   c.Query("q"),
		"data":    page,
	})
}

// Suggest returns lightweight matches for incremental search.
func (h *CatalogHandler) Suggest(c *fiber.Ctx) error {
	suggestions, err := h.catalog.Suggest(c.Query("q"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": suggestions})
}

// Featured lists the pinned home-page products.
func (h *CatalogHandler) Featured(c *fiber.Ctx) error {
	var featured []models.FeaturedProduct
	if err := h.db.Preload("Product").
		Order("created_at asc").
		Find(&featured).Error; err != nil {
		return err
	}

	products := make([]models.Product, 0, len(featured))
	for _, f := range featured {
		if f.Product != nil {
			products = append(products, *f.Product)
		}
	}
	return c.JSON(fiber.Map{"success": true, "data": products})
}

type productRequest struct {
	Name        string          `json:"name"`
	ProductType string          `json:"product_type"`
	Gender      string          `json:"gender"`
	Details     string          `json:"details"`
	Price       decimal.Decimal `json:"price"`
	IsSale      bool            `json:"is_sale"`
	SalePrice   decimal.Decimal `json:"sale_price"`
	IsPopular   bool            `json:"is_popular"`
	IsNew       bool            `json:"is_new"`
	Image       string          `json:"image"`
	Video       string          `json:"video"`
}

// CreateProduct adds a catalog entry. Admin only.
func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}

	product := models.Product{
		Name:        req.Name,
		ProductType: req.ProductType,
		Gender:      req.Gender,
		Details:     req.Details,
		Price:       req.Price,
		IsSale:      req.IsSale,
		SalePrice:   req.SalePrice,
		IsPopular:   req.IsPopular,
		IsNew:       req.IsNew,
		Image:       req.Image,
		Video:       req.Video,
	}
	if err := h.db.Create(&product).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": product})
}

// UpdateProduct rewrites a catalog entry. Admin only. Existing order lines
// keep their snapshotted prices regardless.
func (h *CatalogHandler) UpdateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := h.db.First(&product, "id = ?", c.Params("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}

	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	product.Name = req.Name
	product.ProductType = req.ProductType
	product.Gender = req.Gender
	product.Details = req.Details
	product.Price = req.Price
	product.IsSale = req.IsSale
	product.SalePrice = req.SalePrice
	product.IsPopular = req.IsPopular
	product.IsNew = req.IsNew
	product.Image = req.Image
	product.Video = req.Video

	if err := h.db.Save(&product).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": product})
}

// DeleteProduct removes a catalog entry. Admin only.
func (h *CatalogHandler) DeleteProduct(c *fiber.Ctx) error {
	res := h.db.Delete(&models.Product{}, "id = ?", c.Params("id"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "product not found")
	}
	return c.JSON(fiber.Map{"success": true})
}

type featureRequest struct {
	ProductID string `json:"product_id"`
}

// FeatureProduct pins a product to the home page rail. Admin only.
func (h *CatalogHandler) FeatureProduct(c *fiber.Ctx) error {
	var req featureRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var product models.Product
	if err := h.db.First(&product, "id = ?", req.ProductID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}

	featured := models.FeaturedProduct{ProductID: product.ID}
	if err := h.db.Create(&featured).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": featured})
}

// UnfeatureProduct removes a product from the home page rail. Admin only.
func (h *CatalogHandler) UnfeatureProduct(c *fiber.Ctx) error {
	res := h.db.Delete(&models.FeaturedProduct{}, "product_id = ?", c.Params("id"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "product is not featured")
	}
	return c.JSON(fiber.Map{"success": true})
}
