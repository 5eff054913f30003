package services

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/example/zenko/internal/models"
	"github.com/example/zenko/internal/utils"
)

// SortKey selects the catalog ordering.
type SortKey string

const (
	SortNewest    SortKey = "new"
	SortPriceAsc  SortKey = "price_asc"
	SortPriceDesc SortKey = "price_desc"
	SortNameAZ    SortKey = "name_az"
	SortNameZA    SortKey = "name_za"
	SortPopular   SortKey = "popular"
	SortSale      SortKey = "sale"
)

// ParseSortKey maps a query value onto a sort key, defaulting to newest.
func ParseSortKey(value string) SortKey {
	switch SortKey(value) {
	case SortPriceAsc, SortPriceDesc, SortNameAZ, SortNameZA, SortPopular, SortSale:
		return SortKey(value)
	}
	return SortNewest
}

// Fixed page sizes per call site.
const (
	CategoryPageSize = 6
	SearchPageSize   = 12
	suggestLimit     = 8
)

// CatalogService filters, sorts and paginates the product set.
type CatalogService struct {
	db *gorm.DB
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// ProductPage is one page of an ordered product sequence.
type ProductPage struct {
	Products   []models.Product `json:"products"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalItems int64            `json:"total_items"`
	TotalPages int              `json:"total_pages"`
}

// List returns a page of the catalog, optionally restricted to a gender
// category, ordered by the requested sort key.
func (s *CatalogService) List(gender string, sort SortKey, page int) (*ProductPage, error) {
	query := s.db.Model(&models.Product{})
	if gender != "" {
		query = query.Where("gender = ?", gender)
	}
	return s.paginate(query, sort, page, CategoryPageSize)
}

// Search matches the term case-insensitively against name, type, gender and
// description, then applies the same sort menu as List.
func (s *CatalogService) Search(term string, sort SortKey, page int) (*ProductPage, error) {
	query := searchFilter(s.db.Model(&models.Product{}), term)
	return s.paginate(query, sort, page, SearchPageSize)
}

// Suggestion is the minimal projection used by incremental-search UI.
type Suggestion struct {
	ID    uuid.UUID       `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image"`
	URL   string          `json:"url"`
}

// Suggest returns at most 8 lightweight matches in insertion order.
func (s *CatalogService) Suggest(term string) ([]Suggestion, error) {
	results := []Suggestion{}
	term = strings.TrimSpace(term)
	if term == "" {
		return results, nil
	}

	var products []models.Product
	if err := searchFilter(s.db.Model(&models.Product{}), term).
		Order("created_at asc").
		Limit(suggestLimit).
		Find(&products).Error; err != nil {
		return nil, err
	}

	for _, p := range products {
		results = append(results, Suggestion{
			ID:    p.ID,
			Name:  p.Name,
			Price: p.Price,
			Image: p.Image,
			URL:   fmt.Sprintf("/product/%s/", p.ID),
		})
	}
	return results, nil
}

func searchFilter(query *gorm.DB, term string) *gorm.DB {
	like := "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
	return query.Where(
		"LOWER(name) LIKE ? OR LOWER(product_type) LIKE ? OR LOWER(gender) LIKE ? OR LOWER(details) LIKE ?",
		like, like, like, like,
	)
}

func applyOrder(query *gorm.DB, sort SortKey) *gorm.DB {
	switch sort {
	case SortPriceAsc:
		return query.Order("price asc")
	case SortPriceDesc:
		return query.Order("price desc")
	case SortNameAZ:
		return query.Order("name asc")
	case SortNameZA:
		return query.Order("name desc")
	case SortPopular:
		// Total historical quantity ordered across all order lines,
		// missing treated as zero, newest first on ties.
		return query.
			Order("(SELECT COALESCE(SUM(order_items.quantity), 0) FROM order_items WHERE order_items.product_id = products.id) DESC").
			Order("created_at desc")
	case SortSale:
		return query.
			Order("(CASE WHEN price > 0 THEN (price - sale_price) * 100.0 / price ELSE 0 END) DESC").
			Order("created_at desc")
	default:
		return query.Order("created_at desc")
	}
}

func (s *CatalogService) paginate(query *gorm.DB, sort SortKey, page, pageSize int) (*ProductPage, error) {
	if sort == SortSale {
		query = query.Where("is_sale = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	page, totalPages := utils.ClampPage(page, pageSize, total)

	var products []models.Product
	if err := applyOrder(query, sort).
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&products).Error; err != nil {
		return nil, err
	}

	return &ProductPage{
		Products:   products,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: totalPages,
	}, nil
}
