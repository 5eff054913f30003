package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/example/zenko/internal/models"
)

func seedProduct(t *testing.T, db *gorm.DB, name, gender, price string, mutate func(*models.Product)) *models.Product {
	t.Helper()

	product := &models.Product{
		Name:        name,
		ProductType: "perfume",
		Gender:      gender,
		Price:       decimal.RequireFromString(price),
	}
	if mutate != nil {
		mutate(product)
	}
	require.NoError(t, db.Create(product).Error)
	// Distinct creation timestamps keep insertion order observable.
	time.Sleep(2 * time.Millisecond)
	return product
}

func names(page *ProductPage) []string {
	out := make([]string, 0, len(page.Products))
	for _, p := range page.Products {
		out = append(out, p.Name)
	}
	return out
}

func TestCatalogListDefaultSortIsNewestFirst(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db)

	seedProduct(t, db, "Alpha", "men", "100.00", nil)
	seedProduct(t, db, "Beta", "men", "200.00", nil)
	seedProduct(t, db, "Gamma", "men", "300.00", nil)

	page, err := svc.List("", ParseSortKey(""), 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Gamma", "Beta", "Alpha"}, names(page))
}

func TestCatalogListPriceAndNameSorts(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db)

	seedProduct(t, db, "Banana", "men", "300.00", nil)
	seedProduct(t, db, "Apple", "men", "100.00", nil)
	seedProduct(t, db, "Cherry", "men", "200.00", nil)

	page, err := svc.List("", SortPriceAsc, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Apple", "Cherry", "Banana"}, names(page))

	page, err = svc.List("", SortPriceDesc, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Banana", "Cherry", "Apple"}, names(page))

	page, err = svc.List("", SortNameAZ, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Apple", "Banana", "Cherry"}, names(page))

	page, err = svc.List("", SortNameZA, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Cherry", "Banana", "Apple"}, names(page))
}

func TestCatalogListFiltersByGender(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db)

	seedProduct(t, db, "His", "men", "100.00", nil)
	seedProduct(t, db, "Hers", "women", "100.00", nil)

	page, err := svc.List("women", SortNewest, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Hers"}, names(page))
	assert.Equal(t, int64(1), page.TotalItems)
}

func TestCatalogSaleSortExcludesNonSaleAndOrdersByDiscount(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db)

	seedProduct(t, db, "FullPrice", "men", "100.00", nil)
	// 20% off.
	seedProduct(t, db, "SmallDiscount", "men", "100.00", func(p *models.Product) {
		p.IsSale = true
		p.SalePrice = decimal.RequireFromString("80.00")
	})
	// 50% off.
	seedProduct(t, db, "BigDiscount", "men", "200.00", func(p *models.Product) {
		p.IsSale = true
		p.SalePrice = decimal.RequireFromString("100.00")
	})

	page, err := svc.List("", SortSale, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"BigDiscount", "SmallDiscount"}, names(page))
	assert.Equal(t, int64(2), page.TotalItems)
}

func TestCatalogPopularSortUsesOrderedQuantities(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db)

	seedProduct(t, db, "Quiet", "men", "100.00", nil)
	bestseller := seedProduct(t, db, "Bestseller", "men", "100.00", nil)

	user := createTestUser(t, db, "+8801755555555")
	order := models.Order{
		UserID:     user.ID,
		Country:    models.CountryInsideDhaka,
		Status:     models.OrderStatusPending,
		TotalPrice: decimal.RequireFromString("350.00"),
		Items: []models.OrderItem{
			{
				ProductID:   &bestseller.ID,
				ProductName: bestseller.Name,
				Quantity:    3,
				UnitPrice:   bestseller.Price,
			},
		},
	}
	require.NoError(t, db.Create(&order).Error)

	page, err := svc.List("", SortPopular, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bestseller", "Quiet"}, names(page))
}

func TestCatalogSearchIsCaseInsensitiveAcrossFields(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db)

	seedProduct(t, db, "Midnight Oud", "men", "100.00", nil)
	seedProduct(t, db, "Rose Petal", "women", "100.00", func(p *models.Product) {
		p.Details = "A soft OUD undertone"
	})
	seedProduct(t, db, "Citrus Splash", "unisex", "100.00", nil)

	page, err := svc.Search("oud", SortNameAZ, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Midnight Oud", "Rose Petal"}, names(page))

	// Gender is searchable too.
	page, err = svc.Search("UNISEX", SortNewest, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Citrus Splash"}, names(page))
}

func TestCatalogSuggestLimitsAndOrdersByInsertion(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db)

	for i := 0; i < 10; i++ {
		seedProduct(t, db, "Oud "+string(rune('A'+i)), "men", "100.00", nil)
	}

	suggestions, err := svc.Suggest("oud")
	require.NoError(t, err)
	require.Len(t, suggestions, 8)
	assert.Equal(t, "Oud A", suggestions[0].Name)
	assert.Contains(t, suggestions[0].URL, suggestions[0].ID.String())

	empty, err := svc.Suggest("   ")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCatalogPaginationClampsOutOfRangePages(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db)

	for i := 0; i < 8; i++ {
		seedProduct(t, db, "Item "+string(rune('A'+i)), "men", "100.00", nil)
	}

	// 8 products at 6 per page leaves 2 on the last page.
	page, err := svc.List("", SortNameAZ, 99)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Products, 2)

	page, err = svc.List("", SortNameAZ, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Len(t, page.Products, 6)
}
