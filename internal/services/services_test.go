package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/zenko/internal/database"
	"github.com/example/zenko/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, database.Migrate(db))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, phone string) *models.User {
	t.Helper()

	user := &models.User{
		FirstName: "Test",
		LastName:  "User",
		Username:  "user_" + uuid.New().String()[:8],
		Phone:     &phone,
	}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Create(&models.Cart{UserID: user.ID}).Error)
	return user
}

func createTestProduct(t *testing.T, db *gorm.DB, name, price string) *models.Product {
	t.Helper()

	amount, err := decimal.NewFromString(price)
	require.NoError(t, err)

	product := &models.Product{
		Name:        name,
		ProductType: "perfume",
		Gender:      "men",
		Price:       amount,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}
