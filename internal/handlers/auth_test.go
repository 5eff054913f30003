package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/zenko/internal/config"
	"github.com/example/zenko/internal/database"
	"github.com/example/zenko/internal/handlers"
	"github.com/example/zenko/internal/models"
	"github.com/example/zenko/internal/routes"
)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		JWTSecret:             "test-secret",
		TokenExpires:          time.Hour,
		SMSQuietMode:          true,
		DeliveryChargeInside:  decimal.RequireFromString("50.00"),
		DeliveryChargeOutside: decimal.RequireFromString("80.00"),
		AllowedRedirectHosts:  []string{"localhost:8080"},
	}

	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	routes.Register(app, db, cfg)
	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]interface{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func signupCustomer(t *testing.T, app *fiber.App, phone string) string {
	t.Helper()

	resp, body := doJSON(t, app, fiber.MethodPost, "/api/auth/otp/send", "", fiber.Map{"phone": phone})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	code, _ := body["code"].(string)
	require.NotEmpty(t, code)

	resp, body = doJSON(t, app, fiber.MethodPost, "/api/auth/signup", "", fiber.Map{
		"phone":      phone,
		"code":       code,
		"first_name": "Test",
		"last_name":  "Customer",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestSignupThenPhoneLoginFlow(t *testing.T) {
	app, _ := newTestApp(t)
	phone := "+8801766666666"

	token := signupCustomer(t, app, phone)
	require.NotEmpty(t, token)

	// A second OTP round logs the now-existing account in.
	resp, body := doJSON(t, app, fiber.MethodPost, "/api/auth/otp/send", "", fiber.Map{"phone": phone})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	code := body["code"].(string)

	resp, body = doJSON(t, app, fiber.MethodPost, "/api/auth/otp/verify", "", fiber.Map{
		"phone": phone,
		"code":  code,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body["token"])

	user := body["user"].(map[string]interface{})
	assert.Equal(t, true, user["is_phone_verified"])
}

func TestDuplicateSignupKeepsCodeUsableForLogin(t *testing.T) {
	app, _ := newTestApp(t)
	phone := "+8801766666667"

	signupCustomer(t, app, phone)

	resp, body := doJSON(t, app, fiber.MethodPost, "/api/auth/otp/send", "", fiber.Map{"phone": phone})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	code := body["code"].(string)

	// The rejected duplicate signup must not consume the code.
	resp, body = doJSON(t, app, fiber.MethodPost, "/api/auth/signup", "", fiber.Map{
		"phone":      phone,
		"code":       code,
		"first_name": "Again",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	errBody := body["error"].(map[string]interface{})
	assert.Equal(t, "ALREADY_EXISTS", errBody["code"])

	// The same code still logs the existing account in.
	resp, body = doJSON(t, app, fiber.MethodPost, "/api/auth/otp/verify", "", fiber.Map{
		"phone": phone,
		"code":  code,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body["token"])
}

func TestVerifyOTPForUnknownPhoneReturnsNotFound(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := doJSON(t, app, fiber.MethodPost, "/api/auth/otp/verify", "", fiber.Map{
		"phone": "+8801777777777",
		"code":  "123456",
	})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, false, body["success"])

	errBody := body["error"].(map[string]interface{})
	assert.Equal(t, "NOT_FOUND", errBody["code"])
}

func TestCartAndCheckoutOverHTTP(t *testing.T) {
	app, db := newTestApp(t)
	token := signupCustomer(t, app, "+8801788888888")

	product := &models.Product{
		Name:  "Velvet Musk",
		Price: decimal.RequireFromString("650.00"),
	}
	require.NoError(t, db.Create(product).Error)

	resp, _ := doJSON(t, app, fiber.MethodPost, "/api/cart/items", token, fiber.Map{
		"product_id": product.ID.String(),
		"quantity":   2,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, app, fiber.MethodGet, "/api/cart", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "1300", body["total"])

	resp, body = doJSON(t, app, fiber.MethodPost, "/api/checkout", token, fiber.Map{
		"country":    "inside_dhaka",
		"first_name": "Test",
		"last_name":  "Customer",
		"address":    "12 Green Road, Dhaka",
		"email":      "customer@example.com",
		"phone":      "+8801788888888",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	order := body["order"].(map[string]interface{})
	assert.Equal(t, "1350", order["total_price"])
	assert.Equal(t, "pending", order["status"])
}

func TestCheckoutValidationErrorEnvelope(t *testing.T) {
	app, _ := newTestApp(t)
	token := signupCustomer(t, app, "+8801799999991")

	resp, body := doJSON(t, app, fiber.MethodPost, "/api/checkout", token, fiber.Map{
		"country": "mars",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	errBody := body["error"].(map[string]interface{})
	assert.Equal(t, "VALIDATION_ERROR", errBody["code"])
	fields := errBody["fields"].(map[string]interface{})
	assert.Contains(t, fields, "country")
	assert.Contains(t, fields, "email")
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app, _ := newTestApp(t)

	resp, _ := doJSON(t, app, fiber.MethodGet, "/api/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, app, fiber.MethodGet, "/api/orders", "bogus-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestBuyNowAnonymousGetsIntentToken(t *testing.T) {
	app, db := newTestApp(t)

	product := &models.Product{
		Name:  "Velvet Musk",
		Price: decimal.RequireFromString("650.00"),
	}
	require.NoError(t, db.Create(product).Error)

	resp, body := doJSON(t, app, fiber.MethodPost, "/api/buy-now/"+product.ID.String(), "", fiber.Map{
		"volume":   "30 ml",
		"quantity": 1,
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	intentToken, _ := body["intent_token"].(string)
	require.NotEmpty(t, intentToken)

	// The redeem route must win over the :product_id route: without a
	// bearer token it demands authentication instead of rejecting
	// "redeem" as a malformed product ID.
	resp, body = doJSON(t, app, fiber.MethodPost, "/api/buy-now/redeem", "", fiber.Map{
		"intent_token": intentToken,
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Nil(t, body["intent_token"])

	// After login the intent is redeemed into the cart.
	token := signupCustomer(t, app, "+8801799999992")
	resp, _ = doJSON(t, app, fiber.MethodPost, "/api/buy-now/redeem", token, fiber.Map{
		"intent_token": intentToken,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, cart := doJSON(t, app, fiber.MethodGet, "/api/cart", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items := cart["items"].([]interface{})
	require.Len(t, items, 1)
	item := items[0].(map[string]interface{})
	assert.Equal(t, "30 ml", item["volume"])
}

func TestAdminGateBlocksCustomers(t *testing.T) {
	app, _ := newTestApp(t)
	token := signupCustomer(t, app, "+8801799999993")

	resp, _ := doJSON(t, app, fiber.MethodPost, "/api/admin/products", token, fiber.Map{
		"name": "Should Fail",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
