package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/zenko/internal/config"
	"github.com/example/zenko/internal/handlers"
	"github.com/example/zenko/internal/middleware"
	"github.com/example/zenko/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	smsService := services.NewSMSService(cfg.SMSGatewayURL, cfg.SMSGatewayToken, cfg.SMSSender, cfg.SMSQuietMode)
	otpService := services.NewOTPService(db, smsService)
	authService := services.NewAuthService(db)
	catalogService := services.NewCatalogService(db)
	cartService := services.NewCartService(db)
	checkoutService := services.NewCheckoutService(db, cfg)
	emailService := services.NewEmailService(cfg.SendGridAPIKey, cfg.ContactEmailFrom, cfg.ContactEmailTo)

	authHandler := handlers.NewAuthHandler(db, cfg, authService, otpService, smsService)
	catalogHandler := handlers.NewCatalogHandler(db, catalogService)
	cartHandler := handlers.NewCartHandler(cartService)
	checkoutHandler := handlers.NewCheckoutHandler(cfg, checkoutService, cartService)
	orderHandler := handlers.NewOrderHandler(db)
	profileHandler := handlers.NewProfileHandler(db)
	contentHandler := handlers.NewContentHandler(db, emailService)

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/otp/send", authHandler.SendOTP)
	auth.Post("/otp/verify", authHandler.VerifyOTP)
	auth.Post("/signup", authHandler.Signup)
	auth.Post("/login", authHandler.Login)
	auth.Post("/admin-login", authHandler.AdminLogin)
	auth.Post("/provider", authHandler.ProviderLogin)
	auth.Post("/logout", authHandler.Logout)

	// Catalog routes
	products := api.Group("/products")
	products.Get("/", catalogHandler.Shop)
	products.Get("/search", catalogHandler.Search)
	products.Get("/suggest", catalogHandler.Suggest)
	products.Get("/featured", catalogHandler.Featured)
	products.Get("/category/:gender", catalogHandler.Category)
	products.Get("/:id", catalogHandler.GetProduct)

	// Storefront content
	content := api.Group("/content")
	content.Get("/sliders", contentHandler.ListSliders)
	content.Get("/delivery-features", contentHandler.ListDeliveryFeatures)
	content.Get("/about", contentHandler.GetAbout)
	content.Get("/contact", contentHandler.GetContact)
	content.Post("/contact", contentHandler.SubmitContact)

	// Fiber matches in registration order, so the static redeem route must
	// precede the :product_id route or it would swallow "redeem" as an ID.
	api.Post("/buy-now/redeem", middleware.AuthMiddleware(cfg), checkoutHandler.RedeemBuyNow)
	// Buy-now accepts anonymous callers and hands back an intent token.
	api.Post("/buy-now/:product_id", checkoutHandler.BuyNow)

	// Protected routes
	protected := api.Group("", middleware.AuthMiddleware(cfg))

	protected.Get("/cart", cartHandler.GetCart)
	protected.Post("/cart/items", cartHandler.AddItem)
	protected.Post("/cart/items/:id/increment", cartHandler.Increment)
	protected.Post("/cart/items/:id/remove", cartHandler.RemoveOne)

	protected.Get("/checkout", checkoutHandler.Preview)
	protected.Post("/checkout", checkoutHandler.Checkout)

	protected.Get("/orders", orderHandler.ListOrders)
	protected.Get("/orders/export.pdf", orderHandler.ExportPDF)
	protected.Get("/orders/:id", orderHandler.GetOrder)

	protected.Get("/profile", profileHandler.GetProfile)
	protected.Put("/profile", profileHandler.UpdateProfile)

	// Admin routes
	admin := api.Group("/admin", middleware.AuthMiddleware(cfg), middleware.RequireAdmin(db))

	admin.Post("/products", catalogHandler.CreateProduct)
	admin.Put("/products/:id", catalogHandler.UpdateProduct)
	admin.Delete("/products/:id", catalogHandler.DeleteProduct)
	admin.Post("/products/featured", catalogHandler.FeatureProduct)
	admin.Delete("/products/featured/:id", catalogHandler.UnfeatureProduct)

	admin.Get("/orders", orderHandler.AdminListOrders)
	admin.Put("/orders/:id/status", orderHandler.UpdateOrderStatus)

	admin.Post("/content/sliders", contentHandler.CreateSlider)
	admin.Put("/content/sliders/:id", contentHandler.UpdateSlider)
	admin.Delete("/content/sliders/:id", contentHandler.DeleteSlider)
	admin.Post("/content/delivery-features", contentHandler.CreateDeliveryFeature)
	admin.Put("/content/delivery-features/:id", contentHandler.UpdateDeliveryFeature)
	admin.Delete("/content/delivery-features/:id", contentHandler.DeleteDeliveryFeature)
	admin.Put("/content/about", contentHandler.UpsertAbout)
	admin.Put("/content/contact", contentHandler.UpsertContact)
	admin.Get("/content/contact-submissions", contentHandler.ListContactSubmissions)
}
