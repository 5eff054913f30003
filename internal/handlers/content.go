package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/zenko/internal/models"
	"github.com/example/zenko/internal/services"
)

// ContentHandler serves admin-managed storefront content and accepts
// contact submissions.
type ContentHandler struct {
	db    *gorm.DB
	email *services.EmailService
}

// NewContentHandler constructs a ContentHandler.
func NewContentHandler(db *gorm.DB, email *services.EmailService) *ContentHandler {
	return &ContentHandler{db: db, email: email}
}

// ListSliders returns active home-page sliders in display order.
func (h *ContentHandler) ListSliders(c *fiber.Ctx) error {
	var sliders []models.Slider
	if err := h.db.Where("is_active = ?", true).
		Order("sort_order asc").Order("created_at asc").
		Find(&sliders).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": sliders})
}

// ListDeliveryFeatures returns active features, optionally narrowed to a
// page key. A feature with an empty Pages value shows everywhere.
func (h *ContentHandler) ListDeliveryFeatures(c *fiber.Ctx) error {
	var features []models.DeliveryFeature
	if err := h.db.Where("is_active = ?", true).
		Order("sort_order asc").Order("created_at asc").
		Find(&features).Error; err != nil {
		return err
	}

	page := c.Query("page")
	if page == "" {
		return c.JSON(fiber.Map{"success": true, "data": features})
	}

	filtered := make([]models.DeliveryFeature, 0, len(features))
	for _, f := range features {
		if f.Pages == "" || containsPage(f.Pages, page) {
			filtered = append(filtered, f)
		}
	}
	return c.JSON(fiber.Map{"success": true, "data": filtered})
}

// GetAbout returns the about-page content singleton.
func (h *ContentHandler) GetAbout(c *fiber.Ctx) error {
	var about models.AboutPage
	if err := h.db.Order("created_at asc").First(&about).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(fiber.Map{"success": true, "data": nil})
		}
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": about})
}

// GetContact returns the contact-page content singleton.
func (h *ContentHandler) GetContact(c *fiber.Ctx) error {
	var contact models.ContactPage
	if err := h.db.Order("created_at asc").First(&contact).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(fiber.Map{"success": true, "data": nil})
		}
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": contact})
}

type contactSubmissionRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// SubmitContact persists a contact-form submission and forwards it to the
// shop inbox asynchronously. Persistence failure fails the request; email
// delivery failure never does.
func (h *ContentHandler) SubmitContact(c *fiber.Ctx) error {
	var req contactSubmissionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" || req.Email == "" || req.Message == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name, email and message are required")
	}

	submission := models.ContactSubmission{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Message: req.Message,
	}
	if err := h.db.Create(&submission).Error; err != nil {
		return err
	}

	h.email.SendContactMessage(submission)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true})
}

// CreateSlider adds a home-page slider. Admin only.
func (h *ContentHandler) CreateSlider(c *fiber.Ctx) error {
	var slider models.Slider
	if err := c.BodyParser(&slider); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.db.Create(&slider).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": slider})
}

// UpdateSlider rewrites a slider. Admin only.
func (h *ContentHandler) UpdateSlider(c *fiber.Ctx) error {
	var slider models.Slider
	if err := h.db.First(&slider, "id = ?", c.Params("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "slider not found")
		}
		return err
	}
	if err := c.BodyParser(&slider); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.db.Save(&slider).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": slider})
}

// DeleteSlider removes a slider. Admin only.
func (h *ContentHandler) DeleteSlider(c *fiber.Ctx) error {
	res := h.db.Delete(&models.Slider{}, "id = ?", c.Params("id"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "slider not found")
	}
	return c.JSON(fiber.Map{"success": true})
}

// CreateDeliveryFeature adds a delivery feature. Admin only.
func (h *ContentHandler) CreateDeliveryFeature(c *fiber.Ctx) error {
	var feature models.DeliveryFeature
	if err := c.BodyParser(&feature); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.db.Create(&feature).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": feature})
}

// UpdateDeliveryFeature rewrites a delivery feature. Admin only.
func (h *ContentHandler) UpdateDeliveryFeature(c *fiber.Ctx) error {
	var feature models.DeliveryFeature
	if err := h.db.First(&feature, "id = ?", c.Params("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "delivery feature not found")
		}
		return err
	}
	if err := c.BodyParser(&feature); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.db.Save(&feature).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": feature})
}

// DeleteDeliveryFeature removes a delivery feature. Admin only.
func (h *ContentHandler) DeleteDeliveryFeature(c *fiber.Ctx) error {
	res := h.db.Delete(&models.DeliveryFeature{}, "id = ?", c.Params("id"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "delivery feature not found")
	}
	return c.JSON(fiber.Map{"success": true})
}

// UpsertAbout creates or rewrites the about-page singleton. Admin only.
func (h *ContentHandler) UpsertAbout(c *fiber.Ctx) error {
	var existing models.AboutPage
	err := h.db.Order("created_at asc").First(&existing).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return err
	}

	if err := c.BodyParser(&existing); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.db.Save(&existing).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": existing})
}

// UpsertContact creates or rewrites the contact-page singleton. Admin only.
func (h *ContentHandler) UpsertContact(c *fiber.Ctx) error {
	var existing models.ContactPage
	err := h.db.Order("created_at asc").First(&existing).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return err
	}

	if err := c.BodyParser(&existing); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.db.Save(&existing).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": existing})
}

// ListContactSubmissions returns received submissions newest-first. Admin only.
func (h *ContentHandler) ListContactSubmissions(c *fiber.Ctx) error {
	var submissions []models.ContactSubmission
	if err := h.db.Order("created_at desc").Find(&submissions).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": submissions})
}

func containsPage(pages, page string) bool {
	for _, p := range strings.Split(pages, ",") {
		if strings.EqualFold(strings.TrimSpace(p), page) {
			return true
		}
	}
	return false
}
