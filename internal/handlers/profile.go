package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/zenko/internal/middleware"
	"github.com/example/zenko/internal/models"
)

// ProfileHandler serves the authenticated user's account details.
type ProfileHandler struct {
	db *gorm.DB
}

// NewProfileHandler constructs a ProfileHandler.
func NewProfileHandler(db *gorm.DB) *ProfileHandler {
	return &ProfileHandler{db: db}
}

// GetProfile returns the user together with their contact profile.
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}

	var user models.User
	if err := h.db.Preload("Profile").First(&user, "id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusUnauthorized, "account no longer exists")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": user})
}

type updateProfileRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

// UpdateProfile updates display names and contact details. Identity fields
// (login phone, email, username) are not editable here.
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			return err
		}

		if req.FirstName != "" {
			user.FirstName = req.FirstName
		}
		if req.LastName != "" {
			user.LastName = req.LastName
		}
		if err := tx.Save(&user).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if req.FullName != "" {
			updates["full_name"] = req.FullName
		}
		if req.Phone != "" {
			updates["phone"] = req.Phone
		}
		if req.Address != "" {
			updates["address"] = req.Address
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&models.Profile{}).
			Where("user_id = ?", userID.String()).
			Updates(updates).Error
	})
	if err != nil {
		return err
	}

	var user models.User
	if err := h.db.Preload("Profile").First(&user, "id = ?", userID).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": user})
}
