package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/zenko/internal/apperr"
	"github.com/example/zenko/internal/config"
	"github.com/example/zenko/internal/models"
	"github.com/example/zenko/internal/services"
	"github.com/example/zenko/internal/utils"
)

// AuthHandler bundles dependencies for authentication endpoints.
type AuthHandler struct {
	db   *gorm.DB
	cfg  *config.Config
	auth *services.AuthService
	otp  *services.OTPService
	sms  *services.SMSService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(db *gorm.DB, cfg *config.Config, auth *services.AuthService, otp *services.OTPService, sms *services.SMSService) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg, auth: auth, otp: otp, sms: sms}
}

type sendOTPRequest struct {
	Phone string `json:"phone"`
}

// SendOTP issues a one-time code to the given phone number.
func (h *AuthHandler) SendOTP(c *fiber.Ctx) error {
	var req sendOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Phone == "" {
		return fiber.NewError(fiber.StatusBadRequest, "phone is required")
	}

	code, err := h.otp.Issue(req.Phone)
	if err != nil {
		return err
	}

	resp := fiber.Map{"success": true}
	// The code leaves the server only when no real gateway is wired up.
	if h.sms.Quiet() {
		resp["code"] = code
	}
	return c.JSON(resp)
}

type verifyOTPRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

// VerifyOTP logs an existing customer in with a valid one-time code.
// Unknown phones are rejected before the code is consumed, so the same
// code stays usable for signup.
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req verifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	user, err := h.auth.AuthenticateByPhone(req.Phone)
	if err != nil {
		return err
	}

	if !h.otp.Verify(req.Phone, req.Code) {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired code")
	}

	if !user.IsPhoneVerified {
		if err := h.db.Model(user).Update("is_phone_verified", true).Error; err != nil {
			return err
		}
	}

	return h.respondWithToken(c, user, fiber.StatusOK)
}

type signupRequest struct {
	Phone     string `json:"phone"`
	Code      string `json:"code"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Signup creates a customer account after OTP proof of phone ownership.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Phone == "" {
		return fiber.NewError(fiber.StatusBadRequest, "phone is required")
	}

	// Known phones are turned away before the code is consumed, so it
	// stays valid for the login path the caller is redirected to.
	if _, err := h.auth.AuthenticateByPhone(req.Phone); err == nil {
		return apperr.New(apperr.CodeAlreadyExists, "an account with this phone number already exists")
	} else if !apperr.IsCode(err, apperr.CodeNotFound) {
		return err
	}

	if !h.otp.Verify(req.Phone, req.Code) {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired code")
	}

	user, err := h.auth.SignupWithPhone(req.Phone, req.FirstName, req.LastName)
	if err != nil {
		return err
	}

	return h.respondWithToken(c, user, fiber.StatusCreated)
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates by email-or-username plus password.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	user, err := h.auth.AuthenticateByCredentials(req.Email, req.Password)
	if err != nil {
		return err
	}

	return h.respondWithToken(c, user, fiber.StatusOK)
}

// AdminLogin authenticates by credentials and requires superuser privilege.
func (h *AuthHandler) AdminLogin(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	user, err := h.auth.AdminLogin(req.Email, req.Password)
	if err != nil {
		return err
	}

	return h.respondWithToken(c, user, fiber.StatusOK)
}

type providerRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// ProviderLogin upserts an account from an identity already verified by an
// upstream provider gateway.
func (h *AuthHandler) ProviderLogin(c *fiber.Ctx) error {
	var req providerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Email == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email is required")
	}

	user, err := h.auth.UpsertFromProvider(req.Email, req.FullName)
	if err != nil {
		return err
	}

	return h.respondWithToken(c, user, fiber.StatusOK)
}

// Logout resolves the post-logout landing location. The "next" parameter is
// caller-controlled, so it passes through the redirect allow-list.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	target := utils.SafeRedirect(c.Query("next"), h.cfg.AllowedRedirectHosts, "/")
	return c.JSON(fiber.Map{
		"success":  true,
		"redirect": target,
	})
}

func (h *AuthHandler) respondWithToken(c *fiber.Ctx, user *models.User, status int) error {
	token, err := utils.GenerateToken(h.cfg.JWTSecret, user.ID, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"user": fiber.Map{
			"id":                user.ID,
			"first_name":        user.FirstName,
			"last_name":         user.LastName,
			"username":          user.Username,
			"email":             user.Email,
			"phone":             user.Phone,
			"is_superuser":      user.IsSuperuser,
			"is_phone_verified": user.IsPhoneVerified,
		},
		"token": token,
	})
}
