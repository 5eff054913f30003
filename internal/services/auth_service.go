package services

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/zenko/internal/apperr"
	"github.com/example/zenko/internal/models"
	"github.com/example/zenko/internal/utils"
)

// AuthService resolves login credentials to user identities. The two
// credential shapes (phone-only vs identifier+password) are separate entry
// points; there is no fallthrough between them.
type AuthService struct {
	db *gorm.DB
}

// NewAuthService constructs an AuthService.
func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db}
}

// AuthenticateByPhone resolves a user by exact phone number. OTP verification
// is the caller's responsibility and happens before this call.
func (s *AuthService) AuthenticateByPhone(phone string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("phone = ?", phone).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.New(apperr.CodeNotFound, "no account found with this phone number")
		}
		return nil, err
	}
	return &user, nil
}

// AuthenticateByCredentials matches the identifier against email or username
// and verifies the password. An unknown identifier and a wrong password both
// fail with InvalidCredentials so the response never leaks which one it was.
func (s *AuthService) AuthenticateByCredentials(identifier, password string) (*models.User, error) {
	var users []models.User
	if err := s.db.Where("email = ? OR username = ?", identifier, identifier).
		Limit(2).Find(&users).Error; err != nil {
		return nil, err
	}

	if len(users) > 1 {
		return nil, apperr.New(apperr.CodeAmbiguousIdentity, "identifier matches more than one account")
	}

	if len(users) == 0 || !utils.CheckPassword(users[0].PasswordHash, password) {
		return nil, apperr.New(apperr.CodeInvalidCredentials, "invalid credentials")
	}

	user := users[0]
	return &user, nil
}

// AdminLogin authenticates by credentials and additionally requires
// administrative privilege on the resolved identity.
func (s *AuthService) AdminLogin(email, password string) (*models.User, error) {
	user, err := s.AuthenticateByCredentials(email, password)
	if err != nil {
		return nil, err
	}
	if !user.IsSuperuser {
		return nil, apperr.New(apperr.CodeInsufficientPrivilege, "account lacks administrative privilege")
	}
	return user, nil
}

// SignupWithPhone creates a customer account for a new phone number. The
// phone channel is the trust anchor at signup time, so the account starts
// phone-verified. Fails with AlreadyExists when the phone is taken.
func (s *AuthService) SignupWithPhone(phone, firstName, lastName string) (*models.User, error) {
	var existing models.User
	err := s.db.Where("phone = ?", phone).First(&existing).Error
	if err == nil {
		return nil, apperr.New(apperr.CodeAlreadyExists, "an account with this phone number already exists")
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	user := models.User{
		FirstName:       firstName,
		LastName:        lastName,
		Username:        generateUsername(),
		Phone:           &phone,
		IsPhoneVerified: true,
	}

	if err := s.createUser(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpsertFromProvider takes a verified email/name pair from an external
// identity provider. Policy: merge into an existing account matched by
// email, otherwise create a passwordless customer account.
func (s *AuthService) UpsertFromProvider(email, fullName string) (*models.User, error) {
	var user models.User
	err := s.db.Where("email = ?", email).First(&user).Error
	if err == nil {
		if fullName != "" {
			if err := s.db.Model(&models.Profile{}).
				Where("user_id = ?", user.ID.String()).
				Update("full_name", fullName).Error; err != nil {
				return nil, err
			}
		}
		return &user, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	first, last := splitFullName(fullName)
	user = models.User{
		FirstName: first,
		LastName:  last,
		Username:  generateUsername(),
		Email:     email,
	}
	if err := s.createUser(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// EnsureAdmin idempotently seeds a superuser account from configuration.
func (s *AuthService) EnsureAdmin(email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	var existing models.User
	err := s.db.Where("email = ? AND is_superuser = ?", email, true).First(&existing).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	admin := models.User{
		Username:     "admin",
		Email:        email,
		PasswordHash: hash,
		IsSuperuser:  true,
	}
	return s.createUser(&admin)
}

// createUser persists a user together with its empty cart and profile.
// Creating a User always creates both; the invariant lives here rather
// than in a reactive hook.
func (s *AuthService) createUser(user *models.User) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		profile := models.Profile{
			UserID:   user.ID.String(),
			FullName: strings.TrimSpace(user.FirstName + " " + user.LastName),
		}
		if user.Phone != nil {
			profile.Phone = *user.Phone
		}
		if err := tx.Create(&profile).Error; err != nil {
			return err
		}

		cart := models.Cart{UserID: user.ID}
		return tx.Create(&cart).Error
	})
}

// generateUsername returns an opaque internal handle, not user-visible.
func generateUsername() string {
	return fmt.Sprintf("user_%s", uuid.New().String()[:8])
}

func splitFullName(fullName string) (first, last string) {
	parts := strings.Fields(fullName)
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
