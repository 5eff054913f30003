package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an authenticated identity. Customers carry a verified
// phone number; admins carry email + password and is_superuser.
type User struct {
	BaseModel
	FirstName       string   `json:"first_name"`
	LastName        string   `json:"last_name"`
	Username        string   `gorm:"uniqueIndex" json:"username"`
	Email           string   `gorm:"index" json:"email"`
	Phone           *string  `gorm:"uniqueIndex" json:"phone"`
	PasswordHash    string   `json:"-"`
	IsSuperuser     bool     `json:"is_superuser"`
	IsPhoneVerified bool     `json:"is_phone_verified"`
	Profile         *Profile `json:"profile,omitempty"`
	Orders          []Order  `json:"orders,omitempty"`
}

// BeforeSave keeps superusers phone-verified regardless of OTP history.
func (u *User) BeforeSave(tx *gorm.DB) error {
	if u.IsSuperuser {
		u.IsPhoneVerified = true
	}
	return nil
}

// Profile holds customer-facing contact details, created together with the user.
type Profile struct {
	BaseModel
	UserID   string `gorm:"type:uuid;uniqueIndex" json:"user_id"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// OTPVerification keeps track of one-time codes sent to phone numbers.
// Records stay queryable until the periodic purge removes expired ones.
type OTPVerification struct {
	BaseModel
	Phone      string     `gorm:"index" json:"phone"`
	Code       string     `gorm:"size:6" json:"code"`
	Consumed   bool       `json:"consumed"`
	ConsumedAt *time.Time `json:"consumed_at"`
}
