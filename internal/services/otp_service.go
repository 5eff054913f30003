package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/example/zenko/internal/apperr"
	"github.com/example/zenko/internal/models"
)

// otpTTL is how long a one-time code stays valid after creation.
const otpTTL = 5 * time.Minute

// OTPService persists and verifies one-time codes per phone number.
type OTPService struct {
	db  *gorm.DB
	sms *SMSService
}

// NewOTPService constructs an OTPService.
func NewOTPService(db *gorm.DB, sms *SMSService) *OTPService {
	return &OTPService{db: db, sms: sms}
}

// Issue generates a 6-digit code, persists it and dispatches it via SMS.
// The record is kept even when delivery fails; in that case the code is
// returned alongside a DeliveryFailure error so the caller can retry.
func (s *OTPService) Issue(phone string) (string, error) {
	code, err := generateOTPCode()
	if err != nil {
		return "", apperr.Wrap(apperr.CodeInternal, err, "failed to generate code")
	}

	record := models.OTPVerification{
		Phone: phone,
		Code:  code,
	}
	if err := s.db.Create(&record).Error; err != nil {
		return "", apperr.Wrap(apperr.CodeInternal, err, "failed to store code")
	}

	text := fmt.Sprintf("Your Zenko verification code is: %s. Valid for 5 minutes.", code)
	if err := s.sms.Send(phone, text); err != nil {
		return code, apperr.Wrap(apperr.CodeDeliveryFailure, err, "sms dispatch failed")
	}

	return code, nil
}

// Verify checks the newest unconsumed record matching exactly (phone, code).
// A match within the validity window is atomically claimed; only one caller
// can win the claim, so re-submitting the same code returns false.
func (s *OTPService) Verify(phone, code string) bool {
	var record models.OTPVerification
	err := s.db.Where("phone = ? AND code = ? AND consumed = ?", phone, code, false).
		Order("created_at desc").
		First(&record).Error
	if err != nil {
		return false
	}

	if !time.Now().Before(record.CreatedAt.Add(otpTTL)) {
		return false
	}

	now := time.Now()
	res := s.db.Model(&models.OTPVerification{}).
		Where("id = ? AND consumed = ?", record.ID, false).
		Updates(map[string]interface{}{"consumed": true, "consumed_at": &now})
	if res.Error != nil {
		log.Error().Err(res.Error).Str("phone", phone).Msg("[OTP] consume update failed")
		return false
	}

	return res.RowsAffected == 1
}

// PurgeExpired deletes all records older than the validity window,
// consumed or not. Runs on a schedule, never inline with Verify.
func (s *OTPService) PurgeExpired() (int64, error) {
	threshold := time.Now().Add(-otpTTL)
	res := s.db.Where("created_at < ?", threshold).Delete(&models.OTPVerification{})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		log.Info().Int64("count", res.RowsAffected).Msg("[OTP] purged expired codes")
	}
	return res.RowsAffected, nil
}

// generateOTPCode draws a uniform 6-digit code in [100000, 999999].
func generateOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", n.Int64()+100000), nil
}
