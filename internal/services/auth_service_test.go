package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/zenko/internal/apperr"
	"github.com/example/zenko/internal/models"
	"github.com/example/zenko/internal/utils"
)

func TestAuthenticateByPhone(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db)

	created, err := svc.SignupWithPhone("+8801711111111", "Ayesha", "Rahman")
	require.NoError(t, err)

	found, err := svc.AuthenticateByPhone("+8801711111111")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = svc.AuthenticateByPhone("+8801799999999")
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))
}

func TestAuthenticateByCredentials(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db)

	hash, err := utils.HashPassword("s3cret-pass")
	require.NoError(t, err)
	user := &models.User{
		Username:     "rahim",
		Email:        "rahim@example.com",
		PasswordHash: hash,
	}
	require.NoError(t, db.Create(user).Error)

	byEmail, err := svc.AuthenticateByCredentials("rahim@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byUsername, err := svc.AuthenticateByCredentials("rahim", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byUsername.ID)

	// Wrong password and unknown identifier fail identically.
	_, err = svc.AuthenticateByCredentials("rahim@example.com", "wrong")
	assert.True(t, apperr.IsCode(err, apperr.CodeInvalidCredentials))
	_, err = svc.AuthenticateByCredentials("nobody@example.com", "s3cret-pass")
	assert.True(t, apperr.IsCode(err, apperr.CodeInvalidCredentials))
}

func TestAuthenticateByCredentialsAmbiguousIdentity(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db)

	hash, err := utils.HashPassword("pw")
	require.NoError(t, err)

	// One account's username equals another account's email.
	require.NoError(t, db.Create(&models.User{
		Username:     "karim@example.com",
		Email:        "other@example.com",
		PasswordHash: hash,
	}).Error)
	require.NoError(t, db.Create(&models.User{
		Username:     "karim",
		Email:        "karim@example.com",
		PasswordHash: hash,
	}).Error)

	_, err = svc.AuthenticateByCredentials("karim@example.com", "pw")
	assert.True(t, apperr.IsCode(err, apperr.CodeAmbiguousIdentity))
}

func TestAdminLoginRequiresSuperuser(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db)

	hash, err := utils.HashPassword("pw")
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.User{
		Username:     "plain",
		Email:        "plain@example.com",
		PasswordHash: hash,
	}).Error)

	_, err = svc.AdminLogin("plain@example.com", "pw")
	assert.True(t, apperr.IsCode(err, apperr.CodeInsufficientPrivilege))
}

func TestSignupWithPhone(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db)

	user, err := svc.SignupWithPhone("+8801722222222", "Nadia", "Islam")
	require.NoError(t, err)
	assert.True(t, user.IsPhoneVerified)
	assert.True(t, strings.HasPrefix(user.Username, "user_"))

	// Signup creates the cart and profile alongside the account.
	var cart models.Cart
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&cart).Error)
	var profile models.Profile
	require.NoError(t, db.Where("user_id = ?", user.ID.String()).First(&profile).Error)
	assert.Equal(t, "Nadia Islam", profile.FullName)

	_, err = svc.SignupWithPhone("+8801722222222", "Nadia", "Islam")
	assert.True(t, apperr.IsCode(err, apperr.CodeAlreadyExists))
}

func TestUpsertFromProvider(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db)

	created, err := svc.UpsertFromProvider("sadia@example.com", "Sadia Chowdhury")
	require.NoError(t, err)
	assert.Equal(t, "Sadia", created.FirstName)
	assert.Equal(t, "Chowdhury", created.LastName)

	// A second login with the same email merges instead of duplicating.
	again, err := svc.UpsertFromProvider("sadia@example.com", "Sadia C.")
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)

	var count int64
	require.NoError(t, db.Model(&models.User{}).
		Where("email = ?", "sadia@example.com").Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var profile models.Profile
	require.NoError(t, db.Where("user_id = ?", created.ID.String()).First(&profile).Error)
	assert.Equal(t, "Sadia C.", profile.FullName)
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db)

	require.NoError(t, svc.EnsureAdmin("admin@example.com", "admin-pass"))
	require.NoError(t, svc.EnsureAdmin("admin@example.com", "admin-pass"))

	var admins []models.User
	require.NoError(t, db.Where("is_superuser = ?", true).Find(&admins).Error)
	require.Len(t, admins, 1)
	// Superusers are always phone-verified.
	assert.True(t, admins[0].IsPhoneVerified)

	got, err := svc.AdminLogin("admin@example.com", "admin-pass")
	require.NoError(t, err)
	assert.Equal(t, admins[0].ID, got.ID)
}
