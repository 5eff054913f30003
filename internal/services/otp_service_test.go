package services

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/zenko/internal/apperr"
	"github.com/example/zenko/internal/models"
)

func newOTPServiceForTest(t *testing.T) (*OTPService, func() []models.OTPVerification) {
	t.Helper()

	db := newTestDB(t)
	svc := NewOTPService(db, NewSMSService("", "", "Zenko", true))

	records := func() []models.OTPVerification {
		var out []models.OTPVerification
		require.NoError(t, db.Order("created_at asc").Find(&out).Error)
		return out
	}
	return svc, records
}

func TestOTPIssueAndVerifyOnce(t *testing.T) {
	svc, records := newOTPServiceForTest(t)

	code, err := svc.Issue("+8801700000001")
	require.NoError(t, err)
	require.Len(t, code, 6)
	assert.GreaterOrEqual(t, code, "100000")
	assert.LessOrEqual(t, code, "999999")

	assert.True(t, svc.Verify("+8801700000001", code))
	// Consumed codes cannot be replayed.
	assert.False(t, svc.Verify("+8801700000001", code))

	stored := records()
	require.Len(t, stored, 1)
	assert.True(t, stored[0].Consumed)
	require.NotNil(t, stored[0].ConsumedAt)
}

func TestOTPVerifyRejectsWrongInputs(t *testing.T) {
	svc, _ := newOTPServiceForTest(t)

	code, err := svc.Issue("+8801700000002")
	require.NoError(t, err)

	assert.False(t, svc.Verify("+8801700000002", "000000"))
	assert.False(t, svc.Verify("+8801799999999", code))
	// The real code still works after failed attempts.
	assert.True(t, svc.Verify("+8801700000002", code))
}

func TestOTPVerifyRejectsExpiredCode(t *testing.T) {
	db := newTestDB(t)
	svc := NewOTPService(db, NewSMSService("", "", "Zenko", true))

	code, err := svc.Issue("+8801700000003")
	require.NoError(t, err)

	backdated := time.Now().Add(-otpTTL - time.Second)
	require.NoError(t, db.Model(&models.OTPVerification{}).
		Where("phone = ?", "+8801700000003").
		Update("created_at", backdated).Error)

	assert.False(t, svc.Verify("+8801700000003", code))
}

func TestOTPNewestCodeWinsButOlderStaysValid(t *testing.T) {
	svc, _ := newOTPServiceForTest(t)

	first, err := svc.Issue("+8801700000004")
	require.NoError(t, err)
	second, err := svc.Issue("+8801700000004")
	require.NoError(t, err)

	// Each exact code matches its own record within the window.
	assert.True(t, svc.Verify("+8801700000004", second))
	if first != second {
		assert.True(t, svc.Verify("+8801700000004", first))
	}
}

func TestOTPPurgeExpired(t *testing.T) {
	db := newTestDB(t)
	svc := NewOTPService(db, NewSMSService("", "", "Zenko", true))

	_, err := svc.Issue("+8801700000005")
	require.NoError(t, err)
	_, err = svc.Issue("+8801700000006")
	require.NoError(t, err)

	backdated := time.Now().Add(-otpTTL - time.Minute)
	require.NoError(t, db.Model(&models.OTPVerification{}).
		Where("phone = ?", "+8801700000005").
		Update("created_at", backdated).Error)

	purged, err := svc.PurgeExpired()
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	var remaining int64
	require.NoError(t, db.Model(&models.OTPVerification{}).Count(&remaining).Error)
	assert.Equal(t, int64(1), remaining)
}

func TestOTPIssueSurvivesDeliveryFailure(t *testing.T) {
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer gateway.Close()

	db := newTestDB(t)
	svc := NewOTPService(db, NewSMSService(gateway.URL, "token", "Zenko", false))

	code, err := svc.Issue("+8801700000007")
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeDeliveryFailure))
	// The record survives so the code can still be verified.
	require.Len(t, code, 6)
	assert.True(t, svc.Verify("+8801700000007", code))
}
