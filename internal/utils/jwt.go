package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type jwtCustomClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// GenerateToken creates a signed session JWT for the provided user ID.
func GenerateToken(secret string, userID uuid.UUID, ttl time.Duration) (string, error) {
	claims := &jwtCustomClaims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates the token and returns the embedded user ID.
func ParseToken(secret, tokenString string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwtCustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	if claims, ok := token.Claims.(*jwtCustomClaims); ok && token.Valid {
		return uuid.Parse(claims.UserID)
	}

	return uuid.Nil, jwt.ErrTokenInvalidClaims
}

// BuyIntent is a pending buy-now selection carried across a login redirect.
type BuyIntent struct {
	ProductID uuid.UUID
	Volume    string
	Quantity  int
}

type buyIntentClaims struct {
	ProductID string `json:"product_id"`
	Volume    string `json:"volume"`
	Quantity  int    `json:"quantity"`
	jwt.RegisteredClaims
}

// IntentTokenTTL bounds how long an anonymous buy-now selection stays redeemable.
const IntentTokenTTL = 15 * time.Minute

// GenerateIntentToken signs a short-lived buy-now intent for an anonymous caller.
func GenerateIntentToken(secret string, intent BuyIntent) (string, error) {
	claims := &buyIntentClaims{
		ProductID: intent.ProductID.String(),
		Volume:    intent.Volume,
		Quantity:  intent.Quantity,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "buy_now",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(IntentTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseIntentToken validates an intent token and returns the pending selection.
func ParseIntentToken(secret, tokenString string) (BuyIntent, error) {
	token, err := jwt.ParseWithClaims(tokenString, &buyIntentClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return BuyIntent{}, err
	}

	claims, ok := token.Claims.(*buyIntentClaims)
	if !ok || !token.Valid {
		return BuyIntent{}, jwt.ErrTokenInvalidClaims
	}

	productID, err := uuid.Parse(claims.ProductID)
	if err != nil {
		return BuyIntent{}, err
	}

	quantity := claims.Quantity
	if quantity < 1 {
		quantity = 1
	}

	return BuyIntent{ProductID: productID, Volume: claims.Volume, Quantity: quantity}, nil
}
