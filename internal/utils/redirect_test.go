package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeRedirect(t *testing.T) {
	allowed := []string{"shop.example.com", "localhost:8080"}

	tests := []struct {
		name string
		next string
		want string
	}{
		{"empty falls back", "", "/"},
		{"relative path allowed", "/orders/", "/orders/"},
		{"relative without leading slash rejected", "orders", "/"},
		{"scheme-relative rejected", "//evil.example/x", "/"},
		{"backslash prefix rejected", "\\evil.example", "/"},
		{"allowed host passes", "https://shop.example.com/cart", "https://shop.example.com/cart"},
		{"allowed host case-insensitive", "http://LOCALHOST:8080/", "http://LOCALHOST:8080/"},
		{"foreign host rejected", "https://evil.example/steal", "/"},
		{"non-http scheme rejected", "javascript:alert(1)", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SafeRedirect(tt.next, allowed, "/"))
		})
	}
}
