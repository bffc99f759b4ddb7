package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestUserTokenRoundTrip(t *testing.T) {
	token, err := UserToken("topsecret", "user-123")
	if err != nil {
		t.Fatalf("UserToken: %v", err)
	}
	claims, err := ParseToken("topsecret", token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != "user-123" {
		t.Errorf("UserID = %q, want %q", claims.UserID, "user-123")
	}
	if claims.Role != "" {
		t.Errorf("Role = %q, want empty", claims.Role)
	}
	if claims.ExpiresAt == nil || time.Until(claims.ExpiresAt.Time) > 7*24*time.Hour {
		t.Errorf("unexpected expiry: %v", claims.ExpiresAt)
	}
}

func TestAdminToken(t *testing.T) {
	token, err := AdminToken("topsecret", "admin@shop.test")
	if err != nil {
		t.Fatalf("AdminToken: %v", err)
	}
	claims, err := ParseToken("topsecret", token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.Role != RoleAdmin {
		t.Errorf("Role = %q, want %q", claims.Role, RoleAdmin)
	}
	if claims.Email != "admin@shop.test" {
		t.Errorf("Email = %q", claims.Email)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := UserToken("secret-a", "user-123")
	if err != nil {
		t.Fatalf("UserToken: %v", err)
	}
	if _, err := ParseToken("secret-b", token); err == nil {
		t.Fatal("expected signature error, got nil")
	}
}

func TestParseTokenExpired(t *testing.T) {
	claims := Claims{
		UserID: "user-123",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("topsecret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParseToken("topsecret", token); err == nil {
		t.Fatal("expected expiry error, got nil")
	}
}

func TestNewOTP(t *testing.T) {
	for i := 0; i < 100; i++ {
		otp := NewOTP()
		if len(otp) != 6 {
			t.Fatalf("len(%q) = %d, want 6", otp, len(otp))
		}
		for _, c := range otp {
			if c < '0' || c > '9' {
				t.Fatalf("non-digit in %q", otp)
			}
		}
	}
}

func TestValidPhone(t *testing.T) {
	valid := []string{"+919876543210", "9876543210", "+14155552671", "91 98765 43210"}
	for _, p := range valid {
		if !ValidPhone(p) {
			t.Errorf("ValidPhone(%q) = false, want true", p)
		}
	}
	invalid := []string{"", "12345", "0123456789", "+12-345", "abcdefghij"}
	for _, p := range invalid {
		if ValidPhone(p) {
			t.Errorf("ValidPhone(%q) = true, want false", p)
		}
	}
}
