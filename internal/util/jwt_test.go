package util

import (
	"testing"
	"time"
)

func TestJWTRoundTrip(t *testing.T) {
	secret := "unit-test-secret"

	token, err := GenerateJWT("admin", secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	claims, err := ParseJWT(token, secret)
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if claims.Username != "admin" {
		t.Errorf("sub = %q, want admin", claims.Username)
	}

	if _, err := ParseJWT(token, "other-secret"); err == nil {
		t.Error("token accepted with wrong secret")
	}
}

func TestJWTExpired(t *testing.T) {
	secret := "unit-test-secret"

	token, err := GenerateJWT("admin", secret, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	if _, err := ParseJWT(token, secret); err == nil {
		t.Error("expired token accepted")
	}
}
