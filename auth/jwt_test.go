package auth

import (
	"testing"
	"time"

	"courses-backend/models"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hash == "secret123" {
		t.Fatal("expected password to be hashed")
	}

	if !CheckPassword("secret123", hash) {
		t.Fatal("expected correct password to match")
	}
	if CheckPassword("wrong", hash) {
		t.Fatal("expected wrong password to fail")
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	service := NewJWTService("test-secret", 1)
	user := &models.User{
		ID:       7,
		Username: "alice",
		IsStaff:  true,
	}

	token, err := service.GenerateToken(user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	claims, err := service.ValidateToken(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID != 7 {
		t.Fatalf("expected user id 7, got %d", claims.UserID)
	}
	if claims.Username != "alice" {
		t.Fatalf("expected username 'alice', got %q", claims.Username)
	}
	if !claims.IsStaff {
		t.Fatal("expected staff flag to survive the round trip")
	}
	if claims.Subject != "alice" {
		t.Fatalf("expected subject 'alice', got %q", claims.Subject)
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	service := NewJWTService("test-secret", 1)
	other := NewJWTService("another-secret", 1)

	token, err := service.GenerateToken(&models.User{ID: 1, Username: "bob"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := other.ValidateToken(token); err == nil {
		t.Fatal("expected token signed with another secret to fail")
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	service := NewJWTService("test-secret", 1)

	if _, err := service.ValidateToken("not-a-token"); err == nil {
		t.Fatal("expected garbage token to fail")
	}
}

func TestTokenTTL(t *testing.T) {
	service := NewJWTService("test-secret", 24)
	if got := service.TokenTTL(); got != 24*time.Hour {
		t.Fatalf("expected 24h, got %v", got)
	}
}
