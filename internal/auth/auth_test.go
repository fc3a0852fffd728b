package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 5)

	token, expiresAt, err := tm.GenerateToken("u1", "ana@example.com")
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}
	if token == "" || expiresAt.IsZero() {
		t.Fatal("incomplete token result")
	}

	claims, err := tm.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken returned error: %v", err)
	}
	if claims.UserID != "u1" || claims.Email != "ana@example.com" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	token, _, err := NewTokenManager("secret-a", 5).GenerateToken("u1", "ana@example.com")
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}
	if _, err := NewTokenManager("secret-b", 5).ParseToken(token); err == nil {
		t.Fatal("token verified with a different secret")
	}
}

func TestTokenRejectsGarbage(t *testing.T) {
	if _, err := NewTokenManager("secret", 5).ParseToken("not-a-jwt"); err == nil {
		t.Fatal("garbage token parsed")
	}
}

func TestPasswordHashAndCompare(t *testing.T) {
	hash, err := HashPassword("segredo123", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if hash == "segredo123" {
		t.Fatal("password not hashed")
	}
	if err := ComparePassword(hash, "segredo123"); err != nil {
		t.Fatalf("ComparePassword rejected correct password: %v", err)
	}
	if err := ComparePassword(hash, "errada"); err == nil {
		t.Fatal("ComparePassword accepted wrong password")
	}
}
