package helpers

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func testIssuer() *TokenIssuer {
	return NewTokenIssuer("test-secret", time.Hour, 24*time.Hour)
}

func TestGenerateAndParseTokens(t *testing.T) {
	issuer := testIssuer()

	access, refresh, err := issuer.GenerateTokens("user-1", "a@b.edu", "student")
	if err != nil {
		t.Fatalf("GenerateTokens: %v", err)
	}

	identity, err := issuer.IdentityFromToken(access)
	if err != nil {
		t.Fatalf("IdentityFromToken(access): %v", err)
	}
	if identity.UserID != "user-1" || identity.Email != "a@b.edu" || identity.Role != "student" {
		t.Errorf("identity = %+v", identity)
	}

	if issuer.IsRefreshToken(access) {
		t.Error("access token reported as refresh")
	}
	if !issuer.IsRefreshToken(refresh) {
		t.Error("refresh token not reported as refresh")
	}
}

func TestIdentityFromLegacySubject(t *testing.T) {
	issuer := testIssuer()

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": map[string]interface{}{
			"user_id": "user-9",
			"email":   "legacy@school.edu",
			"role":    "admin",
		},
		"iat": now.Unix(),
		"exp": now.Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	identity, err := issuer.IdentityFromToken(signed)
	if err != nil {
		t.Fatalf("IdentityFromToken(legacy): %v", err)
	}
	if identity.UserID != "user-9" || identity.Role != "admin" {
		t.Errorf("legacy identity = %+v", identity)
	}
}

func TestIdentityFromTokenRejectsExpired(t *testing.T) {
	shortLived := NewTokenIssuer("test-secret", -time.Minute, time.Hour)

	access, _, err := shortLived.GenerateTokens("user-1", "a@b.edu", "student")
	if err != nil {
		t.Fatalf("GenerateTokens: %v", err)
	}
	if _, err := shortLived.IdentityFromToken(access); err == nil {
		t.Error("expired token accepted")
	}
}

func TestIdentityFromTokenRejectsWrongSecret(t *testing.T) {
	issuer := testIssuer()
	other := NewTokenIssuer("other-secret", time.Hour, 24*time.Hour)

	access, _, err := other.GenerateTokens("user-1", "a@b.edu", "student")
	if err != nil {
		t.Fatalf("GenerateTokens: %v", err)
	}
	if _, err := issuer.IdentityFromToken(access); err == nil {
		t.Error("token signed with another secret accepted")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("GoodPass1")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "GoodPass1" {
		t.Fatal("hash equals plaintext")
	}
	if !VerifyPassword(hash, "GoodPass1") {
		t.Error("correct password rejected")
	}
	if VerifyPassword(hash, "WrongPass1") {
		t.Error("wrong password accepted")
	}
}
