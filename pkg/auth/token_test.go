package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/resellernumbers-backend/pkg/config"
)

func testConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret: "secret",
		Issuer:    "https://project.supabase.co/auth/v1",
		Audience:  "authenticated",
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := testConfig()
	userID := uuid.New()

	token, err := MintAccessToken(cfg, time.Now().UTC(), time.Hour, AccessTokenPayload{UserID: userID, Email: "seller@example.com"})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	got, err := claims.UserID()
	if err != nil || got != userID {
		t.Fatalf("expected user %s, got %s (%v)", userID, got, err)
	}
	if claims.Email != "seller@example.com" {
		t.Fatalf("unexpected email %q", claims.Email)
	}
	if claims.Role != "authenticated" {
		t.Fatalf("unexpected role %q", claims.Role)
	}
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	cfg := testConfig()
	token, err := MintAccessToken(cfg, time.Now().Add(-2*time.Hour), time.Hour, AccessTokenPayload{UserID: uuid.New()})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := ParseAccessToken(cfg, token); err == nil {
		t.Fatal("expected expired token to fail")
	}
}

func TestParseAccessTokenRejectsWrongSecretAndAudience(t *testing.T) {
	cfg := testConfig()
	token, err := MintAccessToken(cfg, time.Now(), time.Hour, AccessTokenPayload{UserID: uuid.New()})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	wrongSecret := cfg
	wrongSecret.JWTSecret = "other"
	if _, err := ParseAccessToken(wrongSecret, token); err == nil {
		t.Fatal("expected signature failure")
	}

	wrongAudience := cfg
	wrongAudience.Audience = "service_role"
	if _, err := ParseAccessToken(wrongAudience, token); err == nil {
		t.Fatal("expected audience failure")
	}
}

func TestParseAccessTokenRequiresUUIDSubject(t *testing.T) {
	cfg := testConfig()
	claims := AccessTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "not-a-uuid",
			Issuer:    cfg.Issuer,
			Audience:  jwt.ClaimStrings{cfg.Audience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParseAccessToken(cfg, token); err == nil {
		t.Fatal("expected subject validation failure")
	}
}

func TestParseAccessTokenRequiresSecret(t *testing.T) {
	if _, err := ParseAccessToken(config.AuthConfig{}, "x"); err == nil {
		t.Fatal("expected missing secret error")
	}
}
