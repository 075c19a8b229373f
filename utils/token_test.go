package utils_test

import (
	"testing"

	"bitbucket.org/mmdatafocus/calc_backend/config"
	"bitbucket.org/mmdatafocus/calc_backend/utils"
)

func testSettings() config.Settings {
	return config.Settings{
		ApiSecret:         "test-secret",
		TokenHourLifespan: 1,
	}
}

func TestJwtGenerateAndValidate(t *testing.T) {
	settings := testSettings()

	token, err := utils.JwtGenerate(settings, "user-123", "alice")
	if err != nil {
		t.Fatalf("JwtGenerate: %v", err)
	}

	parsed, err := utils.JwtValidate(settings, token)
	if err != nil {
		t.Fatalf("JwtValidate: %v", err)
	}
	if !parsed.Valid {
		t.Fatal("expected token to be valid")
	}

	claim, ok := parsed.Claims.(*utils.JwtCustomClaim)
	if !ok {
		t.Fatalf("unexpected claims type %T", parsed.Claims)
	}
	if claim.ID != "user-123" {
		t.Fatalf("expected user id user-123, got %q", claim.ID)
	}
	if claim.Username != "alice" {
		t.Fatalf("expected username alice, got %q", claim.Username)
	}
	if claim.StandardClaims.Id == "" {
		t.Fatal("expected a jti on every token")
	}
	if claim.ExpiresAt <= claim.IssuedAt {
		t.Fatal("expected expiry after issue time")
	}
}

func TestJwtValidate_EachTokenGetsDistinctJti(t *testing.T) {
	settings := testSettings()

	first, err := utils.JwtGenerate(settings, "user-123", "alice")
	if err != nil {
		t.Fatalf("JwtGenerate: %v", err)
	}
	second, err := utils.JwtGenerate(settings, "user-123", "alice")
	if err != nil {
		t.Fatalf("JwtGenerate: %v", err)
	}

	jti := func(token string) string {
		parsed, err := utils.JwtValidate(settings, token)
		if err != nil {
			t.Fatalf("JwtValidate: %v", err)
		}
		return parsed.Claims.(*utils.JwtCustomClaim).StandardClaims.Id
	}
	if jti(first) == jti(second) {
		t.Fatal("two tokens for the same user must carry distinct jtis")
	}
}

func TestJwtValidate_RejectsWrongSecret(t *testing.T) {
	token, err := utils.JwtGenerate(testSettings(), "user-123", "alice")
	if err != nil {
		t.Fatalf("JwtGenerate: %v", err)
	}

	other := config.Settings{ApiSecret: "different-secret", TokenHourLifespan: 1}
	if _, err := utils.JwtValidate(other, token); err == nil {
		t.Fatal("expected validation to fail with the wrong secret")
	}
}
