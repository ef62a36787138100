package tokencore

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/veilauth/tokencore/token"
)

// The wire format is plain HS256 JWT. These tests hold that line against
// golang-jwt as an independent implementation, in both directions.

func TestMintedTokensParseUnderGolangJWT(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t, coreTestConfig())

	pair, err := engine.Issue(ctx, "user-42", map[string]any{"scope": "read"})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	parsed, err := jwt.Parse(pair.AccessToken, func(tok *jwt.Token) (any, error) {
		if kid, _ := tok.Header["kid"].(string); kid != "k1" {
			t.Fatalf("unexpected kid header: %v", tok.Header["kid"])
		}
		return testSecret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		t.Fatalf("golang-jwt rejected minted token: %v", err)
	}
	if !parsed.Valid {
		t.Fatal("golang-jwt marked minted token invalid")
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatalf("unexpected claims type %T", parsed.Claims)
	}
	if sub, _ := claims.GetSubject(); sub != "user-42" {
		t.Fatalf("expected subject user-42, got %q", sub)
	}
	if typ, _ := claims["typ"].(string); typ != "access" {
		t.Fatalf("expected typ claim access, got %v", claims["typ"])
	}
	custom, _ := claims["cst"].(map[string]any)
	if custom["scope"] != "read" {
		t.Fatalf("custom claims did not survive: %v", claims["cst"])
	}
	if _, err := claims.GetExpirationTime(); err != nil {
		t.Fatalf("exp claim unreadable: %v", err)
	}
}

func TestGolangJWTTokensValidateUnderEngine(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t, coreTestConfig())

	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-42",
		"jti": "foreign-jti-1",
		"iat": now.Unix(),
		"exp": now.Add(15 * time.Minute).Unix(),
		"typ": "access",
	})
	tok.Header["kid"] = "k1"

	wire, err := tok.SignedString(testSecret)
	if err != nil {
		t.Fatalf("SignedString failed: %v", err)
	}

	claims, err := engine.Validate(ctx, wire, token.TypeAccess)
	if err != nil {
		t.Fatalf("engine rejected golang-jwt token: %v", err)
	}
	if claims.Subject != "user-42" {
		t.Fatalf("expected subject user-42, got %s", claims.Subject)
	}
	if claims.TokenID != "foreign-jti-1" {
		t.Fatalf("expected foreign jti, got %s", claims.TokenID)
	}
}
