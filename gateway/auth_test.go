package gateway_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/skillsenselab/llmkit/errors"
	"github.com/skillsenselab/llmkit/gateway"
)

func mintToken(t *testing.T, method jwt.SigningMethod, secret []byte, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, claims).SignedString(secret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestJWTValidator_ValidToken(t *testing.T) {
	secret := []byte("gateway-secret")
	validate := gateway.JWTValidator(secret)

	token := mintToken(t, jwt.SigningMethodHS256, secret, jwt.MapClaims{
		"sub": "ops-dashboard",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	claims, err := validate(token)
	if err != nil {
		t.Fatalf("expected valid token, got %v", err)
	}
	if claims["sub"] != "ops-dashboard" {
		t.Errorf("expected subject claim, got %v", claims["sub"])
	}
}

func TestJWTValidator_WrongSecret(t *testing.T) {
	validate := gateway.JWTValidator([]byte("right"))

	token := mintToken(t, jwt.SigningMethodHS256, []byte("wrong"), jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := validate(token)
	if err == nil {
		t.Fatal("expected rejection for wrong secret")
	}
	if !errors.IsCode(err, errors.ErrCodeInvalidToken) {
		t.Errorf("expected INVALID_TOKEN, got %v", err)
	}
}

func TestJWTValidator_Expired(t *testing.T) {
	secret := []byte("gateway-secret")
	validate := gateway.JWTValidator(secret)

	token := mintToken(t, jwt.SigningMethodHS256, secret, jwt.MapClaims{
		"exp": time.Now().Add(-time.Minute).Unix(),
	})

	_, err := validate(token)
	if err == nil {
		t.Fatal("expected rejection for expired token")
	}
	if !errors.IsCode(err, errors.ErrCodeTokenExpired) {
		t.Errorf("expected TOKEN_EXPIRED, got %v", err)
	}
}

func TestJWTValidator_WrongAlgorithm(t *testing.T) {
	secret := []byte("gateway-secret")
	validate := gateway.JWTValidator(secret)

	token := mintToken(t, jwt.SigningMethodHS384, secret, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := validate(token)
	if err == nil {
		t.Fatal("expected rejection for non-HS256 token")
	}
	if !errors.IsCode(err, errors.ErrCodeInvalidToken) {
		t.Errorf("expected INVALID_TOKEN, got %v", err)
	}
}
