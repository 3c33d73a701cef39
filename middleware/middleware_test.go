package middleware

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signToken(t *testing.T, secret []byte, userID string, ttl time.Duration) string {
	t.Helper()
	claims := &Claims{
		Email:  "tienda@example.com",
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func TestValidateJWT(t *testing.T) {
	secret := []byte("clave-de-prueba")
	a := NewAuthenticator(secret)

	token := signToken(t, secret, "t42", time.Hour)
	claims, err := a.ValidateJWT("Bearer " + token)
	if err != nil {
		t.Fatalf("expected valid token, got %v", err)
	}
	if claims.UserID != "t42" {
		t.Fatalf("expected userID t42, got %s", claims.UserID)
	}
}

func TestValidateJWTRejectsBadHeader(t *testing.T) {
	a := NewAuthenticator([]byte("clave-de-prueba"))
	for _, header := range []string{"", "token-sin-prefijo", "Basic abc"} {
		if _, err := a.ValidateJWT(header); err == nil {
			t.Fatalf("header %q should be rejected", header)
		}
	}
}

func TestValidateJWTRejectsWrongSecret(t *testing.T) {
	token := signToken(t, []byte("clave-a"), "t42", time.Hour)
	a := NewAuthenticator([]byte("clave-b"))
	if _, err := a.ValidateJWT("Bearer " + token); err == nil {
		t.Fatal("token signed with another secret should be rejected")
	}
}

func TestValidateJWTRejectsExpired(t *testing.T) {
	secret := []byte("clave-de-prueba")
	token := signToken(t, secret, "t42", -time.Minute)
	a := NewAuthenticator(secret)
	if _, err := a.ValidateJWT("Bearer " + token); err == nil {
		t.Fatal("expired token should be rejected")
	}
}
