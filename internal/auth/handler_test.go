package auth

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// The signing key must reflect an environment variable set after package
// init, since .env files are only loaded once main starts.
func TestJWTSecretReadAtUse(t *testing.T) {
	t.Setenv("JWT_SECRET", "operator-configured-secret")
	if got := string(JWTSecret()); got != "operator-configured-secret" {
		t.Fatalf("JWTSecret() = %q, want the env override", got)
	}

	userID := uuid.New()
	tokenString, err := generateToken(userID)
	if err != nil {
		t.Fatalf("generateToken: %v", err)
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return []byte("operator-configured-secret"), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("token not verifiable with the configured secret: %v", err)
	}

	claims := token.Claims.(jwt.MapClaims)
	if claims["user_id"] != userID.String() {
		t.Errorf("user_id claim = %v, want %s", claims["user_id"], userID)
	}
}

func TestJWTSecretDefault(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if got := string(JWTSecret()); got != "challenge-pot-staging-signing-key-2026" {
		t.Errorf("JWTSecret() = %q, want the built-in default", got)
	}
}

func TestValidPin(t *testing.T) {
	tests := []struct {
		pin  string
		want bool
	}{
		{"1234", true},
		{"123456", true},
		{"123", false},
		{"1234567", false},
		{"12a4", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := validPin(tt.pin); got != tt.want {
			t.Errorf("validPin(%q) = %v, want %v", tt.pin, got, tt.want)
		}
	}
}
