package token

import (
	"testing"
	"time"
)

const secret = "unit-test-secret"

func TestGenerateAndValidate(t *testing.T) {
	tok, err := GenerateJWT(42, "editor", TypeAccess, secret, time.Minute)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	claims, err := ValidateJWT(tok, secret, TypeAccess)
	if err != nil {
		t.Fatalf("ValidateJWT: %v", err)
	}
	if claims.UserID != 42 || claims.Role != "editor" || claims.TokenType != TypeAccess {
		t.Errorf("unexpected claims %+v", claims)
	}
}

func TestValidateRejects(t *testing.T) {
	access, _ := GenerateJWT(1, "admin", TypeAccess, secret, time.Minute)
	refresh, _ := GenerateJWT(1, "admin", TypeRefresh, secret, time.Minute)
	expired, _ := GenerateJWT(1, "admin", TypeAccess, secret, -time.Minute)
	noUser, _ := GenerateJWT(0, "admin", TypeAccess, secret, time.Minute)

	tests := []struct {
		name     string
		token    string
		secret   string
		wantType string
	}{
		{"empty token", "", secret, TypeAccess},
		{"empty secret", access, "", TypeAccess},
		{"wrong secret", access, "other", TypeAccess},
		{"refresh used as access", refresh, secret, TypeAccess},
		{"access used as refresh", access, secret, TypeRefresh},
		{"expired", expired, secret, TypeAccess},
		{"missing user", noUser, secret, TypeAccess},
		{"garbage", "not.a.jwt", secret, TypeAccess},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ValidateJWT(tt.token, tt.secret, tt.wantType); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
