package auth

import (
	"testing"

	"github.com/civitas-dev/remote-visit-service/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", 5)
	dept := "tax"
	user := &domain.User{ID: "user-1", Role: domain.RoleStaff, DepartmentID: &dept}

	token, exp, err := tm.GenerateToken(user)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if token == "" || exp.IsZero() {
		t.Fatal("expected token and expiry")
	}

	claims, err := tm.ParseToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "user-1" || claims.Role != domain.RoleStaff {
		t.Fatalf("claims = %+v", claims)
	}
	if claims.DepartmentID == nil || *claims.DepartmentID != "tax" {
		t.Fatalf("department = %v, want tax", claims.DepartmentID)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	tm := NewTokenManager("test-secret", 5)
	token, _, err := tm.GenerateToken(&domain.User{ID: "user-1", Role: domain.RoleCitizen})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	other := NewTokenManager("other-secret", 5)
	if _, err := other.ParseToken(token); err == nil {
		t.Fatal("expected signature verification failure")
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret", 5)
	if _, err := tm.ParseToken("not.a.token"); err == nil {
		t.Fatal("expected parse failure")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := ComparePassword(hash, "hunter22"); err != nil {
		t.Fatalf("compare: %v", err)
	}
	if err := ComparePassword(hash, "wrong"); err == nil {
		t.Fatal("expected mismatch")
	}
}
