package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestPasswordRoundTrip(t *testing.T) {
	a := New("secret", time.Hour)

	hash, err := a.HashPassword("hunter2")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "hunter2" {
		t.Fatal("password stored in plaintext")
	}
	if !a.VerifyPassword(hash, "hunter2") {
		t.Error("correct password rejected")
	}
	if a.VerifyPassword(hash, "wrong") {
		t.Error("wrong password accepted")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	a := New("secret", time.Hour)

	token, err := a.IssueToken("42", "a@b.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := a.VerifyToken(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != "42" {
		t.Errorf("subject = %q", claims.Subject)
	}
	if claims.Email != "a@b.com" {
		t.Errorf("email = %q", claims.Email)
	}
}

func TestTokenTampered(t *testing.T) {
	a := New("secret", time.Hour)

	token, err := a.IssueToken("42", "a@b.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// Flip a byte in the payload.
	tampered := "x" + token[1:]
	if _, err := a.VerifyToken(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}

	// Token signed with a different secret.
	other := New("other-secret", time.Hour)
	otherToken, _ := other.IssueToken("42", "a@b.com")
	if _, err := a.VerifyToken(otherToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for foreign signature, got %v", err)
	}

	if _, err := a.VerifyToken("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for garbage, got %v", err)
	}
}

func TestTokenExpired(t *testing.T) {
	a := New("secret", time.Hour)

	token, err := a.IssueToken("42", "a@b.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	a.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := a.VerifyToken(token); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("expected ErrExpiredToken, got %v", err)
	}
}

func TestTokenShape(t *testing.T) {
	a := New("secret", time.Hour)
	token, err := a.IssueToken("42", "a@b.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if strings.Count(token, ".") != 1 {
		t.Errorf("expected payload.signature shape, got %q", token)
	}
}
