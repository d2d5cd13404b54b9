package service

import (
	"testing"
	"time"
)

func TestAccessToken_RoundTrip(t *testing.T) {
	secret := []byte("secret")

	token, err := IssueAccessToken(42, secret, time.Hour)
	if err != nil {
		t.Fatalf("IssueAccessToken failed: %v", err)
	}

	userID, err := ParseAccessToken(token, secret)
	if err != nil {
		t.Fatalf("ParseAccessToken failed: %v", err)
	}
	if userID != 42 {
		t.Fatalf("expected user id 42, got %d", userID)
	}
}

func TestAccessToken_WrongSecret(t *testing.T) {
	token, err := IssueAccessToken(7, []byte("secret"), time.Hour)
	if err != nil {
		t.Fatalf("IssueAccessToken failed: %v", err)
	}

	if _, err := ParseAccessToken(token, []byte("other")); err == nil {
		t.Fatalf("expected error for wrong secret")
	}
}

func TestAccessToken_Expired(t *testing.T) {
	secret := []byte("secret")
	token, err := IssueAccessToken(7, secret, -time.Minute)
	if err != nil {
		t.Fatalf("IssueAccessToken failed: %v", err)
	}

	if _, err := ParseAccessToken(token, secret); err == nil {
		t.Fatalf("expected error for expired token")
	}
}

func TestAccessToken_Garbage(t *testing.T) {
	if _, err := ParseAccessToken("not-a-token", []byte("secret")); err == nil {
		t.Fatalf("expected error for malformed token")
	}
}
