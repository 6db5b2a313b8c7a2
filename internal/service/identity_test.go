package service

import (
	"errors"
	"testing"
	"time"
)

func TestIdentityTokenRoundTrip(t *testing.T) {
	token, expiresAt, err := IssueIdentityToken("secret", 7, "biller", time.Hour)
	if err != nil {
		t.Fatalf("issue token failed: %v", err)
	}
	if !expiresAt.After(time.Now()) {
		t.Fatalf("expires_at should be in the future")
	}
	claims, err := ParseIdentityToken("secret", token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.UserID != 7 || claims.Role != "BILLER" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestParseIdentityTokenRejects(t *testing.T) {
	token, _, err := IssueIdentityToken("secret", 7, "ADMIN", time.Hour)
	if err != nil {
		t.Fatalf("issue token failed: %v", err)
	}
	if _, err := ParseIdentityToken("other", token); !errors.Is(err, ErrIdentityTokenInvalid) {
		t.Fatalf("wrong secret want ErrIdentityTokenInvalid, got %v", err)
	}

	expired, _, err := IssueIdentityToken("secret", 7, "ADMIN", -time.Minute)
	if err != nil {
		t.Fatalf("issue expired token failed: %v", err)
	}
	if _, err := ParseIdentityToken("secret", expired); !errors.Is(err, ErrIdentityTokenInvalid) {
		t.Fatalf("expired token want ErrIdentityTokenInvalid, got %v", err)
	}

	if _, _, err := IssueIdentityToken("secret", 0, "ADMIN", time.Hour); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("zero user id want ErrInvalidInput, got %v", err)
	}
	if _, err := ParseIdentityToken("", token); !errors.Is(err, ErrIdentitySecretEmpty) {
		t.Fatalf("empty secret want ErrIdentitySecretEmpty, got %v", err)
	}
}
