package auth

import (
	"errors"
	"testing"
	"time"
)

func TestIssueAndParseAccess(t *testing.T) {
	svc := NewService("access-secret", "refresh-secret", time.Hour, 24*time.Hour)

	tok, err := svc.IssueAccess("user-1", "ADMIN")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	claims, err := svc.ParseAccess(tok)
	if err != nil {
		t.Fatalf("ParseAccess: %v", err)
	}
	if claims.Subject != "user-1" || claims.Role != "ADMIN" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestRefreshTokenNotValidAsAccess(t *testing.T) {
	svc := NewService("access-secret", "refresh-secret", time.Hour, 24*time.Hour)

	refresh, err := svc.IssueRefresh("user-1")
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}
	if _, err := svc.ParseAccess(refresh); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("refresh accepted as access: %v", err)
	}
	if _, err := svc.ParseRefresh(refresh); err != nil {
		t.Fatalf("ParseRefresh: %v", err)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	svc := NewService("s1", "s2", -time.Minute, -time.Minute)

	tok, err := svc.IssueAccess("user-1", "STUDENT")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	if _, err := svc.ParseAccess(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expired token accepted: %v", err)
	}
}

func TestGarbageTokenRejected(t *testing.T) {
	svc := NewService("s1", "s2", time.Hour, time.Hour)
	if _, err := svc.ParseAccess("not.a.jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("garbage accepted: %v", err)
	}
}
