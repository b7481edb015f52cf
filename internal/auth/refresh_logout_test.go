package auth

import (
	"context"
	"testing"
	"time"
)

func registerAndLogin(t *testing.T, svc *Service) LoginResult {
	t.Helper()
	ctx := context.Background()
	if _, err := svc.Register(ctx, "Maria Souza", "maria@example.com", "senha-forte"); err != nil {
		t.Fatalf("register: %v", err)
	}
	result, err := svc.Login(ctx, "maria@example.com", "senha-forte", "test-agent", "10.0.0.1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	return result
}

func TestServiceLoginIssuesTokenPair(t *testing.T) {
	svc := newTestService(t, newFakeQueries())
	result := registerAndLogin(t, svc)

	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Fatal("expected both tokens to be issued")
	}
	identity, err := svc.ParseAccessToken(result.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if identity.UserID != result.User.ID {
		t.Fatalf("subject %s does not match user %s", identity.UserID, result.User.ID)
	}
}

func TestServiceLoginRejectsWrongPassword(t *testing.T) {
	svc := newTestService(t, newFakeQueries())
	registerAndLogin(t, svc)

	if _, err := svc.Login(context.Background(), "maria@example.com", "senha-errada", "", ""); err == nil {
		t.Fatal("expected wrong password to be rejected")
	}
	if _, err := svc.Login(context.Background(), "nobody@example.com", "senha-forte", "", ""); err == nil {
		t.Fatal("expected unknown email to be rejected")
	}
}

func TestServiceRefreshRotatesToken(t *testing.T) {
	queries := newFakeQueries()
	svc := newTestService(t, queries)
	result := registerAndLogin(t, svc)

	rotated, err := svc.Refresh(context.Background(), result.RefreshToken, "test-agent", "10.0.0.1")
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if rotated.RefreshToken == result.RefreshToken {
		t.Fatal("expected refresh token to rotate")
	}
	// The original token is revoked and cannot be replayed.
	if _, err := svc.Refresh(context.Background(), result.RefreshToken, "", ""); err == nil {
		t.Fatal("expected revoked token to be rejected")
	}
	if _, err := svc.Refresh(context.Background(), rotated.RefreshToken, "", ""); err != nil {
		t.Fatalf("refresh with rotated token: %v", err)
	}
}

func TestServiceRefreshRejectsExpiredToken(t *testing.T) {
	queries := newFakeQueries()
	svc := newTestService(t, queries)
	result := registerAndLogin(t, svc)

	svc.WithNow(func() time.Time { return time.Now().Add(2 * time.Hour) })
	if _, err := svc.Refresh(context.Background(), result.RefreshToken, "", ""); err == nil {
		t.Fatal("expected expired refresh token to be rejected")
	}
}

func TestServiceLogoutRevokesToken(t *testing.T) {
	svc := newTestService(t, newFakeQueries())
	result := registerAndLogin(t, svc)

	if err := svc.Logout(context.Background(), result.RefreshToken); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.Refresh(context.Background(), result.RefreshToken, "", ""); err == nil {
		t.Fatal("expected refresh after logout to be rejected")
	}
	// Logging out an unknown token is a no-op.
	if err := svc.Logout(context.Background(), "unknown-token"); err != nil {
		t.Fatalf("logout unknown token: %v", err)
	}
}
