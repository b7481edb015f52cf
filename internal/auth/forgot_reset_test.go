package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/lojinha-app/backend-lojinha/internal/common"
)

func TestInitiatePasswordResetSendsLink(t *testing.T) {
	svc := newTestService(t, newFakeQueries())
	registerAndLogin(t, svc)

	mail := &common.InMemoryEmail{}
	result, err := svc.InitiatePasswordReset(context.Background(), "maria@example.com", "https://app.lojinha.com.br", mail)
	if err != nil {
		t.Fatalf("initiate reset: %v", err)
	}
	if result.Token != "" {
		t.Fatal("token must not be exposed when a sender is configured")
	}
	if len(mail.Outbox) != 1 {
		t.Fatalf("expected 1 email, got %d", len(mail.Outbox))
	}
	if mail.Outbox[0].To != "maria@example.com" {
		t.Fatalf("unexpected recipient %s", mail.Outbox[0].To)
	}
	if !strings.Contains(mail.Outbox[0].HTML, "https://app.lojinha.com.br/reset?token=") {
		t.Fatalf("email body missing reset link: %s", mail.Outbox[0].HTML)
	}
}

func TestInitiatePasswordResetUnknownEmailIsSilent(t *testing.T) {
	svc := newTestService(t, newFakeQueries())
	mail := &common.InMemoryEmail{}
	result, err := svc.InitiatePasswordReset(context.Background(), "ghost@example.com", "https://app.lojinha.com.br", mail)
	if err != nil {
		t.Fatalf("initiate reset: %v", err)
	}
	if result.Token != "" || len(mail.Outbox) != 0 {
		t.Fatal("unknown email must not produce a token or an email")
	}
}

func TestResetPasswordConsumesTokenOnce(t *testing.T) {
	svc := newTestService(t, newFakeQueries())
	registerAndLogin(t, svc)

	// No sender configured, so the token comes back directly.
	result, err := svc.InitiatePasswordReset(context.Background(), "maria@example.com", "", nil)
	if err != nil {
		t.Fatalf("initiate reset: %v", err)
	}
	if result.Token == "" {
		t.Fatal("expected a reset token without a sender")
	}

	if err := svc.ResetPassword(context.Background(), result.Token, "nova-senha-123"); err != nil {
		t.Fatalf("reset password: %v", err)
	}
	if err := svc.ResetPassword(context.Background(), result.Token, "outra-senha"); err == nil {
		t.Fatal("expected second use of the token to fail")
	}

	if _, err := svc.Login(context.Background(), "maria@example.com", "senha-forte", "", ""); err == nil {
		t.Fatal("old password must no longer work")
	}
	if _, err := svc.Login(context.Background(), "maria@example.com", "nova-senha-123", "", ""); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}

func TestResetPasswordRejectsExpiredToken(t *testing.T) {
	svc := newTestService(t, newFakeQueries())
	registerAndLogin(t, svc)

	result, err := svc.InitiatePasswordReset(context.Background(), "maria@example.com", "", nil)
	if err != nil {
		t.Fatalf("initiate reset: %v", err)
	}
	svc.WithNow(func() time.Time { return time.Now().Add(2 * time.Hour) })
	if err := svc.ResetPassword(context.Background(), result.Token, "nova-senha-123"); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestResetPasswordRejectsWeakPassword(t *testing.T) {
	svc := newTestService(t, newFakeQueries())
	registerAndLogin(t, svc)

	result, err := svc.InitiatePasswordReset(context.Background(), "maria@example.com", "", nil)
	if err != nil {
		t.Fatalf("initiate reset: %v", err)
	}
	if err := svc.ResetPassword(context.Background(), result.Token, "curta"); err == nil {
		t.Fatal("expected short password to be rejected")
	}
}
