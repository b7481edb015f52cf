package auth

import (
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

func TestServiceParseAccessTokenSuccess(t *testing.T) {
	svc := newTestService(t, newFakeQueries())
	fixed := time.Now()
	svc.WithNow(func() time.Time { return fixed })

	token, _, err := svc.signAccessToken("user-id", []string{"user", "admin"})
	if err != nil {
		t.Fatalf("sign access token: %v", err)
	}
	identity, err := svc.ParseAccessToken(token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if identity.UserID != "user-id" {
		t.Fatalf("unexpected subject: %s", identity.UserID)
	}
	if len(identity.Roles) != 2 || identity.Roles[0] != "user" || identity.Roles[1] != "admin" {
		t.Fatalf("unexpected roles: %v", identity.Roles)
	}
}

func TestServiceParseAccessTokenRejectsExpired(t *testing.T) {
	svc := newTestService(t, newFakeQueries())
	past := time.Now().Add(-time.Hour)
	svc.WithNow(func() time.Time { return past })

	token, _, err := svc.signAccessToken("user-id", nil)
	if err != nil {
		t.Fatalf("sign access token: %v", err)
	}
	svc.WithNow(time.Now)
	if _, err := svc.ParseAccessToken(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestServiceParseAccessTokenRejectsAlgorithmMismatch(t *testing.T) {
	svc := newTestService(t, newFakeQueries())
	fixed := time.Now()
	svc.WithNow(func() time.Time { return fixed })

	built, err := jwt.NewBuilder().
		Subject("user-id").
		Issuer(svc.issuer).
		Audience([]string{svc.audience}).
		IssuedAt(fixed).
		Expiration(fixed.Add(time.Minute)).
		Build()
	if err != nil {
		t.Fatalf("build token: %v", err)
	}
	signed, err := jwt.Sign(built, jwt.WithKey(jwa.HS512, svc.secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	if _, err := svc.ParseAccessToken(string(signed)); err == nil {
		t.Fatal("expected HS512 token to be rejected")
	}
}

func TestServiceParseAccessTokenRejectsWrongIssuer(t *testing.T) {
	svc := newTestService(t, newFakeQueries())
	fixed := time.Now()
	svc.WithNow(func() time.Time { return fixed })

	built, err := jwt.NewBuilder().
		Subject("user-id").
		Issuer("somebody-else").
		Audience([]string{svc.audience}).
		IssuedAt(fixed).
		Expiration(fixed.Add(time.Minute)).
		Build()
	if err != nil {
		t.Fatalf("build token: %v", err)
	}
	signed, err := jwt.Sign(built, jwt.WithKey(jwa.HS256, svc.secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	if _, err := svc.ParseAccessToken(string(signed)); err == nil {
		t.Fatal("expected token with foreign issuer to be rejected")
	}
}

func TestServiceParseAccessTokenRejectsMissingSubject(t *testing.T) {
	svc := newTestService(t, newFakeQueries())
	fixed := time.Now()
	svc.WithNow(func() time.Time { return fixed })

	built, err := jwt.NewBuilder().
		Issuer(svc.issuer).
		Audience([]string{svc.audience}).
		IssuedAt(fixed).
		Expiration(fixed.Add(time.Minute)).
		Build()
	if err != nil {
		t.Fatalf("build token: %v", err)
	}
	signed, err := jwt.Sign(built, jwt.WithKey(jwa.HS256, svc.secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	if _, err := svc.ParseAccessToken(string(signed)); err == nil {
		t.Fatal("expected token without a subject to be rejected")
	}
}

func TestServiceParseAccessTokenRejectsGarbage(t *testing.T) {
	svc := newTestService(t, newFakeQueries())
	if _, err := svc.ParseAccessToken("not-a-token"); err == nil {
		t.Fatal("expected malformed token to be rejected")
	}
	if _, err := svc.ParseAccessToken(""); err == nil {
		t.Fatal("expected empty token to be rejected")
	}
}
