package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSignAndParse(t *testing.T) {
	tokens := NewTokens("secret")

	tok, err := tokens.Sign(Identity{Email: "user@example.com", Name: "Ada"}, time.Hour)
	if err != nil {
		t.Fatalf("Sign returned error: %v", err)
	}

	id, err := tokens.Parse(tok)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if id.Email != "user@example.com" || id.Name != "Ada" {
		t.Fatalf("unexpected identity %+v", id)
	}
}

func TestParse_Rejects(t *testing.T) {
	tokens := NewTokens("secret")
	good, _ := tokens.Sign(Identity{Email: "user@example.com"}, time.Hour)

	other := NewTokens("other-secret")
	if _, err := other.Parse(good); err == nil {
		t.Error("expected signature mismatch to fail")
	}

	expired := NewTokens("secret")
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _ := expired.Sign(Identity{Email: "user@example.com"}, time.Hour)
	if _, err := tokens.Parse(old); err == nil {
		t.Error("expected expired token to fail")
	}

	noEmail, _ := tokens.Sign(Identity{}, time.Hour)
	if _, err := tokens.Parse(noEmail); err == nil {
		t.Error("expected token without email to fail")
	}

	if _, err := tokens.Parse("not-a-token"); err == nil {
		t.Error("expected garbage to fail")
	}
}

func TestWithAuth(t *testing.T) {
	tokens := NewTokens("secret")
	tok, _ := tokens.Sign(Identity{Email: "user@example.com"}, time.Hour)

	var got Identity
	var ok bool
	h := tokens.WithAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = IdentityFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	h.ServeHTTP(httptest.NewRecorder(), req)
	if !ok || got.Email != "user@example.com" {
		t.Fatalf("expected identity in context, got %+v %v", got, ok)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if ok {
		t.Fatal("expected no identity for an invalid token")
	}
}
