package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/shopit/storefront/internal/api/handler"
	"github.com/shopit/storefront/internal/core/domain"
	"github.com/shopit/storefront/internal/core/security"
)

type stubLookup struct {
	accounts map[string]*domain.Account
	err      error
}

func (s *stubLookup) FindByID(_ context.Context, id string) (*domain.Account, error) {
	if s.err != nil {
		return nil, s.err
	}
	acct, ok := s.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return acct, nil
}

func testTokens(t *testing.T) *security.SessionTokens {
	t.Helper()
	return security.NewSessionTokens(&security.Params{
		SigningKey:  []byte("middleware-test-signing-key-0123456789"),
		SessionTTL:  time.Hour,
		BcryptCost:  4,
		RecoveryTTL: time.Minute,
	})
}

func issue(t *testing.T, tokens *security.SessionTokens, id string) string {
	t.Helper()
	tok, _, err := tokens.Issue(id)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return tok
}

func run(mw echo.MiddlewareFunc, req *http.Request) (*domain.Account, bool, error) {
	e := echo.New()
	c := e.NewContext(req, httptest.NewRecorder())

	var seen *domain.Account
	called := false
	err := mw(func(c echo.Context) error {
		called = true
		seen, _ = handler.CurrentAccount(c)
		return nil
	})(c)
	return seen, called, err
}

func TestAuthenticate_CookieToken(t *testing.T) {
	tokens := testTokens(t)
	acct := &domain.Account{ID: "acct-1", Role: domain.RoleUser}
	mw := Authenticate(tokens, &stubLookup{accounts: map[string]*domain.Account{"acct-1": acct}}, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: handler.SessionCookie, Value: issue(t, tokens, "acct-1")})

	seen, called, err := run(mw, req)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called || seen != acct {
		t.Fatalf("expected next with account set, called=%v seen=%v", called, seen)
	}
}

func TestAuthenticate_BearerToken(t *testing.T) {
	tokens := testTokens(t)
	acct := &domain.Account{ID: "acct-1"}
	mw := Authenticate(tokens, &stubLookup{accounts: map[string]*domain.Account{"acct-1": acct}}, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+issue(t, tokens, "acct-1"))

	if _, called, err := run(mw, req); err != nil || !called {
		t.Fatalf("expected success, err=%v called=%v", err, called)
	}
}

func TestAuthenticate_CookieWinsOverHeader(t *testing.T) {
	tokens := testTokens(t)
	mw := Authenticate(tokens, &stubLookup{accounts: map[string]*domain.Account{
		"acct-1": {ID: "acct-1"},
		"acct-2": {ID: "acct-2"},
	}}, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: handler.SessionCookie, Value: issue(t, tokens, "acct-1")})
	req.Header.Set("Authorization", "Bearer "+issue(t, tokens, "acct-2"))

	seen, _, err := run(mw, req)
	if err != nil || seen == nil || seen.ID != "acct-1" {
		t.Fatalf("expected cookie account, got %v (%v)", seen, err)
	}
}

func TestAuthenticate_Rejections(t *testing.T) {
	tokens := testTokens(t)
	other := security.NewSessionTokens(&security.Params{
		SigningKey: []byte("some-other-signing-key-abcdefghijklmn"), SessionTTL: time.Hour, BcryptCost: 4, RecoveryTTL: time.Minute,
	})
	lookup := &stubLookup{accounts: map[string]*domain.Account{"acct-1": {ID: "acct-1"}}}

	tests := []struct {
		name   string
		header string
		reason error
	}{
		{"missing", "", domain.ErrTokenMissing},
		{"wrong scheme", "Token abc", domain.ErrTokenMissing},
		{"malformed", "Bearer not-a-token", domain.ErrTokenMalformed},
		{"foreign key", "Bearer " + issue(t, other, "acct-1"), domain.ErrTokenSignature},
		{"account gone", "Bearer " + issue(t, tokens, "acct-9"), domain.ErrAccountNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}

			_, called, err := run(Authenticate(tokens, lookup, zerolog.Nop()), req)
			if called {
				t.Fatal("should not reach next")
			}
			var de *domain.Error
			if !errors.As(err, &de) || de.Kind != domain.KindAuthentication {
				t.Fatalf("expected authentication error, got %v", err)
			}
			if de.Message != domain.MsgLoginRequired {
				t.Fatalf("expected uniform message, got %q", de.Message)
			}
			if !errors.Is(err, tc.reason) {
				t.Fatalf("expected reason %v, got %v", tc.reason, err)
			}
		})
	}
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	tokens := testTokens(t).WithClock(func() time.Time { return now })
	tok := issue(t, tokens, "acct-1")
	later := testTokens(t).WithClock(func() time.Time { return now.Add(2 * time.Hour) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)

	_, _, err := run(Authenticate(later, &stubLookup{}, zerolog.Nop()), req)
	if !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected expired reason, got %v", err)
	}
}

func TestAuthenticate_StorageFailureIsInternal(t *testing.T) {
	tokens := testTokens(t)
	mw := Authenticate(tokens, &stubLookup{err: errors.New("mongo timeout")}, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+issue(t, tokens, "acct-1"))

	_, called, err := run(mw, req)
	if called || domain.KindOf(err) != domain.KindInternal {
		t.Fatalf("expected internal error, got %v (called=%v)", err, called)
	}
}
