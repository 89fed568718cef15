package core

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/latticehq/lattice/config"
)

func TestRequestTokensBearerFallback(t *testing.T) {
	cfg := config.NewDefaultConfig().Session

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer header-token")

	accessToken, refreshToken := requestTokens(req, cfg)
	if accessToken != "header-token" {
		t.Errorf("expected the bearer token, got %q", accessToken)
	}
	if refreshToken != "" {
		t.Errorf("a bearer header carries no refresh token, got %q", refreshToken)
	}
}

func TestRequestTokensCookieWinsOverHeader(t *testing.T) {
	cfg := config.NewDefaultConfig().Session

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: cfg.AccessCookieName, Value: "cookie-token"})
	req.Header.Set("Authorization", "Bearer header-token")

	accessToken, _ := requestTokens(req, cfg)
	if accessToken != "cookie-token" {
		t.Errorf("expected the cookie token, got %q", accessToken)
	}
}

func TestRequireAuth(t *testing.T) {
	app := newTestApp(nil, nil)

	var reached bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
	})

	rr := httptest.NewRecorder()
	app.RequireAuth(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if !reached {
		t.Error("expected an authenticated request to pass through")
	}

	authFailure(app, errorNoSession)
	reached = false
	rr = httptest.NewRecorder()
	app.RequireAuth(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if reached {
		t.Error("expected an unauthenticated request to be blocked")
	}
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
	}
}

func TestRecoverer(t *testing.T) {
	app := newTestApp(nil, nil)

	panics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rr := httptest.NewRecorder()
	app.Recoverer(panics).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), CodeErrorInternal) {
		t.Errorf("expected code %q in body %q", CodeErrorInternal, rr.Body.String())
	}
}

func TestChainOrder(t *testing.T) {
	var order []string
	mw := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	})

	chain := NewChain(h).WithMiddleware(mw("first"), mw("second"))
	chain.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	want := []string{"first", "second", "handler"}
	if len(order) != len(want) {
		t.Fatalf("expected order %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, order)
		}
	}
}
