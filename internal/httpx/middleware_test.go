package httpx

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ariefcatur/go-storefront.git/internal/auth"
)

func TestRequireAdmin(t *testing.T) {
	a := &Auth{Secret: "topsecret"}
	called := false
	h := a.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	// no token
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if called {
		t.Fatal("handler ran without a token")
	}
	if !strings.Contains(rec.Body.String(), msgNotAuthorized) {
		t.Errorf("body = %s", rec.Body.String())
	}

	// shopper token must not open admin routes
	userToken, err := auth.UserToken("topsecret", "user-1")
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("token", userToken)
	h.ServeHTTP(httptest.NewRecorder(), req)
	if called {
		t.Fatal("handler ran with a shopper token")
	}

	adminToken, err := auth.AdminToken("topsecret", "admin@shop.test")
	if err != nil {
		t.Fatal(err)
	}
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("token", adminToken)
	h.ServeHTTP(httptest.NewRecorder(), req)
	if !called {
		t.Fatal("handler did not run with an admin token")
	}
}

func TestRequireUserRejectsGarbageToken(t *testing.T) {
	a := &Auth{Secret: "topsecret"}
	h := a.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("token", "not-a-jwt")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if !strings.Contains(rec.Body.String(), msgNotAuthorized) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestUserIDMissing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := UserID(req.Context()); got != "" {
		t.Errorf("UserID = %q, want empty", got)
	}
}
