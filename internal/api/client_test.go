package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakeCreds struct {
	token string
}

func (f *fakeCreds) Token() (string, bool) { return f.token, f.token != "" }
func (f *fakeCreds) SetToken(t string)     { f.token = t }

func TestRequestDecodesJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"a":1}`))
	}))
	defer srv.Close()

	c := New(srv.URL, &fakeCreds{})
	got, err := c.Request(context.Background(), http.MethodGet, "/x", nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m, ok := got.(map[string]any)
	if !ok {
		t.Fatalf("expected JSON object, got %T", got)
	}
	if m["a"] != float64(1) {
		t.Fatalf("expected a=1, got %v", m["a"])
	}
}

func TestRequestExtractsDetailFromJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"not found"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, &fakeCreds{})
	_, err := c.Request(context.Background(), http.MethodGet, "/x", nil, nil)
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if apiErr.Status != http.StatusNotFound || apiErr.Message != "not found" {
		t.Fatalf("got status=%d message=%q", apiErr.Status, apiErr.Message)
	}
}

func TestRequestUsesTextBodyAsErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer srv.Close()

	c := New(srv.URL, &fakeCreds{})
	_, err := c.Request(context.Background(), http.MethodGet, "/x", nil, nil)
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if apiErr.Message != "boom" {
		t.Fatalf("expected message boom, got %q", apiErr.Message)
	}
}

func TestRequestGenericMessageForOpaqueError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`[1,2,3]`))
	}))
	defer srv.Close()

	c := New(srv.URL, &fakeCreds{})
	_, err := c.Request(context.Background(), http.MethodGet, "/x", nil, nil)
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if apiErr.Message != "request failed" {
		t.Fatalf("expected generic message, got %q", apiErr.Message)
	}
}

func TestMalformedJSONDegradesToNilBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"a":`))
	}))
	defer srv.Close()

	c := New(srv.URL, &fakeCreds{})
	got, err := c.Request(context.Background(), http.MethodGet, "/x", nil, nil)
	if err != nil {
		t.Fatalf("decode failure must not raise, got %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil body, got %v", got)
	}
}

func TestBearerAndContentTypeHeaders(t *testing.T) {
	var gotAuth, gotCT string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotCT = r.Header.Get("Content-Type")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(srv.URL, &fakeCreds{token: "tok-1"})
	if _, err := c.Request(context.Background(), http.MethodPost, "/x", map[string]any{"k": "v"}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer tok-1" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
	if gotCT != "application/json" {
		t.Fatalf("expected json content type, got %q", gotCT)
	}

	hdr := http.Header{}
	hdr.Set("Content-Type", "text/plain")
	if _, err := c.Request(context.Background(), http.MethodPost, "/x", nil, hdr); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotCT != "text/plain" {
		t.Fatalf("caller override should win, got %q", gotCT)
	}
}

func TestStrictPolicyClearsTokenAndFiresLogout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"token expired"}`))
	}))
	defer srv.Close()

	creds := &fakeCreds{token: "stale"}
	loggedOut := false
	c := New(srv.URL, creds, WithLogoutHook(func() { loggedOut = true }))

	got, err := c.Request(context.Background(), http.MethodGet, "/auth/me", nil, nil)
	if err != nil {
		t.Fatalf("strict 401 must resolve to the nil sentinel, got %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil sentinel body, got %v", got)
	}
	if creds.token != "" {
		t.Fatalf("token should be cleared")
	}
	if !loggedOut {
		t.Fatalf("logout hook should fire")
	}
}

func TestFailedLoginSurfacesBackendDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Invalid credentials"}`))
	}))
	defer srv.Close()

	// No stored token: the login request goes out unauthenticated, so the
	// strict policy must not swallow the 401 into the signed-out sentinel.
	creds := &fakeCreds{}
	loggedOut := false
	c := New(srv.URL, creds, WithLogoutHook(func() { loggedOut = true }))

	_, err := c.Login(context.Background(), "ops@example.net", "wrong")
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if apiErr.Status != http.StatusUnauthorized || apiErr.Message != "Invalid credentials" {
		t.Fatalf("got status=%d message=%q", apiErr.Status, apiErr.Message)
	}
	if loggedOut {
		t.Fatalf("logout hook must not fire for a failed login")
	}
}

func TestAuthenticated401StillRedirects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"token expired"}`))
	}))
	defer srv.Close()

	creds := &fakeCreds{token: "stale"}
	loggedOut := false
	c := New(srv.URL, creds, WithLogoutHook(func() { loggedOut = true }))

	token, err := c.Login(context.Background(), "ops@example.net", "pw")
	if err != nil || token != "" {
		t.Fatalf("expected sentinel, got token=%q err=%v", token, err)
	}
	if creds.token != "" || !loggedOut {
		t.Fatalf("token-bearing 401 should clear the session")
	}
}

func TestPropagatePolicyReturnsUnauthorizedError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"token expired"}`))
	}))
	defer srv.Close()

	creds := &fakeCreds{token: "stale"}
	loggedOut := false
	c := New(srv.URL, creds,
		WithUnauthorizedPolicy(UnauthorizedPropagate),
		WithLogoutHook(func() { loggedOut = true }))

	_, err := c.Request(context.Background(), http.MethodGet, "/auth/me", nil, nil)
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if apiErr.Status != http.StatusUnauthorized || apiErr.Message != "token expired" {
		t.Fatalf("got status=%d message=%q", apiErr.Status, apiErr.Message)
	}
	if creds.token == "" || loggedOut {
		t.Fatalf("propagate policy must not touch the session")
	}
}

func TestBaseURLTrailingSlashTrimmed(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(srv.URL+"/", &fakeCreds{})
	if _, err := c.Request(context.Background(), http.MethodGet, "/events/", nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/events/" {
		t.Fatalf("expected /events/, got %q", gotPath)
	}
}
