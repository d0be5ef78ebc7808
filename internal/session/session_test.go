package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"opsdash-cli/internal/api"
)

type fakeCreds struct {
	token string
}

func (f *fakeCreds) Token() (string, bool) { return f.token, f.token != "" }
func (f *fakeCreds) SetToken(t string)     { f.token = t }

func TestLoadWithoutTokenMakesNoCalls(t *testing.T) {
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
	}))
	defer srv.Close()

	creds := &fakeCreds{}
	r := NewResolver(api.New(srv.URL, creds), creds)
	r.Load(context.Background())

	if n := atomic.LoadInt64(&calls); n != 0 {
		t.Fatalf("expected zero network calls, got %d", n)
	}
	if r.Identity() != nil {
		t.Fatalf("identity should be absent")
	}
	if r.LastError() != "" {
		t.Fatalf("no error expected, got %q", r.LastError())
	}
}

func TestLoadStoresIdentity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"u1","email":"a@b.c","first_name":"Ada","last_name":"L","role":"ADMIN","is_active":true,"email_verified":true,"theme":"dark"}`))
	}))
	defer srv.Close()

	creds := &fakeCreds{token: "tok"}
	r := NewResolver(api.New(srv.URL, creds), creds)
	r.Load(context.Background())

	me := r.Identity()
	if me == nil || me.ID != "u1" || me.Role != "ADMIN" {
		t.Fatalf("unexpected identity: %+v", me)
	}
	if r.Loading() {
		t.Fatalf("loading should be false after completion")
	}
}

func TestLoadFailureClearsIdentityAndStoresError(t *testing.T) {
	fail := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"detail":"db down"}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":"u1","email":"a@b.c","first_name":"A","last_name":"B","role":"USER","is_active":true,"email_verified":false,"theme":"dark"}`))
	}))
	defer srv.Close()

	creds := &fakeCreds{token: "tok"}
	r := NewResolver(api.New(srv.URL, creds), creds)

	r.Load(context.Background())
	if r.Identity() == nil {
		t.Fatalf("expected identity after first load")
	}

	fail = true
	r.Load(context.Background())
	if r.Identity() != nil {
		t.Fatalf("failure should clear identity")
	}
	if r.LastError() != "db down" {
		t.Fatalf("expected error message from detail, got %q", r.LastError())
	}
}

func TestStaleResponseDiscardedAfterInvalidate(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"u1","email":"a@b.c","first_name":"A","last_name":"B","role":"USER","is_active":true,"email_verified":false,"theme":"dark"}`))
	}))
	defer srv.Close()

	creds := &fakeCreds{token: "tok"}
	r := NewResolver(api.New(srv.URL, creds), creds)

	done := make(chan struct{})
	go func() {
		r.Load(context.Background())
		close(done)
	}()

	// Tear the view down while the response is still in flight.
	<-started
	r.Invalidate()
	close(release)
	<-done

	if r.Identity() != nil {
		t.Fatalf("stale in-flight response must be discarded, got %+v", r.Identity())
	}
}
