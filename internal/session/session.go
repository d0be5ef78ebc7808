// Package session resolves the current identity for role-gated views.
//
// The resolver is deliberately dumb: one fetch per Load, no retry, no cache
// across views. Staleness is handled with a generation counter so a response
// that lands after the consuming view has moved on (or after Invalidate) is
// discarded instead of applied.
package session

import (
	"context"
	"sync"

	"opsdash-cli/internal/api"
	"opsdash-cli/internal/model"
)

// TokenReader is the read-only slice of the credential store the resolver
// needs for its no-token short-circuit.
type TokenReader interface {
	Token() (string, bool)
}

type Resolver struct {
	client *api.Client
	creds  TokenReader

	mu       sync.Mutex
	gen      uint64
	loading  bool
	identity *model.Identity
	lastErr  string
}

func NewResolver(client *api.Client, creds TokenReader) *Resolver {
	return &Resolver{client: client, creds: creds}
}

// Load fetches the current identity. With no token present it resolves
// immediately (zero network calls, identity absent). A Load superseded by a
// newer Load or by Invalidate leaves the resolver state untouched.
func (r *Resolver) Load(ctx context.Context) {
	r.mu.Lock()
	r.gen++
	gen := r.gen

	if _, ok := r.creds.Token(); !ok {
		r.identity = nil
		r.lastErr = ""
		r.loading = false
		r.mu.Unlock()
		return
	}
	r.loading = true
	r.lastErr = ""
	r.mu.Unlock()

	me, err := r.client.Me(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.gen {
		// A newer Load or an Invalidate won; this response is stale.
		return
	}
	r.loading = false
	if err != nil {
		r.identity = nil
		r.lastErr = errText(err)
		return
	}
	// me == nil covers the strict-401 sentinel: signed out.
	r.identity = me
	r.lastErr = ""
}

// Invalidate discards any in-flight Load and clears the cached identity.
// Called on logout and after the token changes.
func (r *Resolver) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gen++
	r.identity = nil
	r.lastErr = ""
	r.loading = false
}

func (r *Resolver) Identity() *model.Identity {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.identity
}

func (r *Resolver) Loading() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loading
}

func (r *Resolver) LastError() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}

func errText(err error) string {
	if err == nil || err.Error() == "" {
		return "something went wrong"
	}
	return err.Error()
}
