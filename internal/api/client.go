package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"
)

// UnauthorizedPolicy controls what a 401 response does to the session.
type UnauthorizedPolicy int

const (
	// UnauthorizedRedirect drops the stored credential, fires the logout hook
	// (the TUI swaps to the login view) and resolves the call to a nil body
	// with no error, short-circuiting the caller. Only requests that carried
	// the bearer token are treated this way: a 401 on an unauthenticated call
	// (wrong login credentials) is an application error and propagates.
	UnauthorizedRedirect UnauthorizedPolicy = iota
	// UnauthorizedPropagate returns the decoded error to the caller. Used when
	// the persisted debug override is active so diagnostic flows can render
	// the raw failure.
	UnauthorizedPropagate
)

// Error is a non-2xx API response. Message is the backend's `detail` field
// when the body is a JSON object carrying one, the raw body when it is plain
// text, and a generic fallback otherwise.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

// Credentials is the slice of the preference store the client needs.
// Only the login/logout paths write the token; the client itself clears it
// on a strict-policy 401.
type Credentials interface {
	Token() (string, bool)
	SetToken(string)
}

// Client is the authenticated fetch layer shared by every view and command.
type Client struct {
	base   string
	http   *http.Client
	creds  Credentials
	policy UnauthorizedPolicy

	// onLogout runs after a strict-policy 401 has cleared the credential.
	onLogout func()
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithUnauthorizedPolicy(p UnauthorizedPolicy) Option {
	return func(c *Client) { c.policy = p }
}

// WithLogoutHook registers the navigation hook invoked by the strict 401
// policy (e.g. switch the TUI to the login view).
func WithLogoutHook(fn func()) Option {
	return func(c *Client) { c.onLogout = fn }
}

// New builds a client against baseURL (trailing slash trimmed; empty means
// relative paths, useful behind a local proxy).
func New(baseURL string, creds Credentials, opts ...Option) *Client {
	c := &Client{
		base:   strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:   &http.Client{Timeout: 30 * time.Second},
		creds:  creds,
		policy: UnauthorizedRedirect,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) BaseURL() string { return c.base }

// Request performs one API call and returns the decoded body: a JSON value
// for application/json responses, a string for anything else, nil when the
// body cannot be decoded. Non-2xx responses surface as *Error. A 401 on an
// authenticated request under the redirect policy returns (nil, nil) after
// clearing the credential.
func (c *Client) Request(ctx context.Context, method, path string, body any, hdr http.Header) (any, error) {
	status, decoded, authed, err := c.do(ctx, method, path, body, hdr)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized && authed && c.policy == UnauthorizedRedirect {
		c.creds.SetToken("")
		if c.onLogout != nil {
			c.onLogout()
		}
		return nil, nil
	}
	if status < 200 || status > 299 {
		return nil, &Error{Status: status, Message: errorMessage(decoded)}
	}
	return decoded, nil
}

// JSON is Request with the success body unmarshalled into out (ignored when
// out is nil or the body is not JSON-decodable, mirroring the null-body
// degradation of the generic path).
func (c *Client) JSON(ctx context.Context, method, path string, body any, out any) error {
	decoded, err := c.Request(ctx, method, path, body, nil)
	if err != nil {
		return err
	}
	if out == nil || decoded == nil {
		return nil
	}
	raw, err := json.Marshal(decoded)
	if err != nil {
		return nil
	}
	_ = json.Unmarshal(raw, out)
	return nil
}

// do runs the request and reports whether it carried the bearer token; the
// 401 policy only applies to authenticated calls.
func (c *Client) do(ctx context.Context, method, path string, body any, hdr http.Header) (int, any, bool, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, nil, false, err
		}
		rd = bytes.NewReader(b)
	}

	url := path
	if c.base != "" {
		url = c.base + path
	}
	req, err := http.NewRequestWithContext(ctx, method, url, rd)
	if err != nil {
		return 0, nil, false, err
	}

	for k, vs := range hdr {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	authed := false
	if tok, ok := c.creds.Token(); ok {
		req.Header.Set("Authorization", "Bearer "+tok)
		authed = true
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, authed, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		// Unreadable body degrades to nil, not a hard error.
		return resp.StatusCode, nil, authed, nil
	}

	var decoded any
	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			decoded = nil
		}
	} else {
		decoded = string(raw)
	}
	return resp.StatusCode, decoded, authed, nil
}

func errorMessage(decoded any) string {
	switch v := decoded.(type) {
	case string:
		if v != "" {
			return v
		}
	case map[string]any:
		if d, ok := v["detail"].(string); ok && d != "" {
			return d
		}
	}
	return "request failed"
}
