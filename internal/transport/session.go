package transport

import (
	"errors"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/oauth2"
)

// SessionGuard supplies the credential attached to every request and is told
// when the backend rejects it. Acquiring the credential (sign-in flows) is the
// host's job.
type SessionGuard interface {
	AttachCredential(req *http.Request) error
	OnUnauthenticated()
}

var ErrNoCredential = errors.New("no credential configured")

// BearerGuard attaches "Authorization: Bearer <token>" from a token source.
type BearerGuard struct {
	source         oauth2.TokenSource
	onUnauthorized func()
}

// NewBearerGuard wraps a fixed access token. onUnauthenticated may be nil.
func NewBearerGuard(token string, onUnauthenticated func()) *BearerGuard {
	var source oauth2.TokenSource
	if token != "" {
		source = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	}
	return NewTokenSourceGuard(source, onUnauthenticated)
}

func NewTokenSourceGuard(source oauth2.TokenSource, onUnauthenticated func()) *BearerGuard {
	return &BearerGuard{source: source, onUnauthorized: onUnauthenticated}
}

func (g *BearerGuard) AttachCredential(req *http.Request) error {
	if g.source == nil {
		return ErrNoCredential
	}
	tok, err := g.source.Token()
	if err != nil {
		return fmt.Errorf("failed to obtain token: %w", err)
	}
	if !tok.Valid() {
		return ErrNoCredential
	}
	tok.SetAuthHeader(req)
	return nil
}

func (g *BearerGuard) OnUnauthenticated() {
	if g.onUnauthorized != nil {
		g.onUnauthorized()
	}
}

// CookieGuard attaches a session cookie issued by the backend's sign-in flow.
type CookieGuard struct {
	name           string
	mu             sync.RWMutex
	value          string
	onUnauthorized func()
}

func NewCookieGuard(name, value string, onUnauthenticated func()) *CookieGuard {
	if name == "" {
		name = "session"
	}
	return &CookieGuard{name: name, value: value, onUnauthorized: onUnauthenticated}
}

func (g *CookieGuard) AttachCredential(req *http.Request) error {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.value == "" {
		return ErrNoCredential
	}
	req.AddCookie(&http.Cookie{Name: g.name, Value: g.value})
	return nil
}

// OnUnauthenticated drops the stored cookie so it is not sent again.
func (g *CookieGuard) OnUnauthenticated() {
	g.mu.Lock()
	g.value = ""
	g.mu.Unlock()
	if g.onUnauthorized != nil {
		g.onUnauthorized()
	}
}
