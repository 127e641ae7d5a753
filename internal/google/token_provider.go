package google

import (
	"log/slog"
	"sync"

	"golang.org/x/oauth2"
)

// PersistingTokenSource wraps a token source and writes every new token to
// disk. A failed write is logged and the token is still returned.
type PersistingTokenSource struct {
	base oauth2.TokenSource
	path string

	mu        sync.Mutex
	last      string
	onRefresh func(err error)
}

// TokenSourceOption configures a PersistingTokenSource.
type TokenSourceOption func(*PersistingTokenSource)

// WithRefreshHook registers fn to run after every refresh attempt. err is nil
// when a new access token was obtained.
func WithRefreshHook(fn func(err error)) TokenSourceOption {
	return func(p *PersistingTokenSource) {
		p.onRefresh = fn
	}
}

// NewPersistingTokenSource creates a PersistingTokenSource. initial is the
// token already on disk, if any.
func NewPersistingTokenSource(base oauth2.TokenSource, path string, initial *oauth2.Token, opts ...TokenSourceOption) *PersistingTokenSource {
	p := &PersistingTokenSource{base: base, path: path}
	if initial != nil {
		p.last = initial.AccessToken
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Token implements oauth2.TokenSource.
func (p *PersistingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := p.base.Token()
	if err != nil {
		p.notify(err)
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if tok.AccessToken != p.last {
		p.notify(nil)
		if err := SaveToken(p.path, tok); err != nil {
			slog.Warn("failed to persist refreshed google token", "path", p.path, "error", err)
		} else {
			p.last = tok.AccessToken
		}
	}
	return tok, nil
}

func (p *PersistingTokenSource) notify(err error) {
	if p.onRefresh != nil {
		p.onRefresh(err)
	}
}
