package client

import (
	"context"
	"sync"
)

// WidgetHandle identifies a rendered checkbox challenge widget
type WidgetHandle string

// TokenRequest asks a provider for one token bound to Action. Handle is set
// for checkbox challenges and names the form's widget.
type TokenRequest struct {
	SiteKey string
	Action  string
	Handle  WidgetHandle
}

// TokenProvider is the challenge SDK as the controller sees it
type TokenProvider interface {
	AcquireToken(ctx context.Context, req TokenRequest) (string, error)
	Reset(handle WidgetHandle)
}

// StaticTokenProvider hands out a token obtained elsewhere, once. Tokens are
// single use, so a second acquisition fails.
type StaticTokenProvider struct {
	mu    sync.Mutex
	token string
	used  bool
}

// NewStaticTokenProvider wraps a pre-obtained token
func NewStaticTokenProvider(token string) *StaticTokenProvider {
	return &StaticTokenProvider{token: token}
}

func (p *StaticTokenProvider) AcquireToken(ctx context.Context, req TokenRequest) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.token == "" {
		return "", ErrProviderUnavailable
	}
	if p.used {
		return "", ErrChallengeFailed
	}
	p.used = true
	return p.token, nil
}

// Reset is a no-op; a spent token cannot be refreshed
func (p *StaticTokenProvider) Reset(handle WidgetHandle) {}
