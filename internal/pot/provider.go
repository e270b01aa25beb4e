// Package pot defines the proof-of-origin token provider contract. Token
// minting itself is external; extraction only consumes tokens and decides
// per persona whether one is mandatory.
package pot

import (
	"context"
	"strings"
	"sync"
)

// Provider supplies a proof-of-origin token for a given client persona.
// Implementations may shell out, call a sidecar service, or return a
// pre-minted token. An empty token with a nil error means "none available".
type Provider interface {
	GetToken(ctx context.Context, clientID string) (string, error)
}

// ProviderFunc adapts a plain function to a Provider.
type ProviderFunc func(ctx context.Context, clientID string) (string, error)

func (f ProviderFunc) GetToken(ctx context.Context, clientID string) (string, error) {
	return f(ctx, clientID)
}

// Static returns a Provider handing out the same token for every persona.
func Static(token string) Provider {
	return ProviderFunc(func(context.Context, string) (string, error) {
		return token, nil
	})
}

type cachedProvider struct {
	base  Provider
	mu    sync.RWMutex
	cache map[string]string
}

// NewCachedProvider wraps a Provider with in-memory client-keyed token
// caching. Empty tokens are not cached.
func NewCachedProvider(base Provider) Provider {
	if base == nil {
		return nil
	}
	return &cachedProvider{
		base:  base,
		cache: make(map[string]string),
	}
}

func (p *cachedProvider) GetToken(ctx context.Context, clientID string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(clientID))
	if key == "" {
		return p.base.GetToken(ctx, clientID)
	}

	p.mu.RLock()
	if token, ok := p.cache[key]; ok && token != "" {
		p.mu.RUnlock()
		return token, nil
	}
	p.mu.RUnlock()

	token, err := p.base.GetToken(ctx, clientID)
	if err != nil || strings.TrimSpace(token) == "" {
		return token, err
	}

	p.mu.Lock()
	p.cache[key] = token
	p.mu.Unlock()
	return token, nil
}
