package shopify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jcmexdev/order-splitter/internal/pkg/cache"
)

// ErrNoAccessToken means neither configuration nor the token store holds a token.
var ErrNoAccessToken = errors.New("no Shopify access token found; install the app to obtain one")

const (
	tokenOperation = "credentials"
	tokenKey       = "access_token"
)

// CredentialProvider resolves the Admin API token once per process: the
// configured static token wins, otherwise the token store is consulted.
// A failed lookup is retried on the next call.
type CredentialProvider struct {
	static string
	store  cache.Cache

	mu     sync.Mutex
	cached string
}

var _ TokenSource = (*CredentialProvider)(nil)

// NewCredentialProvider builds a provider. store may be nil.
func NewCredentialProvider(static string, store cache.Cache) *CredentialProvider {
	return &CredentialProvider{static: static, store: store}
}

func (p *CredentialProvider) AccessToken(ctx context.Context) (string, error) {
	if p.static != "" {
		return p.static, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cached != "" {
		return p.cached, nil
	}
	if p.store == nil {
		return "", ErrNoAccessToken
	}

	token, err := p.store.Get(ctx, p.store.GenerateKey(tokenOperation, tokenKey))
	if err != nil {
		return "", fmt.Errorf("failed to read access token: %w", err)
	}
	if token == "" {
		return "", ErrNoAccessToken
	}
	p.cached = token
	return token, nil
}

// Store primes the in-process token and persists it when a store is configured.
// A persistence failure is logged; the token stays usable for this process.
func (p *CredentialProvider) Store(ctx context.Context, token string) {
	p.mu.Lock()
	p.cached = token
	p.mu.Unlock()

	if p.store == nil {
		return
	}
	if err := p.store.Set(ctx, p.store.GenerateKey(tokenOperation, tokenKey), token, 0); err != nil {
		slog.WarnContext(ctx, "failed to persist access token", "error", err)
	}
}
