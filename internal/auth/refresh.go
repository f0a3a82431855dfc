package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

// expiryBuffer refreshes tokens this long before they expire.
const expiryBuffer = 60 * time.Second

// TokenStore persists refreshed tokens.
type TokenStore interface {
	UpdateTokens(ctx context.Context, accessToken, refreshToken string, expiresAt time.Time) error
}

// TokenSource is an oauth2.TokenSource that refreshes the token shortly
// before expiry and writes every new token to a TokenStore.
type TokenSource struct {
	ctx    context.Context
	config *oauth2.Config
	store  TokenStore
	now    func() time.Time

	mu    sync.Mutex
	token *oauth2.Token
}

// NewTokenSource creates a TokenSource starting from token. ctx is used for
// refresh requests.
func NewTokenSource(ctx context.Context, cfg *oauth2.Config, token *oauth2.Token, store TokenStore) *TokenSource {
	return &TokenSource{
		ctx:    ctx,
		config: cfg,
		store:  store,
		now:    time.Now,
		token:  token,
	}
}

// Token returns a valid token, refreshing if necessary
func (ts *TokenSource) Token() (*oauth2.Token, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if !ts.expiringLocked() {
		return ts.token, nil
	}

	// Only the refresh token is passed so the oauth2 package cannot hand
	// back the cached access token.
	src := ts.config.TokenSource(ts.ctx, &oauth2.Token{RefreshToken: ts.token.RefreshToken})
	newToken, err := src.Token()
	if err != nil {
		return nil, fmt.Errorf("refreshing token: %w", err)
	}
	if newToken.RefreshToken == "" {
		newToken.RefreshToken = ts.token.RefreshToken
	}

	if ts.store != nil {
		if err := ts.store.UpdateTokens(ts.ctx, newToken.AccessToken, newToken.RefreshToken, newToken.Expiry); err != nil {
			return nil, fmt.Errorf("saving refreshed token: %w", err)
		}
	}

	ts.token = newToken
	return newToken, nil
}

// IsExpired checks if the current token is expired or will expire within the buffer
func (ts *TokenSource) IsExpired() bool {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.expiringLocked()
}

func (ts *TokenSource) expiringLocked() bool {
	return ts.token.AccessToken == "" || ts.token.Expiry.Sub(ts.now()) <= expiryBuffer
}
