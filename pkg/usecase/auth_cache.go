package usecase

import (
	"context"
	"crypto/subtle"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/issueboard/pkg/domain/model/auth"
)

const authCacheTTL = 5 * time.Minute

type cachedToken struct {
	token   *auth.Token
	validTo time.Time
}

// authCache keeps validated tokens for a short while so that every request
// does not hit the store. An entry never outlives its token.
type authCache struct {
	mu      sync.RWMutex
	entries map[auth.TokenID]cachedToken
	now     func() time.Time
}

func newAuthCache() *authCache {
	return &authCache{
		entries: make(map[auth.TokenID]cachedToken),
		now:     time.Now,
	}
}

func (c *authCache) get(tokenID auth.TokenID) (*auth.Token, bool) {
	c.mu.RLock()
	entry, ok := c.entries[tokenID]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if c.now().After(entry.validTo) {
		c.remove(tokenID)
		return nil, false
	}
	return entry.token, true
}

func (c *authCache) set(token *auth.Token) {
	validTo := c.now().Add(authCacheTTL)
	if !token.ExpiresAt.IsZero() && token.ExpiresAt.Before(validTo) {
		validTo = token.ExpiresAt
	}

	c.mu.Lock()
	c.entries[token.ID] = cachedToken{token: token, validTo: validTo}
	c.mu.Unlock()
}

func (c *authCache) remove(tokenID auth.TokenID) {
	c.mu.Lock()
	delete(c.entries, tokenID)
	c.mu.Unlock()
}

func secretMatches(token *auth.Token, secret auth.TokenSecret) bool {
	return subtle.ConstantTimeCompare([]byte(token.Secret), []byte(secret)) == 1
}

func (uc *AuthUseCase) validateTokenWithCache(ctx context.Context, tokenID auth.TokenID, tokenSecret auth.TokenSecret) (*auth.Token, error) {
	if err := tokenID.Validate(); err != nil {
		return nil, err
	}

	if token, ok := uc.cache.get(tokenID); ok {
		if !secretMatches(token, tokenSecret) {
			return nil, goerr.New("invalid token secret")
		}
		return token, nil
	}

	token, err := uc.repo.GetToken(ctx, tokenID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get token from repository")
	}

	if !secretMatches(token, tokenSecret) {
		return nil, goerr.New("invalid token secret")
	}

	if token.IsExpired() {
		if err := uc.repo.DeleteToken(ctx, tokenID); err != nil {
			return nil, goerr.Wrap(err, "failed to delete expired token", goerr.V("token_id", tokenID))
		}
		return nil, goerr.New("token expired")
	}

	uc.cache.set(token)
	return token, nil
}
