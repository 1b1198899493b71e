package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/issueboard/pkg/domain/model/auth"
)

// tokenStore keeps tokens by value so callers never share state with the store
type tokenStore struct {
	mu     sync.RWMutex
	tokens map[auth.TokenID]auth.Token
}

func newTokenStore() *tokenStore {
	return &tokenStore{
		tokens: make(map[auth.TokenID]auth.Token),
	}
}

func tokenNotFound(id auth.TokenID) error {
	return goerr.Wrap(ErrNotFound, "token not found", goerr.V("token_id", id))
}

func (m *Memory) PutToken(ctx context.Context, token *auth.Token) error {
	if err := token.Validate(); err != nil {
		return goerr.Wrap(err, "invalid token")
	}

	m.tokens.mu.Lock()
	defer m.tokens.mu.Unlock()
	m.tokens.tokens[token.ID] = *token
	return nil
}

func (m *Memory) GetToken(ctx context.Context, tokenID auth.TokenID) (*auth.Token, error) {
	if err := tokenID.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid token ID")
	}

	m.tokens.mu.RLock()
	token, ok := m.tokens.tokens[tokenID]
	m.tokens.mu.RUnlock()
	if !ok {
		return nil, tokenNotFound(tokenID)
	}
	return &token, nil
}

func (m *Memory) DeleteToken(ctx context.Context, tokenID auth.TokenID) error {
	if err := tokenID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid token ID")
	}

	m.tokens.mu.Lock()
	defer m.tokens.mu.Unlock()
	if _, ok := m.tokens.tokens[tokenID]; !ok {
		return tokenNotFound(tokenID)
	}
	delete(m.tokens.tokens, tokenID)
	return nil
}

func (m *Memory) PruneTokens(ctx context.Context, before time.Time) (int, error) {
	m.tokens.mu.Lock()
	defer m.tokens.mu.Unlock()

	pruned := 0
	for id, token := range m.tokens.tokens {
		if token.ExpiresAt.IsZero() || !token.ExpiresAt.Before(before) {
			continue
		}
		delete(m.tokens.tokens, id)
		pruned++
	}
	return pruned, nil
}
