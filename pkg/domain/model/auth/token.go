package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// DefaultTokenLifetime is how long an issued token stays valid
const DefaultTokenLifetime = 7 * 24 * time.Hour

// AnonymousEmail is recorded as creator when no user is signed in
const AnonymousEmail = "Unknown"

type TokenID string

func (x TokenID) String() string { return string(x) }

func (x TokenID) Validate() error {
	if _, err := uuid.Parse(string(x)); err != nil {
		return goerr.Wrap(err, "token ID is not a UUID", goerr.V("token_id", string(x)))
	}
	return nil
}

type TokenSecret string

func (x TokenSecret) String() string { return string(x) }

// Token is a session credential. The secret is compared on every request and
// never logged.
type Token struct {
	ID        TokenID     `firestore:"id" json:"id"`
	Secret    TokenSecret `firestore:"secret" json:"-" masq:"secret"`
	Email     string      `firestore:"email" json:"email"`
	Name      string      `firestore:"name" json:"name"`
	CreatedAt time.Time   `firestore:"created_at" json:"created_at"`
	ExpiresAt time.Time   `firestore:"expires_at" json:"expires_at"`
}

// NewToken issues a token for the user with DefaultTokenLifetime
func NewToken(email, name string) *Token {
	now := time.Now().UTC()
	return &Token{
		ID:        TokenID(uuid.New().String()),
		Secret:    newSecret(),
		Email:     email,
		Name:      name,
		CreatedAt: now,
		ExpiresAt: now.Add(DefaultTokenLifetime),
	}
}

// NewAnonymousUser returns a non-persisted token for requests without a user
func NewAnonymousUser() *Token {
	return &Token{
		ID:    TokenID(uuid.Nil.String()),
		Email: AnonymousEmail,
		Name:  "Anonymous",
	}
}

func newSecret() TokenSecret {
	buf := make([]byte, 32)
	// crypto/rand.Read never returns an error on supported platforms
	_, _ = rand.Read(buf)
	return TokenSecret(hex.EncodeToString(buf))
}

func (x *Token) Validate() error {
	if err := x.ID.Validate(); err != nil {
		return err
	}
	if x.Secret == "" {
		return goerr.New("token secret is empty", goerr.V("token_id", x.ID))
	}
	if x.Email == "" {
		return goerr.New("token email is empty", goerr.V("token_id", x.ID))
	}
	return nil
}

func (x *Token) IsExpired() bool {
	return !x.ExpiresAt.IsZero() && time.Now().After(x.ExpiresAt)
}

type ctxTokenKey struct{}

func ContextWithToken(ctx context.Context, token *Token) context.Context {
	return context.WithValue(ctx, ctxTokenKey{}, token)
}

func TokenFromContext(ctx context.Context) (*Token, error) {
	token, ok := ctx.Value(ctxTokenKey{}).(*Token)
	if !ok || token == nil {
		return nil, goerr.New("token not found in context")
	}
	return token, nil
}
