package interfaces

import (
	"context"
	"errors"
	"time"

	"github.com/secmon-lab/issueboard/pkg/domain/model/auth"
)

// Repository defines the interface for data persistence
type Repository interface {
	Issue() IssueRepository

	// Auth methods
	PutToken(ctx context.Context, token *auth.Token) error
	GetToken(ctx context.Context, tokenID auth.TokenID) (*auth.Token, error)
	DeleteToken(ctx context.Context, tokenID auth.TokenID) error
	// PruneTokens deletes tokens that expired before the given time and returns how many were removed
	PruneTokens(ctx context.Context, before time.Time) (int, error)

	Close() error
}

// ErrNotFound is wrapped by every repository implementation when a record does not exist
var ErrNotFound = errors.New("not found")
