package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/issueboard/pkg/domain/interfaces"
	"github.com/secmon-lab/issueboard/pkg/domain/model/auth"
	"github.com/secmon-lab/issueboard/pkg/utils/logging"
)

// AuthUseCaseInterface is implemented by AuthUseCase and NoAuthnUseCase
type AuthUseCaseInterface interface {
	IssueToken(ctx context.Context, email, name string) (*auth.Token, error)
	ValidateToken(ctx context.Context, tokenID auth.TokenID, tokenSecret auth.TokenSecret) (*auth.Token, error)
	Logout(ctx context.Context, tokenID auth.TokenID) error
	IsNoAuthn() bool
}

// AuthUseCase authenticates requests with tokens kept in the repository
type AuthUseCase struct {
	repo  interfaces.Repository
	cache *authCache
}

var _ AuthUseCaseInterface = &AuthUseCase{}

func NewAuthUseCase(repo interfaces.Repository) *AuthUseCase {
	return &AuthUseCase{
		repo:  repo,
		cache: newAuthCache(),
	}
}

// IssueToken creates and stores a session token for the user
func (uc *AuthUseCase) IssueToken(ctx context.Context, email, name string) (*auth.Token, error) {
	if email == "" {
		return nil, goerr.Wrap(ErrInvalidInput, "email is required")
	}

	token := auth.NewToken(email, name)
	if err := uc.repo.PutToken(ctx, token); err != nil {
		return nil, goerr.Wrap(err, "failed to store token")
	}

	logging.From(ctx).Info("token issued", "token_id", token.ID, "email", email, "expires_at", token.ExpiresAt)
	return token, nil
}

func (uc *AuthUseCase) ValidateToken(ctx context.Context, tokenID auth.TokenID, tokenSecret auth.TokenSecret) (*auth.Token, error) {
	token, err := uc.validateTokenWithCache(ctx, tokenID, tokenSecret)
	if err != nil {
		return nil, goerr.Wrap(ErrUnauthenticated, err.Error(), goerr.V("token_id", tokenID))
	}
	return token, nil
}

func (uc *AuthUseCase) Logout(ctx context.Context, tokenID auth.TokenID) error {
	uc.cache.remove(tokenID)
	if err := uc.repo.DeleteToken(ctx, tokenID); err != nil {
		return goerr.Wrap(err, "failed to delete token", goerr.V("token_id", tokenID))
	}
	return nil
}

// PruneExpiredTokens deletes every stored token whose lifetime has ended
func (uc *AuthUseCase) PruneExpiredTokens(ctx context.Context) (int, error) {
	pruned, err := uc.repo.PruneTokens(ctx, time.Now())
	if err != nil {
		return pruned, goerr.Wrap(err, "failed to prune expired tokens")
	}

	logging.From(ctx).Info("expired tokens pruned", "count", pruned)
	return pruned, nil
}

func (uc *AuthUseCase) IsNoAuthn() bool {
	return false
}
