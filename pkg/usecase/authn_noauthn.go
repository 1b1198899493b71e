package usecase

import (
	"context"

	"github.com/secmon-lab/issueboard/pkg/domain/model/auth"
)

// Identity used when the server runs without authentication
const (
	DevUserEmail = "developer@localhost"
	DevUserName  = "Developer"
)

// NoAuthnUseCase provides authentication using a specified user (for development/testing)
type NoAuthnUseCase struct {
	email string
	name  string
}

var _ AuthUseCaseInterface = &NoAuthnUseCase{}

// NewNoAuthnUseCase creates a new NoAuthnUseCase instance with specified user info
func NewNoAuthnUseCase(email, name string) *NoAuthnUseCase {
	return &NoAuthnUseCase{
		email: email,
		name:  name,
	}
}

// IssueToken returns a token for the configured user without storing it
func (uc *NoAuthnUseCase) IssueToken(ctx context.Context, email, name string) (*auth.Token, error) {
	return auth.NewToken(uc.email, uc.name), nil
}

// ValidateToken always returns a token for the specified user
func (uc *NoAuthnUseCase) ValidateToken(ctx context.Context, tokenID auth.TokenID, tokenSecret auth.TokenSecret) (*auth.Token, error) {
	return auth.NewToken(uc.email, uc.name), nil
}

// Logout does nothing in no-auth mode
func (uc *NoAuthnUseCase) Logout(ctx context.Context, tokenID auth.TokenID) error {
	return nil
}

// IsNoAuthn returns true for NoAuthnUseCase
func (uc *NoAuthnUseCase) IsNoAuthn() bool {
	return true
}

// User returns the configured identity
func (uc *NoAuthnUseCase) User() (email, name string) {
	return uc.email, uc.name
}
