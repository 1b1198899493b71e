package usecase

import (
	"github.com/secmon-lab/issueboard/pkg/domain/interfaces"
	"github.com/secmon-lab/issueboard/pkg/domain/model"
)

type UseCases struct {
	repo     interfaces.Repository
	policy   model.DetectionPolicy
	notifier interfaces.IssueNotifier

	Issue     *IssueUseCase
	Duplicate *DuplicateUseCase
	Auth      AuthUseCaseInterface
}

type Option func(*UseCases)

// WithPolicy overrides model.DefaultDetectionPolicy
func WithPolicy(policy model.DetectionPolicy) Option {
	return func(uc *UseCases) {
		uc.policy = policy
	}
}

func WithAuth(auth AuthUseCaseInterface) Option {
	return func(uc *UseCases) {
		uc.Auth = auth
	}
}

// WithNotifier enables announcements of newly created issues
func WithNotifier(notifier interfaces.IssueNotifier) Option {
	return func(uc *UseCases) {
		uc.notifier = notifier
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:   repo,
		policy: model.DefaultDetectionPolicy(),
	}

	for _, opt := range opts {
		opt(uc)
	}

	if uc.Auth == nil {
		uc.Auth = NewNoAuthnUseCase(DevUserEmail, DevUserName)
	}

	uc.Duplicate = NewDuplicateUseCase(repo, uc.policy)
	uc.Issue = NewIssueUseCase(repo, uc.Duplicate, uc.notifier)

	return uc
}

// Policy returns the detection policy in effect
func (uc *UseCases) Policy() model.DetectionPolicy {
	return uc.policy
}
