package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/questboard/questboard-api/internal/domain"
)

type UserRepository interface {
	Upsert(ctx context.Context, user domain.User) (domain.User, error)
	FindByID(ctx context.Context, id string) (domain.User, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]domain.User, error)
}

// IdentityService keeps the local users mirror in step with the identity
// provider and answers lookups for other users from it.
type IdentityService struct {
	repo    UserRepository
	timeout time.Duration
}

func NewIdentityService(repo UserRepository, timeout time.Duration) *IdentityService {
	return &IdentityService{
		repo:    repo,
		timeout: timeout,
	}
}

// Resolve mirrors the verified identity and returns the Caller passed to
// every other operation.
func (s *IdentityService) Resolve(ctx context.Context, identity domain.User) (domain.Caller, error) {
	if strings.TrimSpace(identity.ID) == "" {
		return domain.Caller{}, ErrUnauthenticated
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	user, err := s.repo.Upsert(ctx, identity)
	if err != nil {
		return domain.Caller{}, fmt.Errorf("s.repo.Upsert -> %w", unavailable(err))
	}

	return domain.Caller{
		UserID:      user.ID,
		DisplayName: user.Name(),
		IsReviewer:  user.IsReviewer,
	}, nil
}

func (s *IdentityService) GetUser(ctx context.Context, id string) (domain.User, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", unavailable(err))
	}

	return user, nil
}

func (s *IdentityService) IsReviewer(ctx context.Context, id string) (bool, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return false, nil
		}

		return false, err
	}

	return user.IsReviewer, nil
}

// displayName falls back to the unknown name only for users missing from the
// mirror. Any other lookup failure is reported as an unavailable dependency.
func displayName(ctx context.Context, repo UserRepository, id string) (string, error) {
	user, err := repo.FindByID(ctx, id)
	if errors.Is(err, ErrUserNotFound) {
		return domain.UnknownDisplayName, nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: repo.FindByID -> %w", ErrDependencyUnavailable, err)
	}

	return user.Name(), nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, d)
}

func requireReviewer(caller domain.Caller) error {
	if !caller.Authenticated() {
		return ErrUnauthenticated
	}
	if !caller.IsReviewer {
		return ErrUnauthorized
	}

	return nil
}
