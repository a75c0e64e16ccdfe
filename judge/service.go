package judge

import (
	"context"
	"fmt"
)

// Service exposes directory-level judge operations.
type Service struct {
	repo Repository
}

// NewService builds a Service using the provided repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetByID returns the judge profile for the given identifier.
func (s *Service) GetByID(ctx context.Context, id string) (Profile, error) {
	return s.repo.GetByID(ctx, id)
}

// ListActive returns every active judge in the directory.
func (s *Service) ListActive(ctx context.Context) ([]Profile, error) {
	return s.repo.ListActive(ctx)
}

// Superior resolves the regional administrative authority above the given
// judge. A judge who already is the authority for their region has no
// superior within this directory.
func (s *Service) Superior(ctx context.Context, judgeID string) (Profile, error) {
	current, err := s.repo.GetByID(ctx, judgeID)
	if err != nil {
		return Profile{}, fmt.Errorf("judge: resolve superior: %w", err)
	}

	authority, err := s.repo.RegionalAuthority(ctx, current.Region)
	if err != nil {
		return Profile{}, err
	}
	if authority.ID == current.ID {
		return Profile{}, ErrNoAuthority
	}
	return authority, nil
}
