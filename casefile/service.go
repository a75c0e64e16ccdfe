package casefile

import "context"

// Service exposes court-file lookups to the order lifecycle.
type Service struct {
	repo          Repository
	handledFamily string
}

// NewService builds a Service scoped to one court-class family; orders may
// only reference files whose class belongs to it.
func NewService(repo Repository, handledFamily string) *Service {
	return &Service{repo: repo, handledFamily: handledFamily}
}

// GetByID returns the court file for the given identifier.
func (s *Service) GetByID(ctx context.Context, id string) (File, error) {
	return s.repo.GetByID(ctx, id)
}

// InHandledFamily reports whether the class code maps into the family this
// deployment serves.
func (s *Service) InHandledFamily(ctx context.Context, classCode string) (bool, error) {
	family, err := s.repo.FamilyOf(ctx, classCode)
	if err != nil {
		return false, err
	}
	return family == s.handledFamily, nil
}
