package beds

import (
	"context"
)

type Service struct {
	repo        BedRepository
	departments []string
}

// NewService returns a service that lists beds in departments unless the
// caller names its own.
func NewService(repo BedRepository, departments []string) *Service {
	return &Service{repo: repo, departments: departments}
}

func (s *Service) ListBeds(ctx context.Context, f Filter) ([]*Bed, error) {
	if len(f.Departments) == 0 {
		f.Departments = s.departments
	}
	return s.repo.List(ctx, f)
}
