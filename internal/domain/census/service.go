package census

import (
	"context"
)

type Service struct {
	repo        CensusRepository
	departments []string
}

func NewService(repo CensusRepository, departments []string) *Service {
	return &Service{repo: repo, departments: departments}
}

// ListCensus returns the census of departments, or of the default
// departments when none are named.
func (s *Service) ListCensus(ctx context.Context, departments []string) ([]*CensusRow, error) {
	if len(departments) == 0 {
		departments = s.departments
	}
	return s.repo.ListByDepartments(ctx, departments)
}
