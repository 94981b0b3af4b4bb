package electives

import (
	"context"
	"fmt"
	"time"
)

// DefaultDays is the look-ahead used when the caller gives none.
const DefaultDays = 3

// MaxDays caps the look-ahead window.
const MaxDays = 90

type Service struct {
	repo ElectiveRepository
	// relative anchors the window on the latest case instead of today, for
	// recorded datasets whose dates are in the past.
	relative bool
	now      func() time.Time
}

func NewService(repo ElectiveRepository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// NewRelativeService returns a service whose window ends at the latest
// surgery date in the repository.
func NewRelativeService(repo ElectiveRepository) *Service {
	return &Service{repo: repo, relative: true, now: time.Now}
}

// Upcoming returns the cases booked in the next days days.
func (s *Service) Upcoming(ctx context.Context, days int) ([]*ElectiveCase, error) {
	if days < 0 || days > MaxDays {
		return nil, fmt.Errorf("days must be between 0 and %d", MaxDays)
	}
	if s.relative {
		latest, err := s.repo.LatestDate(ctx)
		if err != nil {
			return nil, err
		}
		if latest.IsZero() {
			return []*ElectiveCase{}, nil
		}
		return s.repo.Between(ctx, latest.AddDate(0, 0, -days), latest)
	}
	today := s.now().UTC().Truncate(24 * time.Hour)
	return s.repo.Between(ctx, today, today.AddDate(0, 0, days))
}
