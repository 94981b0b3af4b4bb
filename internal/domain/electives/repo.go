package electives

import (
	"context"
	"time"
)

type ElectiveRepository interface {
	// Between lists cases with from <= surgery_date <= to.
	Between(ctx context.Context, from, to time.Time) ([]*ElectiveCase, error)
	// LatestDate returns the most recent surgery date, or the zero time when
	// there are no cases.
	LatestDate(ctx context.Context) (time.Time, error)
}
