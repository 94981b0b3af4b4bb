package beds

import (
	"context"
)

type BedRepository interface {
	List(ctx context.Context, f Filter) ([]*Bed, error)
}
