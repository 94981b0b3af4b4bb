package census

import (
	"context"
)

type CensusRepository interface {
	ListByDepartments(ctx context.Context, departments []string) ([]*CensusRow, error)
}
