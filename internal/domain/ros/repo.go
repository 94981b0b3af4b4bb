package ros

import (
	"context"
)

type RosRepository interface {
	ListByDepartments(ctx context.Context, departments []string) ([]*RosRow, error)
}
