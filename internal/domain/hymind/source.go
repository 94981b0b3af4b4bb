package hymind

import (
	"context"
)

// Source produces HyMind predictions.
type Source interface {
	IcuDischarge(ctx context.Context, ward string) ([]IcuDischarge, error)
	TapEmergency(ctx context.Context, req TapRequest) ([]ElEmTap, error)
}
