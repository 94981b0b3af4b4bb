package hymind

import (
	"context"
	"net/http"
	"net/url"

	"github.com/hylode/hyui/internal/platform/upstream"
)

type hymindSource struct {
	api *upstream.Client
}

// NewHyMindSource proxies to the HyMind prediction services.
func NewHyMindSource(api *upstream.Client) Source {
	return &hymindSource{api: api}
}

func (s *hymindSource) IcuDischarge(ctx context.Context, ward string) ([]IcuDischarge, error) {
	body, err := s.api.Get(ctx, "/predictions/icu/discharge", url.Values{"ward": {ward}})
	if err != nil {
		return nil, err
	}
	return decodeData(body, (*IcuDischarge).Validate)
}

func (s *hymindSource) TapEmergency(ctx context.Context, req TapRequest) ([]ElEmTap, error) {
	body, err := s.api.Do(ctx, http.MethodPost, "/predict/", nil, req, nil)
	if err != nil {
		return nil, err
	}
	return decodeData(body, (*ElEmTap).Validate)
}
