package sitrep

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/hylode/hyui/internal/platform/upstream"
)

type liveRepoHyCastle struct {
	api    *upstream.Client
	logger zerolog.Logger
}

// NewLiveRepoHyCastle reads the live view from HyCastle.
func NewLiveRepoHyCastle(api *upstream.Client, logger zerolog.Logger) LiveRepository {
	return &liveRepoHyCastle{api: api, logger: logger}
}

// LiveUI returns an empty list when HyCastle answers with an error status.
func (r *liveRepoHyCastle) LiveUI(ctx context.Context, ward string) ([]*SitrepRow, error) {
	body, err := r.api.Get(ctx, "/live/icu/"+url.PathEscape(ward)+"/ui", nil)
	if err != nil {
		var se *upstream.StatusError
		if errors.As(err, &se) {
			r.logger.Warn().Str("ward", ward).Int("status", se.Status).Msg("failed to get sitrep data")
			return []*SitrepRow{}, nil
		}
		return nil, err
	}
	return decodeRows(body)
}

// decodeRows accepts either {"data": [...]} or a bare array.
func decodeRows(body []byte) ([]*SitrepRow, error) {
	rows := []*SitrepRow{}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &rows); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		return rows, nil
	}
	var env struct {
		Data *[]*SitrepRow `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if env.Data == nil {
		return nil, fmt.Errorf("%w: no data", ErrInvalidPayload)
	}
	return *env.Data, nil
}
