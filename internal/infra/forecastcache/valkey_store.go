package forecastcache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/ecoscope/siagatani/internal/domain/forecast"
)

// ValkeyStore persists decoded forecasts as JSON strings in Valkey.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "forecast"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

func (s *ValkeyStore) Get(ctx context.Context, code string) (forecast.Forecast, bool, error) {
	cmd := s.client.B().Get().Key(s.entryKey(code)).Build()
	payload, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return forecast.Forecast{}, false, nil
		}
		return forecast.Forecast{}, false, err
	}
	var fc forecast.Forecast
	if err := json.Unmarshal([]byte(payload), &fc); err != nil {
		return forecast.Forecast{}, false, fmt.Errorf("decode cached forecast: %w", err)
	}
	return fc, true, nil
}

func (s *ValkeyStore) Set(ctx context.Context, code string, fc forecast.Forecast, ttl time.Duration) error {
	payload, err := json.Marshal(fc)
	if err != nil {
		return err
	}
	builder := s.client.B().Set().Key(s.entryKey(code)).Value(string(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) entryKey(code string) string {
	return fmt.Sprintf("%s:adm4:%s", s.prefix, strings.TrimSpace(code))
}

var _ forecast.Cache = (*ValkeyStore)(nil)
