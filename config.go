package pomelo

import (
	"github.com/caarlos0/env/v11"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var ErrLimitExceeded = errors.New("change set limit exceeded")

const defaultNotifierQueueSize = 32

// Config tunes a store. The zero value works: no limits, no event
// delivery and a silent logger. Every Max limit treats zero as no cap.
type Config struct {
	Logger            *zap.Logger
	OnNotification    NotificationHandler
	NotifierQueueSize int    `env:"POMELO_NOTIFIER_QUEUE_SIZE"`
	MaxRecordBytes    uint64 `env:"POMELO_MAX_RECORD_BYTES"`
	MaxUpdateBytes    uint64 `env:"POMELO_MAX_UPDATE_BYTES"`
	MaxEventBytes     uint64 `env:"POMELO_MAX_EVENT_BYTES"`
	MaxUpdateEvents   int    `env:"POMELO_MAX_UPDATE_EVENTS"`
}

// ConfigFromEnv - reads the POMELO_ prefixed settings from the
// environment. Unset variables leave the zero value in place.
func ConfigFromEnv() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, "could not parse environment config")
	}

	return cfg, nil
}

// normalizeConfig - detaches the caller's config and fills in the
// defaults, later mutations of the original cannot reach the store.
func normalizeConfig(cfg *Config) (*Config, error) {
	own := &Config{}
	if cfg != nil {
		if err := copier.Copy(own, cfg); err != nil {
			return nil, errors.Wrap(err, "could not copy config")
		}
	}

	if own.Logger == nil {
		own.Logger = zap.NewNop()
	}

	if own.NotifierQueueSize <= 0 {
		own.NotifierQueueSize = defaultNotifierQueueSize
	}

	return own, nil
}
