package exec

import (
	"github.com/pbnjay/memory"
	"go.uber.org/zap"
)

const (
	defaultViewCacheShards  = 16
	viewCacheMemoryFraction = 256
	minViewCacheBytes       = 1 << 20
	maxViewCacheBytes       = 256 << 20
	fallbackViewCacheBytes  = 32 << 20
)

// Config tunes a registry. The zero value gets a silent logger and a
// view cache sized off physical memory.
type Config struct {
	Logger            *zap.Logger
	DisableViewCache  bool
	ViewCacheShards   int
	ViewCacheMaxBytes uint64
}

func normalize(cfg *Config) *Config {
	own := &Config{}
	if cfg != nil {
		*own = *cfg
	}

	if own.Logger == nil {
		own.Logger = zap.NewNop()
	}

	if own.ViewCacheShards <= 0 {
		own.ViewCacheShards = defaultViewCacheShards
	}

	if own.ViewCacheMaxBytes == 0 {
		own.ViewCacheMaxBytes = defaultViewCacheBytes()
	}

	return own
}

// defaultViewCacheBytes - a small slice of physical memory, clamped on
// both ends. Hosts that do not report their memory get a fixed budget.
func defaultViewCacheBytes() uint64 {
	total := memory.TotalMemory()
	if total == 0 {
		return fallbackViewCacheBytes
	}

	b := total / viewCacheMemoryFraction
	if b < minViewCacheBytes {
		return minViewCacheBytes
	}
	if b > maxViewCacheBytes {
		return maxViewCacheBytes
	}

	return b
}
