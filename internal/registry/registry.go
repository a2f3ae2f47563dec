package registry

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ironsheep/store-map-mcp/internal/config"
)

// Registry resolves shelf identifiers ("n1", "n2", ...) to display names.
type Registry interface {
	Lookup(ctx context.Context, nid string) (name string, found bool, err error)
	Close() error
}

// Entry is one nid to name mapping.
type Entry struct {
	NID  string `yaml:"nid" json:"nid"`
	Name string `yaml:"name" json:"name"`
}

// New builds the registry selected by cfg.Kind. An empty kind means an
// in-memory registry seeded from cfg.Names.
func New(ctx context.Context, cfg config.RegistryConfig, logger *zap.Logger) (Registry, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.Kind {
	case "", "memory":
		logger.Info("using in-memory shelf registry", zap.Int("entries", len(cfg.Names)))
		return NewMemory(cfg.Names), nil

	case "file":
		reg, err := LoadFile(cfg.Path)
		if err != nil {
			return nil, err
		}
		logger.Info("loaded shelf registry file",
			zap.String("path", cfg.Path),
			zap.Int("entries", reg.Len()))
		return reg, nil

	case "redis":
		reg := NewRedis(RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Key:      cfg.RedisKey,
		})
		if err := reg.Ping(ctx); err != nil {
			// Lookups degrade to misses while Redis is down, so this is not fatal.
			logger.Warn("shelf registry redis unreachable",
				zap.String("addr", cfg.RedisAddr),
				zap.Error(err))
		} else {
			logger.Info("connected to shelf registry redis",
				zap.String("addr", cfg.RedisAddr),
				zap.String("key", cfg.RedisKey))
		}
		return reg, nil

	default:
		return nil, fmt.Errorf("unknown registry kind %q", cfg.Kind)
	}
}
