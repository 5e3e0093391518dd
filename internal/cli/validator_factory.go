package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/concerto"
	"github.com/aretw0/concerto/internal/adapters/file"
	"github.com/aretw0/concerto/internal/adapters/redis"
	"github.com/aretw0/concerto/internal/config"
	"github.com/aretw0/concerto/pkg/adapters/memory"
	"github.com/aretw0/concerto/pkg/domain"
	"github.com/aretw0/concerto/pkg/metamodel"
	"github.com/aretw0/concerto/pkg/observability"
	"github.com/aretw0/concerto/pkg/ports"
)

// MetamodelSource picks where the metamodel comes from:
// an explicit file, else the Redis cache when configured, else the embedded Concerto metamodel.
func MetamodelSource(cfg *config.Config) (ports.MetamodelSource, string) {
	switch {
	case cfg.Metamodel != "":
		return file.New(cfg.Metamodel), cfg.Metamodel
	case cfg.Redis.Addr != "":
		store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redis.WithPrefix(cfg.Redis.Prefix), redis.WithTTL(cfg.Redis.TTL))
		return fallbackSource{primary: store, fallback: memory.NewSystemStore()}, "redis://" + cfg.Redis.Addr + "/" + store.Key()
	default:
		return memory.NewSystemStore(), "embedded:" + metamodel.SystemNamespace
	}
}

// fallbackSource reads from primary and falls back when it holds no document.
type fallbackSource struct {
	primary  ports.MetamodelSource
	fallback ports.MetamodelSource
}

func (s fallbackSource) Load(ctx context.Context) ([]byte, error) {
	data, err := s.primary.Load(ctx)
	if errors.Is(err, domain.ErrMetamodelNotFound) {
		return s.fallback.Load(ctx)
	}
	return data, err
}

// NewValidator initializes a Validator with standard CLI conventions.
func NewValidator(ctx context.Context, cfg *config.Config, logger *slog.Logger, hooks ...domain.LifecycleHooks) (*concerto.Validator, error) {
	src, name := MetamodelSource(cfg)
	doc, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading metamodel %s: %w", name, err)
	}
	logger.Debug("Metamodel loaded", "source", name, "bytes", len(doc))

	hooks = append(hooks, createDebugHooks(logger))
	opts := []concerto.Option{
		concerto.WithLogger(logger),
		concerto.WithLifecycleHooks(observability.Chain(hooks...)),
		concerto.WithMaxDepth(cfg.MaxDepth),
		concerto.WithRegexTimeout(cfg.RegexTimeout),
	}
	if cfg.SingleLevel {
		opts = append(opts, concerto.WithSingleLevelInheritance())
	}

	v, err := concerto.New(doc, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing validator: %w", err)
	}
	return v, nil
}
