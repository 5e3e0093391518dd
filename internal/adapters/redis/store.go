package redis

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/concerto/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

const (
	defaultPrefix = "concerto:metamodel:"
	defaultName   = "default"
)

// Store implements ports.MetamodelStore using Redis, so that several
// validator processes can share one cached copy of an upstream metamodel.
type Store struct {
	client *backend.Client
	prefix string
	name   string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for the cached document.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithName selects which document the store reads and writes, for
// deployments caching more than one metamodel.
func WithName(name string) Option {
	return func(s *Store) {
		if name != "" {
			s.name = name
		}
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: defaultPrefix,
		name:   defaultName,
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// Key is the Redis key holding the document.
func (s *Store) Key() string {
	return s.prefix + s.name
}

func (s *Store) savedAtKey() string {
	return s.Key() + ":saved_at"
}

// Save writes the document and its save time, both with the configured TTL.
func (s *Store) Save(ctx context.Context, data []byte) error {
	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.Key(), data, s.ttl)
	pipe.Set(ctx, s.savedAtKey(), time.Now().UTC().Format(time.RFC3339), s.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves the document from Redis.
func (s *Store) Load(ctx context.Context) ([]byte, error) {
	val, err := s.client.Get(ctx, s.Key()).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrMetamodelNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}
	return bytes.Clone(val), nil
}

// SavedAt reports when the cached document was last written.
func (s *Store) SavedAt(ctx context.Context) (time.Time, error) {
	val, err := s.client.Get(ctx, s.savedAtKey()).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return time.Time{}, domain.ErrMetamodelNotFound
		}
		return time.Time{}, fmt.Errorf("failed to get from redis: %w", err)
	}
	return time.Parse(time.RFC3339, val)
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
