package memory

import (
	"bytes"
	"context"
	"sync"

	"github.com/aretw0/concerto/pkg/domain"
	"github.com/aretw0/concerto/pkg/metamodel"
)

// Store implements ports.MetamodelStore in memory.
// Safe for concurrent use.
type Store struct {
	data []byte
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store, optionally seeded with a document.
func NewStore(seed []byte) *Store {
	return &Store{data: bytes.Clone(seed)}
}

// NewSystemStore returns a store seeded with the embedded Concerto metamodel.
func NewSystemStore() *Store {
	return &Store{data: metamodel.System()}
}

// Save replaces the document in memory.
func (s *Store) Save(ctx context.Context, data []byte) error {
	// Copy to ensure isolation, similar to serialization
	copied := bytes.Clone(data)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = copied
	return nil
}

// Load retrieves the document from memory.
func (s *Store) Load(ctx context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.data == nil {
		return nil, domain.ErrMetamodelNotFound
	}
	return bytes.Clone(s.data), nil
}
