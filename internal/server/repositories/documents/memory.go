package documents

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/eclinic/internal/common"
)

// MemoryRepository keeps documents as encoded JSON so callers never share
// maps with the store.
type MemoryRepository struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{docs: make(map[string][]byte)}
}

func (r *MemoryRepository) Get(ctx context.Context, collection, id string) (map[string]any, error) {
	r.mu.RLock()
	data, ok := r.docs[objectKey(collection, id)]
	r.mu.RUnlock()

	if !ok {
		return nil, common.ErrorNotFound
	}

	doc := map[string]any{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}

func (r *MemoryRepository) Put(ctx context.Context, collection, id string, doc map[string]any) error {
	if doc == nil {
		doc = map[string]any{}
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	r.mu.Lock()
	r.docs[objectKey(collection, id)] = data
	r.mu.Unlock()
	return nil
}
