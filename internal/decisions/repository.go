package decisions

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for decision storage
type Repository interface {
	Log(ctx context.Context, rec Record) (Record, error)
	ListByConversation(ctx context.Context, conversationID string) ([]Record, error)
}

// InMemoryRepository is an implementation of Repository using in-memory storage
type InMemoryRepository struct {
	mu      sync.RWMutex
	records map[string][]Record
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		records: make(map[string][]Record),
	}
}

// Log appends a decision record for its conversation
func (r *InMemoryRepository) Log(ctx context.Context, rec Record) (Record, error) {
	if rec.ConversationID == "" {
		return Record{}, ErrMissingConversationID
	}

	rec.ID = uuid.New().String()
	rec.CreatedAt = time.Now().UTC()

	r.mu.Lock()
	r.records[rec.ConversationID] = append(r.records[rec.ConversationID], rec)
	r.mu.Unlock()

	return rec, nil
}

// ListByConversation returns all decisions for a conversation in insertion order
func (r *InMemoryRepository) ListByConversation(ctx context.Context, conversationID string) ([]Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	recs, ok := r.records[conversationID]
	if !ok {
		return nil, ErrRecordNotFound
	}

	out := make([]Record, len(recs))
	copy(out, recs)
	return out, nil
}
