package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/stanstork/timeline-notify/internal/models"
)

// MemoryEventRepository keeps events in insertion order. Used in tests.
type MemoryEventRepository struct {
	mu     sync.RWMutex
	events []models.Event
	ids    map[string]struct{}
}

func NewMemoryEventRepository() *MemoryEventRepository {
	return &MemoryEventRepository{ids: make(map[string]struct{})}
}

func (r *MemoryEventRepository) RegisterSingleEvent(ctx context.Context, event models.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.ids[event.ID]; exists {
		return fmt.Errorf("event %s already exists", event.ID)
	}
	r.ids[event.ID] = struct{}{}
	r.events = append(r.events, event)
	return nil
}

func (r *MemoryEventRepository) Find(ctx context.Context, filter Filter) (EventCursor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matched []models.Event
	for _, event := range r.events {
		if filter == nil || filter.Match(event) {
			matched = append(matched, event)
		}
	}
	return &sliceCursor{events: matched, pos: -1}, nil
}

// Len returns the number of stored events.
func (r *MemoryEventRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.events)
}

type sliceCursor struct {
	events []models.Event
	pos    int
}

func (c *sliceCursor) Next() bool {
	if c.pos+1 >= len(c.events) {
		return false
	}
	c.pos++
	return true
}

func (c *sliceCursor) Scan(event *models.Event) error {
	if c.pos < 0 || c.pos >= len(c.events) {
		return fmt.Errorf("scan called without a current event")
	}
	*event = c.events[c.pos]
	return nil
}

func (c *sliceCursor) Err() error   { return nil }
func (c *sliceCursor) Close() error { return nil }
