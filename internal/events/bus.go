// Package events is the in-process pub/sub feed of freshly computed score
// records, consumed by the websocket live stream.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/proctorai/classifier/internal/core"
)

// ScoreEvent is one published score record with its envelope.
type ScoreEvent struct {
	ID     string           `json:"id"`
	ExamID string           `json:"exam_id"`
	Time   time.Time        `json:"time"`
	Record core.ScoreRecord `json:"record"`
}

// ScoreBus fans score events out to subscribers. Slow subscribers drop
// events rather than block the scoring path.
type ScoreBus struct {
	mu          sync.RWMutex
	subscribers map[string]chan ScoreEvent
}

// NewScoreBus creates an empty bus.
func NewScoreBus() *ScoreBus {
	return &ScoreBus{subscribers: make(map[string]chan ScoreEvent)}
}

// Subscribe registers a subscriber and returns its channel plus an
// unsubscribe func.
func (b *ScoreBus) Subscribe() (<-chan ScoreEvent, func()) {
	id := uuid.NewString()
	ch := make(chan ScoreEvent, 64)

	b.mu.Lock()
	b.subscribers[id] = ch
	b.mu.Unlock()

	return ch, func() {
		b.mu.Lock()
		if sub, ok := b.subscribers[id]; ok {
			delete(b.subscribers, id)
			close(sub)
		}
		b.mu.Unlock()
	}
}

// Publish delivers a score record to every subscriber, non-blocking.
func (b *ScoreBus) Publish(examID string, rec core.ScoreRecord) {
	ev := ScoreEvent{
		ID:     uuid.NewString(),
		ExamID: examID,
		Time:   time.Now().UTC(),
		Record: rec,
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subscribers {
		select {
		case ch <- ev:
		default: // subscriber is behind, drop
		}
	}
}

// SubscriberCount reports current subscribers, for the health endpoint.
func (b *ScoreBus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
