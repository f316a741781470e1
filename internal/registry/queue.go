package registry

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Errors returned by Queue operations. Callers that expose the raw
// int64 id surface translate these into the 0 sentinel.
var (
	ErrDuplicateID = fmt.Errorf("content id already registered")
	ErrClosed      = fmt.Errorf("registration queue closed")
)

// Queue is the three-lane registration FIFO. Enqueues may come from
// any goroutine; the drain is destructive and single-consumer.
//
// Handler ids come from one shared counter so an id is unique across
// all kinds, not just within its own lane.
type Queue struct {
	nextID atomic.Int64

	mu     sync.Mutex
	lanes  [3][]*Registration
	seen   map[string]ContentKind // every id ever enqueued this session
	closed bool
}

// NewQueue returns an open queue. Ids start at 1; 0 stays free as the
// failure sentinel.
func NewQueue() *Queue {
	q := &Queue{seen: make(map[string]ContentKind)}
	q.nextID.Store(1)
	return q
}

// EnqueueBlock validates and queues a block registration, returning
// its handler id.
func (q *Queue) EnqueueBlock(rawID string, s BlockSettings) (int64, error) {
	return q.enqueue(KindBlock, rawID, &Registration{Block: &s})
}

// EnqueueItem validates and queues an item registration.
func (q *Queue) EnqueueItem(rawID string, s ItemSettings) (int64, error) {
	return q.enqueue(KindItem, rawID, &Registration{Item: &s})
}

// EnqueueEntity validates and queues an entity registration.
func (q *Queue) EnqueueEntity(rawID string, s EntitySettings) (int64, error) {
	return q.enqueue(KindEntity, rawID, &Registration{Entity: &s})
}

func (q *Queue) enqueue(kind ContentKind, rawID string, reg *Registration) (int64, error) {
	id, err := ParseIdentifier(rawID)
	if err != nil {
		return 0, err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return 0, ErrClosed
	}
	if prev, ok := q.seen[id.String()]; ok {
		return 0, fmt.Errorf("%w: %s (as %s)", ErrDuplicateID, id, prev)
	}

	reg.HandlerID = q.nextID.Add(1) - 1
	reg.Kind = kind
	reg.ID = id
	q.seen[id.String()] = kind
	q.lanes[kind] = append(q.lanes[kind], reg)
	return reg.HandlerID, nil
}

// HasPending reports whether a lane still holds registrations.
func (q *Queue) HasPending(kind ContentKind) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.lanes[kind]) > 0
}

// PendingCount returns the total queued registrations across lanes.
func (q *Queue) PendingCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.lanes[0]) + len(q.lanes[1]) + len(q.lanes[2])
}

// DrainAll removes and returns every registration in a lane, in
// enqueue order. Safe against concurrent enqueues: anything queued
// after the drain snapshot is taken waits for the next drain.
func (q *Queue) DrainAll(kind ContentKind) []*Registration {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.lanes[kind]
	q.lanes[kind] = nil
	return out
}

// Close rejects further enqueues. Used at shutdown and after the
// datagen freeze.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
}
