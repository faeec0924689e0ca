// Package dedupe tracks submission ids for idempotent intake.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
)

const defaultMaxSize = 50_000

// Deduper records seen submission IDs to ensure at-most-once processing.
type Deduper interface {
	// SeenAndRecord atomically checks if id was seen and records it if not.
	// Returns true if id was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord forgets id so a rejected submission (e.g. queue full) can be
	// retried by the client.
	Unrecord(ctx context.Context, id string)

	Size() int64
}

type entry struct {
	key uint64
	seq uint64
}

// inMemoryDeduper keys ids by their 64-bit xxhash digest.
// Bounded mode (maxSize > 0) evicts the oldest id first.
// Unbounded mode (maxSize <= 0) never evicts.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[uint64]uint64 // digest -> insertion sequence
	order   []entry           // insertion order, may hold stale entries after Unrecord
	head    int               // index of the oldest entry in order
	seq     uint64
	maxSize int
	size    atomic.Int64
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{maxSize: defaultMaxSize}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[uint64]uint64)
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	key := xxhash.Sum64String(id)

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[key]; ok {
		return true
	}

	if d.maxSize > 0 {
		for len(d.seen) >= d.maxSize {
			d.evictOldest()
		}
		d.seq++
		d.order = append(d.order, entry{key: key, seq: d.seq})
		d.seen[key] = d.seq
	} else {
		d.seen[key] = 0
	}
	d.size.Store(int64(len(d.seen)))
	return false
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, id string) {
	key := xxhash.Sum64String(id)

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[key]; !ok {
		return
	}
	delete(d.seen, key)
	d.size.Store(int64(len(d.seen)))
	d.compact()
}

// evictOldest drops the oldest live entry. Must be called with d.mu held.
func (d *inMemoryDeduper) evictOldest() {
	for d.head < len(d.order) {
		e := d.order[d.head]
		d.head++
		if seq, ok := d.seen[e.key]; ok && seq == e.seq {
			delete(d.seen, e.key)
			break
		}
	}
	d.compact()
}

// compact reclaims the consumed prefix of order. Must be called with d.mu held.
func (d *inMemoryDeduper) compact() {
	if d.head == 0 || d.head < len(d.order)/2 {
		return
	}
	n := copy(d.order, d.order[d.head:])
	clear(d.order[n:])
	d.order = d.order[:n]
	d.head = 0
}

// Size returns the current number of entries in the deduper.
func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}
