package sheet

import (
	"sync"

	"github.com/hashicorp/golang-lru/v2/simplelru"
)

// EvictionPolicy controls how the read cache of a BatchingCache evicts
// entries.
type EvictionPolicy struct {
	capacity int // 0 means unbounded
}

// EvictNone keeps every row ever read; the cache grows without bound.
func EvictNone() EvictionPolicy { return EvictionPolicy{} }

// EvictLRU bounds the cache to capacity entries, evicting the least
// recently used row on overflow. A hit refreshes the entry's recency.
func EvictLRU(capacity int) EvictionPolicy {
	if capacity < 1 {
		capacity = 1
	}
	return EvictionPolicy{capacity: capacity}
}

type rowKey struct {
	sheetID string
	index   int
}

// BatchingCache decorates a Service with write batching and read caching.
//
// AppendRow buffers rows per sheet and flushes a full batch through one
// AppendRows call on the inner service; buffered rows are invisible to
// readers until flushed. ReadRow serves repeated reads from a local cache
// that is never invalidated by writes — stale reads after out-of-band edits
// are an accepted trade-off of this layer.
//
// The pending buffer is owned by this instance alone: call Flush (or Close,
// which reports the flush error) before discarding the inner service, or
// buffered writes are lost.
type BatchingCache struct {
	mu        sync.Mutex
	inner     Service
	batchSize int
	pending   map[string][][]string
	policy    EvictionPolicy
	cache     map[rowKey][]string // unbounded policy
	lru       *simplelru.LRU[rowKey, []string]
}

// NewBatchingCache wraps inner with the given batch size (minimum 1) and
// cache eviction policy.
func NewBatchingCache(inner Service, batchSize int, policy EvictionPolicy) *BatchingCache {
	if batchSize < 1 {
		batchSize = 1
	}
	b := &BatchingCache{
		inner:     inner,
		batchSize: batchSize,
		pending:   make(map[string][][]string),
		policy:    policy,
	}
	if policy.capacity > 0 {
		// NewLRU only fails for capacity < 1, which EvictLRU rules out.
		b.lru, _ = simplelru.NewLRU[rowKey, []string](policy.capacity, nil)
	} else {
		b.cache = make(map[rowKey][]string)
	}
	return b
}

func (b *BatchingCache) CreateSheet(title string) (string, error) {
	return b.inner.CreateSheet(title)
}

// AppendRow buffers the row. When the sheet's batch reaches the batch size
// it is flushed as a whole; on flush failure the batch is dropped and the
// error returned, matching the at-most-once buffering of this layer.
func (b *BatchingCache) AppendRow(sheetID string, values []string) error {
	b.mu.Lock()
	batch := append(b.pending[sheetID], values)
	if len(batch) < b.batchSize {
		b.pending[sheetID] = batch
		b.mu.Unlock()
		return nil
	}
	delete(b.pending, sheetID)
	b.mu.Unlock()
	return b.inner.AppendRows(sheetID, batch)
}

// AppendRows decomposes into repeated AppendRow calls so the rows take part
// in batching like any other write.
func (b *BatchingCache) AppendRows(sheetID string, rows [][]string) error {
	for _, row := range rows {
		if err := b.AppendRow(sheetID, row); err != nil {
			return err
		}
	}
	return nil
}

// Flush drains every pending batch, one AppendRows call per sheet.
func (b *BatchingCache) Flush() error {
	b.mu.Lock()
	pending := b.pending
	b.pending = make(map[string][][]string)
	b.mu.Unlock()
	for sheetID, rows := range pending {
		if len(rows) == 0 {
			continue
		}
		if err := b.inner.AppendRows(sheetID, rows); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes all pending batches and reports the result, so teardown
// paths can observe a failed final flush. It satisfies io.Closer.
func (b *BatchingCache) Close() error { return b.Flush() }

func (b *BatchingCache) ReadRow(sheetID string, index int) ([]string, error) {
	key := rowKey{sheetID, index}
	b.mu.Lock()
	if row, ok := b.cacheGet(key); ok {
		b.mu.Unlock()
		return row, nil
	}
	b.mu.Unlock()
	row, err := b.inner.ReadRow(sheetID, index)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	b.cachePut(key, row)
	b.mu.Unlock()
	return row, nil
}

func (b *BatchingCache) cacheGet(key rowKey) ([]string, bool) {
	if b.lru != nil {
		return b.lru.Get(key) // refreshes recency
	}
	row, ok := b.cache[key]
	return row, ok
}

func (b *BatchingCache) cachePut(key rowKey, row []string) {
	if b.lru != nil {
		b.lru.Add(key, row)
		return
	}
	b.cache[key] = row
}

func (b *BatchingCache) ListRows(sheetID string) ([][]string, error) {
	return b.inner.ListRows(sheetID)
}

func (b *BatchingCache) ShareSheet(sheetID, email string) error {
	return b.inner.ShareSheet(sheetID, email)
}

var _ Service = (*BatchingCache)(nil)
