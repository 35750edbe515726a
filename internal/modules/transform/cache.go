// README: Two-tier LRU cache (matrices + quantized points) with versioned invalidation.
package transform

import (
	"container/list"
	"sync"
	"time"

	"bridget/internal/logger"
	"bridget/internal/metrics"
	"bridget/internal/types"
)

// Approximate per-entry footprints for the memory gauge. Keys dominate; the
// exact numbers only need to be stable, not precise.
const (
	matrixEntryBytes = 96
	pointEntryBytes  = 112
)

type CacheConfig struct {
	MatrixCapacity   int
	PointCapacity    int
	EnablePointCache bool
	QuantizeDecimals int
}

// TierStats is a point-in-time snapshot of one cache tier.
type TierStats struct {
	Hits        uint64  `json:"hits"`
	Misses      uint64  `json:"misses"`
	Evictions   uint64  `json:"evictions"`
	Size        int     `json:"size"`
	Capacity    int     `json:"capacity"`
	MemoryBytes int64   `json:"memoryBytes"`
	HitRate     float64 `json:"hitRate"`
}

// Stats covers both tiers plus the invalidation version.
type Stats struct {
	Matrix            TierStats `json:"matrix"`
	Point             TierStats `json:"point"`
	Version           uint64    `json:"version"`
	PointCacheEnabled bool      `json:"pointCacheEnabled"`
}

type lruEntry[K comparable, V any] struct {
	key  K
	val  V
	meta entryMeta
}

// lruTier is a plain map+list LRU. Not safe on its own; the owning Cache
// serializes every call, including the promotion inside get.
type lruTier[K comparable, V any] struct {
	capacity  int
	bytesPer  int
	items     map[K]*list.Element
	order     *list.List // front = most recently used
	hits      uint64
	misses    uint64
	evictions uint64
}

func newLRUTier[K comparable, V any](capacity, bytesPer int) *lruTier[K, V] {
	return &lruTier[K, V]{
		capacity: capacity,
		bytesPer: bytesPer,
		items:    make(map[K]*list.Element),
		order:    list.New(),
	}
}

func (t *lruTier[K, V]) get(key K, now time.Time) (V, bool) {
	if el, ok := t.items[key]; ok {
		t.order.MoveToFront(el)
		e := el.Value.(*lruEntry[K, V])
		e.meta.lastAccess = now
		e.meta.accessCount++
		t.hits++
		return e.val, true
	}
	t.misses++
	var zero V
	return zero, false
}

func (t *lruTier[K, V]) set(key K, val V, now time.Time) {
	// Zero capacity degrades to an always-miss tier that never grows.
	if t.capacity <= 0 {
		t.evictions++
		return
	}
	if el, ok := t.items[key]; ok {
		t.order.MoveToFront(el)
		e := el.Value.(*lruEntry[K, V])
		e.val = val
		e.meta.lastAccess = now
		return
	}
	e := &lruEntry[K, V]{key: key, val: val, meta: entryMeta{
		createdAt:  now,
		lastAccess: now,
		memBytes:   t.bytesPer,
	}}
	t.items[key] = t.order.PushFront(e)
	for len(t.items) > t.capacity {
		back := t.order.Back()
		if back == nil {
			break
		}
		victim := back.Value.(*lruEntry[K, V])
		t.order.Remove(back)
		delete(t.items, victim.key)
		t.evictions++
	}
}

func (t *lruTier[K, V]) clear() {
	t.items = make(map[K]*list.Element)
	t.order.Init()
	t.hits, t.misses, t.evictions = 0, 0, 0
}

func (t *lruTier[K, V]) stats() TierStats {
	s := TierStats{
		Hits:        t.hits,
		Misses:      t.misses,
		Evictions:   t.evictions,
		Size:        len(t.items),
		Capacity:    t.capacity,
		MemoryBytes: int64(len(t.items) * t.bytesPer),
	}
	if total := t.hits + t.misses; total > 0 {
		s.HitRate = float64(t.hits) / float64(total)
	}
	return s
}

// Cache holds resolved matrices and quantized point results. All operations,
// reads included, take the mutex: every get promotes its entry and refreshes
// access metadata, so there is no read-only fast path to exploit.
type Cache struct {
	mu       sync.Mutex
	cfg      CacheConfig
	version  uint64
	matrices *lruTier[MatrixKey, Matrix]
	points   *lruTier[PointKey, types.Point]
}

func NewCache(cfg CacheConfig) *Cache {
	if cfg.QuantizeDecimals <= 0 {
		cfg.QuantizeDecimals = 6
	}
	return &Cache{
		cfg:      cfg,
		matrices: newLRUTier[MatrixKey, Matrix](cfg.MatrixCapacity, matrixEntryBytes),
		points:   newLRUTier[PointKey, types.Point](cfg.PointCapacity, pointEntryBytes),
	}
}

// Version returns the current invalidation epoch.
func (c *Cache) Version() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version
}

func (c *Cache) matrixKey(source, target types.CoordinateSystem, id types.BridgeID) MatrixKey {
	return MatrixKey{Source: source, Target: target, BridgeID: id, Version: c.version}
}

func (c *Cache) pointKey(source, target types.CoordinateSystem, id types.BridgeID, lat, lon float64) PointKey {
	return PointKey{
		Source:   source,
		Target:   target,
		BridgeID: id,
		QLat:     Quantize(lat, c.cfg.QuantizeDecimals),
		QLon:     Quantize(lon, c.cfg.QuantizeDecimals),
		Version:  c.version,
	}
}

func (c *Cache) GetMatrix(source, target types.CoordinateSystem, id types.BridgeID) (Matrix, bool) {
	c.mu.Lock()
	m, ok := c.matrices.get(c.matrixKey(source, target, id), time.Now())
	c.mu.Unlock()
	if ok {
		metrics.CacheHitsTotal.WithLabelValues("matrix").Inc()
	} else {
		metrics.CacheMissesTotal.WithLabelValues("matrix").Inc()
	}
	return m, ok
}

func (c *Cache) SetMatrix(source, target types.CoordinateSystem, id types.BridgeID, m Matrix) {
	c.mu.Lock()
	before := c.matrices.evictions
	c.matrices.set(c.matrixKey(source, target, id), m, time.Now())
	evicted := c.matrices.evictions - before
	c.mu.Unlock()
	if evicted > 0 {
		metrics.CacheEvictionsTotal.WithLabelValues("matrix").Add(float64(evicted))
	}
}

// GetPoint looks up a previously transformed point by its quantized source
// coordinates. Always misses when the point tier is disabled, so callers
// need no branching of their own.
func (c *Cache) GetPoint(source, target types.CoordinateSystem, id types.BridgeID, lat, lon float64) (types.Point, bool) {
	if !c.cfg.EnablePointCache {
		return types.Point{}, false
	}
	c.mu.Lock()
	p, ok := c.points.get(c.pointKey(source, target, id, lat, lon), time.Now())
	c.mu.Unlock()
	if ok {
		metrics.CacheHitsTotal.WithLabelValues("point").Inc()
	} else {
		metrics.CacheMissesTotal.WithLabelValues("point").Inc()
	}
	return p, ok
}

// SetPoint is a no-op when the point tier is disabled.
func (c *Cache) SetPoint(source, target types.CoordinateSystem, id types.BridgeID, lat, lon float64, out types.Point) {
	if !c.cfg.EnablePointCache {
		return
	}
	c.mu.Lock()
	before := c.points.evictions
	c.points.set(c.pointKey(source, target, id, lat, lon), out, time.Now())
	evicted := c.points.evictions - before
	c.mu.Unlock()
	if evicted > 0 {
		metrics.CacheEvictionsTotal.WithLabelValues("point").Add(float64(evicted))
	}
}

// InvalidateAll bumps the version counter. Every outstanding key carries the
// old version and simply stops matching; no enumeration or removal happens
// until capacity pressure pushes the stale entries out.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	c.version++
	v := c.version
	c.mu.Unlock()
	logger.L().Info("transform_cache_invalidated", "version", v)
}

// ClearAll hard-evicts both tiers and resets statistics. The version counter
// is preserved so that invalidation epochs stay monotonic.
func (c *Cache) ClearAll() {
	c.mu.Lock()
	c.matrices.clear()
	c.points.clear()
	c.mu.Unlock()
}

func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Matrix:            c.matrices.stats(),
		Point:             c.points.stats(),
		Version:           c.version,
		PointCacheEnabled: c.cfg.EnablePointCache,
	}
}
