// README: Batch orchestrator: strategy selection, bounded chunk concurrency, metrics.
package transform

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"bridget/internal/config"
	"bridget/internal/logger"
	"bridget/internal/metrics"
	"bridget/internal/types"
)

// Service transforms batches of bridge coordinates between reference frames.
// It owns the two-tier cache and decides between the scalar path for small
// inputs and the chunked concurrent path for large ones.
type Service struct {
	calc  *Calculator
	cache *Cache
	cfg   config.TransformConfig
}

func NewService(calc *Calculator, cache *Cache, cfg config.TransformConfig) *Service {
	if cfg.ScalarThreshold <= 0 {
		cfg.ScalarThreshold = 32
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 256
	}
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = runtime.NumCPU()
	}
	return &Service{calc: calc, cache: cache, cfg: cfg}
}

// Cache exposes the underlying cache for stats and invalidation surfaces.
func (s *Service) Cache() *Cache { return s.cache }

// Transform converts a single point, going through both cache tiers.
func (s *Service) Transform(ctx context.Context, p types.Point, source, target types.CoordinateSystem, id types.BridgeID) (types.Point, error) {
	if !p.Valid() {
		return types.Point{}, ErrInvalidCoordinate
	}
	m, err := s.resolveMatrix(ctx, source, target, id)
	if err != nil {
		return types.Point{}, err
	}
	if out, ok := s.cache.GetPoint(source, target, id, p.Lat, p.Lon); ok {
		return out, nil
	}
	lat, lon := Apply(m, p.Lat, p.Lon)
	out := types.Point{Lat: lat, Lon: lon}
	s.cache.SetPoint(source, target, id, p.Lat, p.Lon, out)
	return out, nil
}

// TransformBatch converts points from source to target, preserving order:
// out[i] always corresponds to points[i]. The whole batch fails as a unit;
// callers never receive a mix of transformed and untransformed coordinates.
func (s *Service) TransformBatch(ctx context.Context, points []types.Point, source, target types.CoordinateSystem, id types.BridgeID) ([]types.Point, error) {
	if len(points) == 0 {
		return []types.Point{}, nil
	}
	for _, p := range points {
		if !p.Valid() {
			metrics.TransformFailuresTotal.Inc()
			return nil, ErrInvalidCoordinate
		}
	}

	m, err := s.resolveMatrix(ctx, source, target, id)
	if err != nil {
		metrics.TransformFailuresTotal.Inc()
		return nil, err
	}

	start := time.Now()
	if len(points) < s.cfg.ScalarThreshold {
		out := s.scalarBatch(points, m, source, target, id)
		observeBatch("scalar", len(points), time.Since(start))
		return out, nil
	}

	out, err := s.chunkedBatch(ctx, points, m, source, target, id)
	if err != nil {
		metrics.TransformFailuresTotal.Inc()
		return nil, err
	}
	observeBatch("chunked", len(points), time.Since(start))
	return out, nil
}

func (s *Service) resolveMatrix(ctx context.Context, source, target types.CoordinateSystem, id types.BridgeID) (Matrix, error) {
	if m, ok := s.cache.GetMatrix(source, target, id); ok {
		return m, nil
	}
	m, err := s.calc.Calculate(ctx, source, target, id)
	if err != nil {
		return Matrix{}, err
	}
	s.cache.SetMatrix(source, target, id, m)
	return m, nil
}

func (s *Service) scalarBatch(points []types.Point, m Matrix, source, target types.CoordinateSystem, id types.BridgeID) []types.Point {
	out := make([]types.Point, len(points))
	for i, p := range points {
		if cached, ok := s.cache.GetPoint(source, target, id, p.Lat, p.Lon); ok {
			out[i] = cached
			continue
		}
		lat, lon := Apply(m, p.Lat, p.Lon)
		out[i] = types.Point{Lat: lat, Lon: lon}
		s.cache.SetPoint(source, target, id, p.Lat, p.Lon, out[i])
	}
	return out
}

func (s *Service) chunkedBatch(ctx context.Context, points []types.Point, m Matrix, source, target types.CoordinateSystem, id types.BridgeID) ([]types.Point, error) {
	n := len(points)
	out := make([]types.Point, n)
	resolved := make([]bool, n)
	limit := s.concurrency()

	// First pass: probe the point cache across workers. Ranges are disjoint
	// so the only contention is inside the cache's own mutex. A fully warm
	// cache short-circuits the transform entirely.
	if s.cfg.EnablePointCache {
		g, _ := errgroup.WithContext(ctx)
		g.SetLimit(limit)
		for lo := 0; lo < n; lo += s.cfg.ChunkSize {
			lo, hi := lo, min(lo+s.cfg.ChunkSize, n)
			g.Go(func() error {
				for i := lo; i < hi; i++ {
					if cached, ok := s.cache.GetPoint(source, target, id, points[i].Lat, points[i].Lon); ok {
						out[i] = cached
						resolved[i] = true
					}
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	pending := make([]int, 0, n)
	for i := range resolved {
		if !resolved[i] {
			pending = append(pending, i)
		}
	}
	if len(pending) == 0 {
		return out, nil
	}

	// Second pass: transform the misses in fixed-size chunks under a bounded
	// worker pool. Each chunk gathers its inputs into contiguous buffers for
	// the vectorized transform and scatters results back into disjoint slots
	// of the shared output, so no locking is needed around out itself.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for lo := 0; lo < len(pending); lo += s.cfg.ChunkSize {
		idx := pending[lo:min(lo+s.cfg.ChunkSize, len(pending))]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			lats := make([]float64, len(idx))
			lons := make([]float64, len(idx))
			for k, i := range idx {
				lats[k] = points[i].Lat
				lons[k] = points[i].Lon
			}
			outLats := make([]float64, len(idx))
			outLons := make([]float64, len(idx))
			TransformChunk(m, lats, lons, outLats, outLons)
			for k, i := range idx {
				out[i] = types.Point{Lat: outLats[k], Lon: outLons[k]}
				s.cache.SetPoint(source, target, id, points[i].Lat, points[i].Lon, out[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.L().Warn("transform_batch_aborted", "err", err, "points", n)
		return nil, err
	}
	return out, nil
}

func (s *Service) concurrency() int {
	limit := s.cfg.MaxConcurrency
	if cpus := runtime.NumCPU(); limit > cpus {
		limit = cpus
	}
	if limit < 1 {
		limit = 1
	}
	return limit
}

func observeBatch(path string, n int, elapsed time.Duration) {
	metrics.TransformBatchesTotal.WithLabelValues(path).Inc()
	metrics.TransformPointsTotal.WithLabelValues(path).Add(float64(n))
	metrics.TransformDurationMs.WithLabelValues(path).Observe(float64(elapsed) / float64(time.Millisecond))
	if secs := elapsed.Seconds(); secs > 0 {
		metrics.TransformPointsPerSecond.WithLabelValues(path).Observe(float64(n) / secs)
	}
}
