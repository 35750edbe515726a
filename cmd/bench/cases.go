// README: Benchmark cases over batch sizes, cache states, and rotation.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"bridget/internal/config"
	"bridget/internal/modules/transform"
	"bridget/internal/types"
)

// Report is the regression-comparison artifact. Field names are stable;
// downstream tooling diffs these files between runs.
type Report struct {
	Name              string  `json:"name"`
	N                 int     `json:"n"`
	P50Ms             float64 `json:"p50"`
	P95Ms             float64 `json:"p95"`
	ThroughputPtsPerS float64 `json:"throughputPtsPerS"`
	Notes             string  `json:"notes"`
}

type Case struct {
	Name     string
	N        int
	Notes    string
	Rotation float64
	// WarmCache runs one untimed pass first so every timed pass hits the
	// point cache.
	WarmCache bool
	// DisablePointCache benches the pure transform path.
	DisablePointCache bool
}

type Runner struct {
	cfg Config
}

func NewRunner(cfg Config) *Runner {
	return &Runner{cfg: cfg}
}

func (r *Runner) cases() []Case {
	return []Case{
		{Name: "scalar path, cold", N: 16, Notes: "below chunk threshold", DisablePointCache: true},
		{Name: "chunked, cold, 1k", N: 1_000, Notes: "cold point cache", DisablePointCache: true},
		{Name: "chunked, cold, 10k", N: 10_000, Notes: "cold point cache", DisablePointCache: true},
		{Name: "chunked, cold, 100k", N: 100_000, Notes: "cold point cache", DisablePointCache: true},
		{Name: "chunked, warm, 10k", N: 10_000, Notes: "full point cache hit", WarmCache: true},
		{Name: "rotation fallback, 10k", N: 10_000, Notes: "scalar per element under rotation", Rotation: 0.5, DisablePointCache: true},
	}
}

func (r *Runner) RunAll(ctx context.Context) ([]Report, error) {
	cases := r.cases()
	reports := make([]Report, 0, len(cases))
	for _, tc := range cases {
		rep, err := r.run(ctx, tc)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", tc.Name, err)
		}
		fmt.Printf("DONE    %s (p50=%.3fms)\n", tc.Name, rep.P50Ms)
		reports = append(reports, rep)
	}
	return reports, nil
}

func (r *Runner) run(ctx context.Context, tc Case) (Report, error) {
	svc := newBenchService(tc)
	points := seattlePoints(tc.N)
	source, target := types.SystemRawAPI, types.SystemSeattleReference
	id := types.BridgeID("bench-bridge")

	if tc.WarmCache {
		if _, err := svc.TransformBatch(ctx, points, source, target, id); err != nil {
			return Report{}, err
		}
	}

	durations := make([]time.Duration, 0, r.cfg.Iterations)
	var total time.Duration
	for i := 0; i < r.cfg.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return Report{}, err
		}
		start := time.Now()
		if _, err := svc.TransformBatch(ctx, points, source, target, id); err != nil {
			return Report{}, err
		}
		d := time.Since(start)
		durations = append(durations, d)
		total += d
	}

	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })
	throughput := 0.0
	if secs := total.Seconds(); secs > 0 {
		throughput = float64(tc.N*r.cfg.Iterations) / secs
	}
	return Report{
		Name:              tc.Name,
		N:                 tc.N,
		P50Ms:             ms(percentile(durations, 0.50)),
		P95Ms:             ms(percentile(durations, 0.95)),
		ThroughputPtsPerS: throughput,
		Notes:             tc.Notes,
	}, nil
}

func newBenchService(tc Case) *transform.Service {
	calibrations := transform.NewMemStore()
	if tc.Rotation != 0 {
		calibrations.Put("bench-bridge", types.SystemRawAPI, types.SystemSeattleReference,
			transform.NewMatrix(-0.000180, 0.000240, 1, 1, tc.Rotation))
	}
	cache := transform.NewCache(transform.CacheConfig{
		MatrixCapacity:   128,
		PointCapacity:    200_000,
		EnablePointCache: !tc.DisablePointCache,
		QuantizeDecimals: 6,
	})
	return transform.NewService(transform.NewCalculator(calibrations), cache, config.TransformConfig{
		EnablePointCache: !tc.DisablePointCache,
		ScalarThreshold:  32,
		ChunkSize:        256,
		MaxConcurrency:   8,
	})
}

// seattlePoints generates a deterministic spread around the ship canal so
// runs are comparable between invocations.
func seattlePoints(n int) []types.Point {
	rng := rand.New(rand.NewSource(42))
	points := make([]types.Point, n)
	for i := range points {
		points[i] = types.Point{
			Lat: 47.65 + rng.Float64()*0.05,
			Lon: -122.40 + rng.Float64()*0.08,
		}
	}
	return points
}

func percentile(sorted []time.Duration, q float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(q * float64(len(sorted)-1))
	return sorted[idx]
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
