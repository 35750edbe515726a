package transform

import (
	"context"
	"errors"
	"math"
	"testing"

	"bridget/internal/config"
	"bridget/internal/types"
)

func newTestService(enablePoints bool) *Service {
	cache := NewCache(CacheConfig{
		MatrixCapacity:   16,
		PointCapacity:    50_000,
		EnablePointCache: enablePoints,
		QuantizeDecimals: 6,
	})
	return NewService(NewCalculator(NewMemStore()), cache, config.TransformConfig{
		EnablePointCache: enablePoints,
		ScalarThreshold:  32,
		ChunkSize:        64,
		MaxConcurrency:   4,
	})
}

func seattleBatch(n int) []types.Point {
	points := make([]types.Point, n)
	for i := range points {
		points[i] = types.Point{
			Lat: 47.5 + float64(i%1000)*0.0001,
			Lon: -122.4 + float64(i%997)*0.0001,
		}
	}
	return points
}

func TestTransformBatch_EmptyInput(t *testing.T) {
	svc := newTestService(true)
	out, err := svc.TransformBatch(context.Background(), nil, types.SystemRawAPI, types.SystemSeattleReference, "b1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("len(out) = %d, want 0", len(out))
	}
}

func TestTransformBatch_UnknownPairAbortsWhole(t *testing.T) {
	svc := newTestService(true)
	svc.calc.pairs = map[systemPair]Matrix{}
	out, err := svc.TransformBatch(context.Background(), seattleBatch(10), types.SystemRawAPI, types.SystemWGS84, "")
	if !errors.Is(err, ErrCalculationFailed) {
		t.Fatalf("err = %v, want ErrCalculationFailed", err)
	}
	if out != nil {
		t.Error("failed batch must not return partial results")
	}
}

func TestTransformBatch_RejectsInvalidCoordinates(t *testing.T) {
	svc := newTestService(true)
	points := seattleBatch(5)
	points[3].Lon = math.NaN()
	_, err := svc.TransformBatch(context.Background(), points, types.SystemRawAPI, types.SystemSeattleReference, "b1")
	if !errors.Is(err, ErrInvalidCoordinate) {
		t.Fatalf("err = %v, want ErrInvalidCoordinate", err)
	}
}

func TestTransformBatch_ScalarPathMatchesApply(t *testing.T) {
	svc := newTestService(false)
	points := seattleBatch(8) // below threshold
	out, err := svc.TransformBatch(context.Background(), points, types.SystemRawAPI, types.SystemSeattleReference, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m, _ := svc.calc.Calculate(context.Background(), types.SystemRawAPI, types.SystemSeattleReference, "")
	for i, p := range points {
		wantLat, wantLon := Apply(m, p.Lat, p.Lon)
		if out[i].Lat != wantLat || out[i].Lon != wantLon {
			t.Fatalf("out[%d] = %+v, want (%v, %v)", i, out[i], wantLat, wantLon)
		}
	}
}

func TestTransformBatch_OrderPreserved(t *testing.T) {
	svc := newTestService(true)
	points := seattleBatch(10_000)
	out, err := svc.TransformBatch(context.Background(), points, types.SystemRawAPI, types.SystemSeattleReference, "b1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != len(points) {
		t.Fatalf("len(out) = %d, want %d", len(out), len(points))
	}
	m, _ := svc.calc.Calculate(context.Background(), types.SystemRawAPI, types.SystemSeattleReference, "b1")
	for i, p := range points {
		wantLat, wantLon := Apply(m, p.Lat, p.Lon)
		if out[i].Lat != wantLat || out[i].Lon != wantLon {
			t.Fatalf("out[%d] does not correspond to points[%d]: got %+v, want (%v, %v)",
				i, i, out[i], wantLat, wantLon)
		}
	}
}

func TestTransformBatch_WarmPointCacheShortCircuits(t *testing.T) {
	svc := newTestService(true)
	points := seattleBatch(500)
	ctx := context.Background()

	first, err := svc.TransformBatch(ctx, points, types.SystemRawAPI, types.SystemSeattleReference, "b1")
	if err != nil {
		t.Fatalf("first batch: %v", err)
	}
	statsBefore := svc.cache.Stats()

	second, err := svc.TransformBatch(ctx, points, types.SystemRawAPI, types.SystemSeattleReference, "b1")
	if err != nil {
		t.Fatalf("second batch: %v", err)
	}
	statsAfter := svc.cache.Stats()

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("warm result diverged at %d: %+v vs %+v", i, first[i], second[i])
		}
	}
	gotHits := statsAfter.Point.Hits - statsBefore.Point.Hits
	if gotHits != uint64(len(points)) {
		t.Errorf("point hits on warm run = %d, want %d", gotHits, len(points))
	}
}

func TestTransformBatch_RotationMatrixViaOverride(t *testing.T) {
	svc := newTestService(false)
	store := NewMemStore()
	rot := NewMatrix(0.001, 0.001, 1, 1, 2.0)
	store.Put("b-rot", types.SystemRawAPI, types.SystemSeattleReference, rot)
	svc.calc = NewCalculator(store)

	points := seattleBatch(300)
	out, err := svc.TransformBatch(context.Background(), points, types.SystemRawAPI, types.SystemSeattleReference, "b-rot")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, p := range points {
		wantLat, wantLon := Apply(rot, p.Lat, p.Lon)
		if out[i].Lat != wantLat || out[i].Lon != wantLon {
			t.Fatalf("rotated chunk diverged from scalar at %d", i)
		}
	}
}

func TestTransform_SinglePoint(t *testing.T) {
	svc := newTestService(true)
	p := types.Point{Lat: 47.6062, Lon: -122.3321}
	out, err := svc.Transform(context.Background(), p, types.SystemRawAPI, types.SystemSeattleReference, "b1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m, _ := svc.calc.Calculate(context.Background(), types.SystemRawAPI, types.SystemSeattleReference, "b1")
	wantLat, wantLon := Apply(m, p.Lat, p.Lon)
	if out.Lat != wantLat || out.Lon != wantLon {
		t.Errorf("Transform = %+v, want (%v, %v)", out, wantLat, wantLon)
	}

	// Second call comes from the point cache and must be identical.
	again, err := svc.Transform(context.Background(), p, types.SystemRawAPI, types.SystemSeattleReference, "b1")
	if err != nil || again != out {
		t.Errorf("cached Transform = (%+v, %v), want (%+v, nil)", again, err, out)
	}
}
