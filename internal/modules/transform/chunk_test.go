package transform

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func randomCoords(n int, seed int64) ([]float64, []float64) {
	rng := rand.New(rand.NewSource(seed))
	lats := make([]float64, n)
	lons := make([]float64, n)
	for i := 0; i < n; i++ {
		lats[i] = 47.5 + rng.Float64()*0.4
		lons[i] = -122.5 + rng.Float64()*0.5
	}
	return lats, lons
}

// The vectorized fast path must match the scalar applier elementwise for
// rotation-free matrices, bit for bit, including ragged tail sizes.
func TestTransformChunk_MatchesScalar(t *testing.T) {
	m := NewMatrix(-0.000180, 0.000240, 1.0000002, 0.9999998, 0)
	for _, n := range []int{0, 1, 3, 4, 7, 8, 63, 64, 100, 1023} {
		lats, lons := randomCoords(n, int64(n)+1)
		outLats := make([]float64, n)
		outLons := make([]float64, n)
		TransformChunk(m, lats, lons, outLats, outLons)

		wantLats := make([]float64, n)
		wantLons := make([]float64, n)
		for i := 0; i < n; i++ {
			wantLats[i], wantLons[i] = Apply(m, lats[i], lons[i])
		}
		if diff := cmp.Diff(wantLats, outLats); diff != "" {
			t.Errorf("n=%d lats mismatch (-want +got):\n%s", n, diff)
		}
		if diff := cmp.Diff(wantLons, outLons); diff != "" {
			t.Errorf("n=%d lons mismatch (-want +got):\n%s", n, diff)
		}
	}
}

func TestTransformChunk_RotationFallbackMatchesScalar(t *testing.T) {
	m := NewMatrix(0.001, -0.002, 1, 1, 1.5)
	lats, lons := randomCoords(257, 9)
	outLats := make([]float64, len(lats))
	outLons := make([]float64, len(lons))
	TransformChunk(m, lats, lons, outLats, outLons)

	for i := range lats {
		wantLat, wantLon := Apply(m, lats[i], lons[i])
		if outLats[i] != wantLat || outLons[i] != wantLon {
			t.Fatalf("i=%d got (%v, %v), want (%v, %v)", i, outLats[i], outLons[i], wantLat, wantLon)
		}
	}
}

func TestTransformChunk_IdentityLeavesInput(t *testing.T) {
	lats, lons := randomCoords(65, 3)
	outLats := make([]float64, len(lats))
	outLons := make([]float64, len(lons))
	TransformChunk(Identity(), lats, lons, outLats, outLons)

	if diff := cmp.Diff(lats, outLats); diff != "" {
		t.Errorf("identity changed lats:\n%s", diff)
	}
	if diff := cmp.Diff(lons, outLons); diff != "" {
		t.Errorf("identity changed lons:\n%s", diff)
	}
}
