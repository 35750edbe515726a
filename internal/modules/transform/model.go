// README: Transform value objects: matrices, cache keys, quantization.
package transform

import (
	"errors"
	"math"
	"time"

	"bridget/internal/types"
)

var (
	// ErrCalculationFailed means no matrix mapping exists for the requested
	// system pair (and no per-bridge calibration covers it).
	ErrCalculationFailed = errors.New("transform: no matrix mapping for system pair")
	// ErrInvalidCoordinate means a point contained NaN or an infinity.
	ErrInvalidCoordinate = errors.New("transform: coordinate is NaN or infinite")
)

// Matrix is an affine geocoordinate transform. Instances are never mutated;
// every change produces a new value.
type Matrix struct {
	LatOffset   float64 `json:"latOffset"`
	LonOffset   float64 `json:"lonOffset"`
	LatScale    float64 `json:"latScale"`
	LonScale    float64 `json:"lonScale"`
	RotationDeg float64 `json:"rotationDeg"`
}

// Identity returns the identity matrix (unit scales, zero offsets and rotation).
func Identity() Matrix {
	return Matrix{LatScale: 1, LonScale: 1}
}

// NewMatrix fills in identity-safe defaults for zero scales.
func NewMatrix(latOffset, lonOffset, latScale, lonScale, rotationDeg float64) Matrix {
	if latScale == 0 {
		latScale = 1
	}
	if lonScale == 0 {
		lonScale = 1
	}
	return Matrix{
		LatOffset:   latOffset,
		LonOffset:   lonOffset,
		LatScale:    latScale,
		LonScale:    lonScale,
		RotationDeg: rotationDeg,
	}
}

// IsIdentity reports whether applying m leaves every point unchanged.
func (m Matrix) IsIdentity() bool {
	return m.LatOffset == 0 && m.LonOffset == 0 &&
		m.LatScale == 1 && m.LonScale == 1 && m.RotationDeg == 0
}

// MatrixKey identifies a cached matrix. Version comes from the cache's
// global invalidation counter; bumping it orphans all outstanding keys.
type MatrixKey struct {
	Source   types.CoordinateSystem
	Target   types.CoordinateSystem
	BridgeID types.BridgeID
	Version  uint64
}

// PointKey identifies a cached transformed point. Coordinates are quantized
// so that spatially clustered traffic shares entries.
type PointKey struct {
	Source   types.CoordinateSystem
	Target   types.CoordinateSystem
	BridgeID types.BridgeID
	QLat     float64
	QLon     float64
	Version  uint64
}

// Quantize rounds v to the given number of decimal places.
func Quantize(v float64, decimals int) float64 {
	p := math.Pow10(decimals)
	return math.Round(v*p) / p
}

// entryMeta tracks per-entry access statistics. Refreshed on every hit,
// initialized on insert.
type entryMeta struct {
	createdAt   time.Time
	lastAccess  time.Time
	accessCount uint64
	memBytes    int
}
