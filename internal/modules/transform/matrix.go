// README: Matrix calculator: built-in system-pair table plus per-bridge calibrations.
package transform

import (
	"context"

	"bridget/internal/types"
)

// CalibrationStore resolves per-bridge matrix overrides. Implementations are
// expected to be cheap or cached by their backing store; the transform
// service additionally caches resolved matrices in the matrix tier.
type CalibrationStore interface {
	// MatrixFor returns the override for the given bridge and system pair.
	// The boolean is false when no override exists; that is not an error.
	MatrixFor(ctx context.Context, id types.BridgeID, source, target types.CoordinateSystem) (Matrix, bool, error)
}

type systemPair struct {
	source, target types.CoordinateSystem
}

// Seattle reference-frame correction measured against surveyed bridge
// positions. The raw feed is offset slightly north-east of the surveyed
// frame; WGS84 and the reference frame coincide.
var defaultPairs = map[systemPair]Matrix{
	{types.SystemRawAPI, types.SystemSeattleReference}: NewMatrix(-0.000180, 0.000240, 1, 1, 0),
	{types.SystemSeattleReference, types.SystemRawAPI}: NewMatrix(0.000180, -0.000240, 1, 1, 0),
	{types.SystemRawAPI, types.SystemWGS84}:            NewMatrix(-0.000180, 0.000240, 1, 1, 0),
	{types.SystemWGS84, types.SystemRawAPI}:            NewMatrix(0.000180, -0.000240, 1, 1, 0),
	{types.SystemSeattleReference, types.SystemWGS84}:  Identity(),
	{types.SystemWGS84, types.SystemSeattleReference}:  Identity(),
}

// Calculator derives the transform matrix for a system pair, preferring a
// per-bridge calibration when one exists.
type Calculator struct {
	calibrations CalibrationStore
	pairs        map[systemPair]Matrix
}

// NewCalculator builds a calculator over the default pair table.
// calibrations may be nil, in which case only the pair table is consulted.
func NewCalculator(calibrations CalibrationStore) *Calculator {
	return &Calculator{calibrations: calibrations, pairs: defaultPairs}
}

// Calculate returns the matrix mapping source to target. Identical systems
// map through the identity matrix. A per-bridge calibration takes precedence
// over the generic pair mapping. An unknown pair fails with
// ErrCalculationFailed.
func (c *Calculator) Calculate(ctx context.Context, source, target types.CoordinateSystem, id types.BridgeID) (Matrix, error) {
	if source == target {
		return Identity(), nil
	}
	if id != "" && c.calibrations != nil {
		m, ok, err := c.calibrations.MatrixFor(ctx, id, source, target)
		if err != nil {
			return Matrix{}, err
		}
		if ok {
			return m, nil
		}
	}
	if m, ok := c.pairs[systemPair{source, target}]; ok {
		return m, nil
	}
	return Matrix{}, ErrCalculationFailed
}
