// README: Calibration store backed by PostgreSQL, plus an in-memory variant.
package transform

import (
	"context"
	"errors"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bridget/internal/types"
)

// Store reads per-bridge calibration rows written by the survey tooling.
type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) MatrixFor(ctx context.Context, id types.BridgeID, source, target types.CoordinateSystem) (Matrix, bool, error) {
	row := s.db.QueryRow(ctx, `
        SELECT lat_offset, lon_offset, lat_scale, lon_scale, rotation_deg
        FROM bridge_calibrations
        WHERE bridge_id = $1 AND source_system = $2 AND target_system = $3`,
		string(id), string(source), string(target),
	)

	var latOff, lonOff, latScale, lonScale, rot float64
	err := row.Scan(&latOff, &lonOff, &latScale, &lonScale, &rot)
	if errors.Is(err, pgx.ErrNoRows) {
		return Matrix{}, false, nil
	}
	if err != nil {
		return Matrix{}, false, err
	}
	return NewMatrix(latOff, lonOff, latScale, lonScale, rot), true, nil
}

// UpsertCalibration replaces the calibration row for a bridge/pair.
func (s *Store) UpsertCalibration(ctx context.Context, id types.BridgeID, source, target types.CoordinateSystem, m Matrix) error {
	_, err := s.db.Exec(ctx, `
        INSERT INTO bridge_calibrations (
            bridge_id, source_system, target_system,
            lat_offset, lon_offset, lat_scale, lon_scale, rotation_deg
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        ON CONFLICT (bridge_id, source_system, target_system)
        DO UPDATE SET lat_offset = $4, lon_offset = $5,
                      lat_scale = $6, lon_scale = $7, rotation_deg = $8`,
		string(id), string(source), string(target),
		m.LatOffset, m.LonOffset, m.LatScale, m.LonScale, m.RotationDeg,
	)
	return err
}

// MemStore is an in-memory CalibrationStore for tests and the bench harness.
type MemStore struct {
	mu   sync.RWMutex
	rows map[calKey]Matrix
}

type calKey struct {
	id             types.BridgeID
	source, target types.CoordinateSystem
}

func NewMemStore() *MemStore {
	return &MemStore{rows: make(map[calKey]Matrix)}
}

func (s *MemStore) Put(id types.BridgeID, source, target types.CoordinateSystem, m Matrix) {
	s.mu.Lock()
	s.rows[calKey{id, source, target}] = m
	s.mu.Unlock()
}

func (s *MemStore) MatrixFor(_ context.Context, id types.BridgeID, source, target types.CoordinateSystem) (Matrix, bool, error) {
	s.mu.RLock()
	m, ok := s.rows[calKey{id, source, target}]
	s.mu.RUnlock()
	return m, ok, nil
}
