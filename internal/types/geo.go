// README: Common geospatial value objects used across modules.
package types

import "math"

// BridgeID identifies a drawbridge in the ingestion feed.
type BridgeID string

// Point is a WGS84-style latitude/longitude pair in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether both components are finite numbers.
func (p Point) Valid() bool {
	return !math.IsNaN(p.Lat) && !math.IsInf(p.Lat, 0) &&
		!math.IsNaN(p.Lon) && !math.IsInf(p.Lon, 0)
}

// CoordinateSystem names a geospatial reference frame. It is only ever used
// as a lookup key component, never mutated.
type CoordinateSystem string

const (
	// SystemRawAPI is the frame of coordinates as they arrive from the
	// bridge-event ingestion feed.
	SystemRawAPI CoordinateSystem = "rawAPI"
	// SystemSeattleReference is the corrected reference frame used by the
	// route planner.
	SystemSeattleReference CoordinateSystem = "seattleReference"
	// SystemWGS84 is plain WGS84.
	SystemWGS84 CoordinateSystem = "wgs84"
)

// KnownSystem reports whether s is one of the enumerated frames.
func KnownSystem(s CoordinateSystem) bool {
	switch s {
	case SystemRawAPI, SystemSeattleReference, SystemWGS84:
		return true
	}
	return false
}
