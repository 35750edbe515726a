// README: Scalar affine application; the reference semantics for all paths.
package transform

import "math"

const (
	deg2rad = math.Pi / 180.0
	rad2deg = 180.0 / math.Pi
)

// Apply transforms a single point: translate, then scale, then rotate.
// The rotation is a simplified planar small-angle rotation, acceptable only
// because bridge offsets are small. The step order is load-bearing: the
// vectorized path and every cached result assume exactly this sequence, so
// do not "correct" it without invalidating both.
func Apply(m Matrix, lat, lon float64) (float64, float64) {
	lat += m.LatOffset
	lon += m.LonOffset
	lat *= m.LatScale
	lon *= m.LonScale

	if m.RotationDeg != 0 {
		rot := m.RotationDeg * deg2rad
		sin, cos := math.Sincos(rot)
		latRad := lat * deg2rad
		lonRad := lon * deg2rad
		rLat := latRad*cos - lonRad*sin
		rLon := latRad*sin + lonRad*cos
		lat = rLat * rad2deg
		lon = rLon * rad2deg
	}
	return lat, lon
}
