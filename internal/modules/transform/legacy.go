// README: Legacy threshold-based coordinate validator, kept as the flag-off path.
package transform

import (
	"errors"

	"bridget/internal/types"
)

// The ingestion feed only carries Seattle-area drawbridges; anything outside
// this box is a feed defect, not a frame mismatch.
const (
	legacyMinLat = 47.20
	legacyMaxLat = 47.90
	legacyMinLon = -122.60
	legacyMaxLon = -122.00
)

// ErrOutOfRange is returned by LegacyValidate for points outside the
// accepted bounding box.
var ErrOutOfRange = errors.New("transform: coordinate outside accepted range")

// LegacyValidate is the pre-transform behavior: it does not correct
// coordinates, it only rejects implausible ones. Batches pass or fail as a
// whole, matching the transform path's all-or-nothing contract.
func LegacyValidate(points []types.Point) error {
	for _, p := range points {
		if !p.Valid() {
			return ErrInvalidCoordinate
		}
		if p.Lat < legacyMinLat || p.Lat > legacyMaxLat ||
			p.Lon < legacyMinLon || p.Lon > legacyMaxLon {
			return ErrOutOfRange
		}
	}
	return nil
}
