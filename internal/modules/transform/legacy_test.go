package transform

import (
	"errors"
	"math"
	"testing"

	"bridget/internal/types"
)

func TestLegacyValidate(t *testing.T) {
	tests := []struct {
		name    string
		points  []types.Point
		wantErr error
	}{
		{
			name:   "empty batch passes",
			points: nil,
		},
		{
			name:   "seattle bridges pass",
			points: []types.Point{{Lat: 47.6580, Lon: -122.3760}, {Lat: 47.5980, Lon: -122.3340}},
		},
		{
			name:    "out of area fails",
			points:  []types.Point{{Lat: 40.7128, Lon: -74.0060}},
			wantErr: ErrOutOfRange,
		},
		{
			name:    "nan fails before range check",
			points:  []types.Point{{Lat: math.NaN(), Lon: -122.3}},
			wantErr: ErrInvalidCoordinate,
		},
		{
			name:    "one bad point fails the batch",
			points:  []types.Point{{Lat: 47.65, Lon: -122.37}, {Lat: 48.5, Lon: -122.3}},
			wantErr: ErrOutOfRange,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := LegacyValidate(tt.points)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("LegacyValidate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
