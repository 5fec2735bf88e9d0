package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouteRecord_Validate(t *testing.T) {
	tests := []struct {
		name    string
		rec     RouteRecord
		wantErr string
	}{
		{name: "valid", rec: RouteRecord{Passengers: 10, FromLat: 1, FromLon: 2, ToLat: 3, ToLon: 4}},
		{name: "zero passengers", rec: RouteRecord{}},
		{name: "negative passengers", rec: RouteRecord{Passengers: -5}, wantErr: "negative"},
		{name: "NaN latitude", rec: RouteRecord{FromLat: math.NaN()}, wantErr: "From_Lat"},
		{name: "infinite longitude", rec: RouteRecord{ToLon: math.Inf(1)}, wantErr: "To_Lon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rec.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
