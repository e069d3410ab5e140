package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "lifeline/pkg/domain-errors"
)

func TestLocation(t *testing.T) {
	t.Run("distance to self is zero", func(t *testing.T) {
		l := Location{Lat: 51.5, Lon: -0.12}
		assert.InDelta(t, 0, l.DistanceKM(l), 1e-9)
	})

	t.Run("one degree of latitude is about 111 km", func(t *testing.T) {
		a := Location{Lat: 0, Lon: 0}
		b := Location{Lat: 1, Lon: 0}
		assert.InDelta(t, 111.19, a.DistanceKM(b), 0.01)
		assert.InDelta(t, a.DistanceKM(b), b.DistanceKM(a), 1e-9)
	})

	t.Run("rejects out of range coordinates", func(t *testing.T) {
		for _, l := range []Location{{Lat: 91}, {Lat: -91}, {Lon: 181}, {Lat: math.NaN()}} {
			_, err := NewLocation(l.Lat, l.Lon)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		}
	})
}
