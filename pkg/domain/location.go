package domain

import (
	"math"

	dErrors "lifeline/pkg/domain-errors"
)

// EarthRadiusKM is the mean Earth radius used for great-circle distances.
const EarthRadiusKM = 6371.0

// Location is a point in decimal degrees.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// NewLocation validates coordinate ranges.
func NewLocation(lat, lon float64) (Location, error) {
	l := Location{Lat: lat, Lon: lon}
	if err := l.Validate(); err != nil {
		return Location{}, err
	}
	return l, nil
}

func (l Location) Validate() error {
	if math.IsNaN(l.Lat) || l.Lat < -90 || l.Lat > 90 {
		return dErrors.Newf(dErrors.CodeValidation, "latitude %v out of range", l.Lat)
	}
	if math.IsNaN(l.Lon) || l.Lon < -180 || l.Lon > 180 {
		return dErrors.Newf(dErrors.CodeValidation, "longitude %v out of range", l.Lon)
	}
	return nil
}

// DistanceKM returns the Haversine distance between two points in kilometres.
func (l Location) DistanceKM(other Location) float64 {
	lat1 := l.Lat * math.Pi / 180
	lat2 := other.Lat * math.Pi / 180
	dLat := (other.Lat - l.Lat) * math.Pi / 180
	dLon := (other.Lon - l.Lon) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKM * c
}
