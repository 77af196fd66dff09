package kernel

import (
	"errors"
	"fmt"
	"math"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// Valid coordinate bounds for WGS84 (decimal degrees).
const (
	LatitudeMin  = -90.0
	LatitudeMax  = 90.0
	LongitudeMin = -180.0
	LongitudeMax = 180.0
)

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371.0

// ErrGeoPointIsNotConstructed is returned when using an improperly initialized
// GeoPoint. Points must be created via the NewGeoPoint constructor.
var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError(
	"geo point must be created via NewGeoPoint constructor")

// GeoPoint is an immutable value object for a position on the Earth's surface
// in decimal degrees. The zero value is invalid and fails Validate; use the
// constructor so coordinates are always within bounds.
//
// Example:
//
//	p, err := kernel.NewGeoPoint(28.6139, 77.2090)
//	if err != nil {
//	    // out-of-range coordinates
//	}
type GeoPoint struct { //nolint:recvcheck // pointer receivers on private setters for construction-time validation
	latitude  float64
	longitude float64
	guard     guard.ConstructorGuard
}

// NewGeoPoint creates a GeoPoint from latitude and longitude in decimal
// degrees. Returns an out-of-range error if either coordinate is outside its
// valid bounds; both errors are reported together when both are invalid.
func NewGeoPoint(latitude, longitude float64) (GeoPoint, error) {
	point := GeoPoint{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(point.setLatitude(latitude), point.setLongitude(longitude)); err != nil {
		return GeoPoint{}, err
	}

	return point, nil
}

// Validate checks that the GeoPoint was built through the constructor.
// The zero value fails with ErrGeoPointIsNotConstructed.
func (p GeoPoint) Validate() error {
	return p.guard.Validate(ErrGeoPointIsNotConstructed)
}

// Latitude returns the latitude in decimal degrees.
func (p GeoPoint) Latitude() float64 {
	return p.latitude
}

// Longitude returns the longitude in decimal degrees.
func (p GeoPoint) Longitude() float64 {
	return p.longitude
}

// String implements fmt.Stringer as "GeoPoint(lat,lon)".
func (p GeoPoint) String() string {
	return fmt.Sprintf("GeoPoint(%g,%g)", p.latitude, p.longitude)
}

// IsEqual compares two points for coordinate equality. Both points must be
// properly constructed.
func (p GeoPoint) IsEqual(other GeoPoint) (bool, error) {
	if err := errors.Join(p.Validate(), other.Validate()); err != nil {
		return false, err
	}

	return p.latitude == other.latitude && p.longitude == other.longitude, nil
}

// DistanceKm returns the great-circle distance to other in kilometers using
// the haversine formula. The result is symmetric and zero for equal points.
func (p GeoPoint) DistanceKm(other GeoPoint) (float64, error) {
	if err := errors.Join(p.Validate(), other.Validate()); err != nil {
		return 0, err
	}

	dLat := toRadians(other.latitude - p.latitude)
	dLon := toRadians(other.longitude - p.longitude)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(p.latitude))*math.Cos(toRadians(other.latitude))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c, nil
}

// setLatitude sets the latitude with bounds validation.
// Pointer receiver on a private setter enables self-encapsulated validation
// during construction while the public API stays value-based.
func (p *GeoPoint) setLatitude(latitude float64) error {
	if latitude < LatitudeMin || latitude > LatitudeMax {
		return errs.NewValueIsOutOfRangeError("latitude", latitude, LatitudeMin, LatitudeMax)
	}

	p.latitude = latitude
	return nil
}

// setLongitude sets the longitude with bounds validation.
func (p *GeoPoint) setLongitude(longitude float64) error {
	if longitude < LongitudeMin || longitude > LongitudeMax {
		return errs.NewValueIsOutOfRangeError("longitude", longitude, LongitudeMin, LongitudeMax)
	}

	p.longitude = longitude
	return nil
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
