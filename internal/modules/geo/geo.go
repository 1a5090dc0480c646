package geo

import (
	"math"

	"github.com/georgemunganga/storefront/internal/apperror"
	"github.com/shopspring/decimal"
)

// EarthRadiusKm is the mean Earth radius used by Distance.
const EarthRadiusKm = 6371.0

// Coordinate is a WGS 84 point.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate rejects NaN and out-of-range coordinates.
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Latitude) || c.Latitude < -90 || c.Latitude > 90 {
		return apperror.Newf(apperror.InvalidInput, "latitude %v must be between -90 and 90", c.Latitude)
	}
	if math.IsNaN(c.Longitude) || c.Longitude < -180 || c.Longitude > 180 {
		return apperror.Newf(apperror.InvalidInput, "longitude %v must be between -180 and 180", c.Longitude)
	}
	return nil
}

// Distance returns the great-circle distance between a and b in kilometers,
// rounded to two decimals.
func Distance(a, b Coordinate) (decimal.Decimal, error) {
	if err := a.Validate(); err != nil {
		return decimal.Zero, err
	}
	if err := b.Validate(); err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromFloat(haversineKm(a, b)).Round(2), nil
}

func haversineKm(a, b Coordinate) float64 {
	rad := func(d float64) float64 { return d * math.Pi / 180.0 }
	dlat := rad(b.Latitude - a.Latitude)
	dlng := rad(b.Longitude - a.Longitude)
	h := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(rad(a.Latitude))*math.Cos(rad(b.Latitude))*math.Sin(dlng/2)*math.Sin(dlng/2)
	// Float error can push h a hair past 1 for antipodal points.
	h = math.Min(1, math.Max(0, h))
	return 2 * EarthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
