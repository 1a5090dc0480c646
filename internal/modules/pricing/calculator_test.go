package pricing

import (
	"errors"
	"testing"

	"github.com/georgemunganga/storefront/internal/apperror"
	"github.com/georgemunganga/storefront/internal/modules/geo"
	"github.com/georgemunganga/storefront/internal/modules/zone"
	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr(d decimal.Decimal) *decimal.Decimal { return &d }

func distanceConfig(max string) Config {
	return Config{
		Method:              MethodDistance,
		PricePerKm:          dec("10"),
		MaxDeliveryDistance: dec(max),
		MinDeliveryFee:      dec("30"),
	}
}

func TestCalculate_Distance(t *testing.T) {
	origin := geo.Coordinate{Latitude: 19.4326, Longitude: -99.1332}
	destination := geo.Coordinate{Latitude: 19.4426, Longitude: -99.1232}
	d, err := geo.Distance(origin, destination)
	require.NoError(t, err)

	t.Run("minimum fee applied within range", func(t *testing.T) {
		res, err := Calculate(distanceConfig("7"), &d, nil, dec("100"))
		require.NoError(t, err)
		assert.True(t, res.IsWithinRange)
		assert.True(t, res.MinimumApplied)
		assert.Equal(t, "30.00", res.Fee.StringFixed(2))
		assert.Equal(t, "1.53", res.Distance.String())
		assert.Contains(t, res.Message, "Minimum delivery fee")
		assert.Equal(t, MethodDistance, res.Method)
	})

	t.Run("beyond the distance cap", func(t *testing.T) {
		res, err := Calculate(distanceConfig("1"), &d, nil, dec("100"))
		require.NoError(t, err)
		assert.False(t, res.IsWithinRange)
		assert.True(t, res.Fee.IsZero())
		assert.Contains(t, res.Message, "exceeds the maximum delivery distance")
	})

	t.Run("computed fee above minimum", func(t *testing.T) {
		res, err := Calculate(distanceConfig("7"), ptr(dec("4.25")), nil, dec("0"))
		require.NoError(t, err)
		assert.False(t, res.MinimumApplied)
		assert.Equal(t, "42.50", res.Fee.StringFixed(2))
		assert.Contains(t, res.Message, "Delivery fee for 4.25 km")
	})

	t.Run("exactly at the cap is within range", func(t *testing.T) {
		res, err := Calculate(distanceConfig("7"), ptr(dec("7")), nil, dec("0"))
		require.NoError(t, err)
		assert.True(t, res.IsWithinRange)
		assert.Equal(t, "70.00", res.Fee.StringFixed(2))
	})

	t.Run("raw fee rounds half up", func(t *testing.T) {
		cfg := distanceConfig("7")
		cfg.PricePerKm = dec("12.5")
		cfg.MinDeliveryFee = decimal.Zero
		res, err := Calculate(cfg, ptr(dec("1.21")), nil, dec("0"))
		require.NoError(t, err)
		// 1.21 * 12.5 = 15.125
		assert.Equal(t, "15.13", res.Fee.StringFixed(2))
	})

	t.Run("distance is required", func(t *testing.T) {
		_, err := Calculate(distanceConfig("7"), nil, nil, dec("0"))
		assert.True(t, errors.Is(err, apperror.InvalidInput))
	})
}

func TestCalculate_Zones(t *testing.T) {
	cfg := Config{Method: MethodZones, BaseDeliveryPrice: dec("50")}
	center := &zone.DeliveryZone{
		ID:                    uuid.New(),
		Name:                  "Center",
		IsActive:              true,
		FixedPrice:            dec("35"),
		FreeDeliveryThreshold: dec("500"),
		EstimatedTimeMinutes:  30,
	}

	t.Run("below threshold pays the zone price", func(t *testing.T) {
		res, err := Calculate(cfg, nil, center, dec("499.99"))
		require.NoError(t, err)
		assert.Equal(t, "35.00", res.Fee.StringFixed(2))
		assert.False(t, res.FreeDelivery)
		assert.Equal(t, "Center", res.ZoneName)
		assert.Equal(t, center.ID, *res.ZoneID)
		assert.Equal(t, 30, res.EstimatedTimeMinutes)
	})

	t.Run("threshold reached is free", func(t *testing.T) {
		res, err := Calculate(cfg, nil, center, dec("500"))
		require.NoError(t, err)
		assert.True(t, res.Fee.IsZero())
		assert.True(t, res.FreeDelivery)
	})

	t.Run("zero threshold is never free", func(t *testing.T) {
		z := *center
		z.FreeDeliveryThreshold = decimal.Zero
		res, err := Calculate(cfg, nil, &z, dec("100000"))
		require.NoError(t, err)
		assert.Equal(t, "35.00", res.Fee.StringFixed(2))
	})

	t.Run("no zone falls back to base price", func(t *testing.T) {
		res, err := Calculate(cfg, nil, nil, dec("10"))
		require.NoError(t, err)
		assert.Equal(t, "50.00", res.Fee.StringFixed(2))
		assert.Contains(t, res.Message, "base delivery fee")
	})

	t.Run("no zone and no base price needs a quote", func(t *testing.T) {
		_, err := Calculate(Config{Method: MethodZones}, nil, nil, dec("10"))
		assert.True(t, errors.Is(err, apperror.NoApplicableZone))
		assert.Equal(t, QuoteMessage, apperror.Message(err))
	})

	t.Run("distance is reported when known", func(t *testing.T) {
		res, err := Calculate(cfg, ptr(dec("3.5")), center, dec("0"))
		require.NoError(t, err)
		require.NotNil(t, res.Distance)
		assert.Equal(t, "3.5", res.Distance.String())
	})
}

func TestCalculate_ManualAndLegacy(t *testing.T) {
	manual := Config{Method: MethodManual, BaseDeliveryPrice: dec("80"), ManualMessage: "Te contactamos por WhatsApp para cotizar el envío"}
	res, err := Calculate(manual, ptr(dec("12")), nil, dec("100"))
	require.NoError(t, err)
	assert.True(t, res.Fee.IsZero())
	assert.Equal(t, manual.ManualMessage, res.Message)

	legacy := Config{Method: MethodLegacy, BaseDeliveryPrice: dec("45.5"), PricePerKm: dec("100")}
	res, err = Calculate(legacy, ptr(dec("12")), &zone.DeliveryZone{Name: "ignored", FixedPrice: dec("1")}, dec("100"))
	require.NoError(t, err)
	assert.Equal(t, "45.50", res.Fee.StringFixed(2))
	assert.Empty(t, res.ZoneName)

	legacy.FreeDeliveryThreshold = dec("100")
	res, err = Calculate(legacy, nil, nil, dec("100"))
	require.NoError(t, err)
	assert.True(t, res.FreeDelivery)
	assert.True(t, res.Fee.IsZero())
}

func TestCalculate_InvalidInput(t *testing.T) {
	cfg := distanceConfig("7")

	_, err := Calculate(cfg, ptr(dec("-0.01")), nil, dec("0"))
	assert.True(t, errors.Is(err, apperror.InvalidInput))

	_, err = Calculate(cfg, ptr(dec("1")), nil, dec("-1"))
	assert.True(t, errors.Is(err, apperror.InvalidInput))

	cfg.MinDeliveryFee = dec("-5")
	_, err = Calculate(cfg, ptr(dec("1")), nil, dec("0"))
	assert.True(t, errors.Is(err, apperror.InvalidInput))

	cfg = distanceConfig("7")
	cfg.MinDeliveryFee = dec("30.004")
	_, err = Calculate(cfg, ptr(dec("1.53")), nil, dec("0"))
	assert.True(t, errors.Is(err, apperror.InvalidInput))
	assert.ErrorContains(t, err, "min delivery fee must have at most two decimal places")

	_, err = Calculate(Config{Method: "PIGEON"}, nil, nil, dec("0"))
	assert.True(t, errors.Is(err, apperror.ConfigurationMalformed))

	_, err = Calculate(Config{Method: MethodZones}, nil, &zone.DeliveryZone{FixedPrice: dec("-1")}, dec("0"))
	assert.True(t, errors.Is(err, apperror.InvalidInput))
}

func TestParseMethod(t *testing.T) {
	tests := map[string]Method{
		"distance": MethodDistance,
		"ZONES":    MethodZones,
		" manual ": MethodManual,
		"":         MethodLegacy,
		"legacy":   MethodLegacy,
	}
	for in, want := range tests {
		got, err := ParseMethod(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseMethod("km")
	assert.True(t, errors.Is(err, apperror.ConfigurationMalformed))
}

func TestCalculateProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	cents := func(max int64) gopter.Gen {
		return gen.Int64Range(0, max).Map(func(v int64) decimal.Decimal { return decimal.New(v, -2) })
	}
	mills := func(max int64) gopter.Gen {
		return gen.Int64Range(0, max).Map(func(v int64) decimal.Decimal { return decimal.New(v, -3) })
	}

	properties.Property("beyond the cap is never priced", prop.ForAll(
		func(max, over, perKm, minFee decimal.Decimal) bool {
			cfg := Config{Method: MethodDistance, MaxDeliveryDistance: max, PricePerKm: perKm, MinDeliveryFee: minFee}
			d := max.Add(over).Add(decimal.New(1, -2))
			res, err := Calculate(cfg, &d, nil, decimal.Zero)
			return err == nil && !res.IsWithinRange && res.Fee.IsZero()
		},
		cents(5000), cents(10000), cents(5000), cents(10000),
	))

	properties.Property("within the cap the fee never drops below the minimum", prop.ForAll(
		func(max, perKm, minFee decimal.Decimal, pct int64) bool {
			cfg := Config{Method: MethodDistance, MaxDeliveryDistance: max, PricePerKm: perKm, MinDeliveryFee: minFee}
			d := max.Mul(decimal.New(pct, -2)).Round(2)
			if d.GreaterThan(max) {
				d = max
			}
			res, err := Calculate(cfg, &d, nil, decimal.Zero)
			if !minFee.Equal(minFee.Round(2)) {
				return errors.Is(err, apperror.InvalidInput)
			}
			return err == nil && res.IsWithinRange && res.Fee.GreaterThanOrEqual(minFee)
		},
		cents(5000), mills(50000), mills(100000), gen.Int64Range(0, 100),
	))

	properties.Property("calculation is idempotent", prop.ForAll(
		func(distance, subtotal, price, threshold decimal.Decimal) bool {
			cfg := Config{Method: MethodZones, BaseDeliveryPrice: price}
			z := &zone.DeliveryZone{ID: uuid.MustParse("7f1b7a6e-0000-4000-8000-000000000001"), Name: "A", IsActive: true, FixedPrice: price, FreeDeliveryThreshold: threshold}
			first, err1 := Calculate(cfg, &distance, z, subtotal)
			second, err2 := Calculate(cfg, &distance, z, subtotal)
			return err1 == nil && err2 == nil &&
				first.Fee.Equal(second.Fee) && first.Message == second.Message &&
				first.FreeDelivery == second.FreeDelivery && first.Distance.Equal(*second.Distance)
		},
		cents(10000), cents(100000), cents(10000), cents(100000),
	))

	properties.Property("zone threshold decides between free and fixed price", prop.ForAll(
		func(subtotal, price, threshold decimal.Decimal) bool {
			threshold = threshold.Add(decimal.New(1, -2))
			z := &zone.DeliveryZone{Name: "A", IsActive: true, FixedPrice: price, FreeDeliveryThreshold: threshold}
			res, err := Calculate(Config{Method: MethodZones}, nil, z, subtotal)
			if err != nil {
				return false
			}
			if subtotal.GreaterThanOrEqual(threshold) {
				return res.Fee.IsZero()
			}
			return res.Fee.Equal(price)
		},
		cents(100000), cents(10000), cents(100000),
	))

	properties.TestingRun(t)
}
