package storeconfig

import (
	"errors"
	"strings"
	"testing"

	"github.com/georgemunganga/storefront/internal/apperror"
	"github.com/georgemunganga/storefront/internal/modules/pricing"
	"github.com/georgemunganga/storefront/internal/modules/schedule"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validSchedule = `{
  "operatingHours": {
    "monday":    {"isOpen": true,  "periods": [{"open": "09:00", "close": "13:00"}, {"open": "14:00", "close": "22:00"}]},
    "tuesday":   {"isOpen": true,  "periods": [{"open": "09:00", "close": "22:00"}]},
    "wednesday": {"isOpen": true,  "periods": [{"open": "09:00", "close": "22:00"}]},
    "thursday":  {"isOpen": true,  "periods": [{"open": "09:00", "close": "22:00"}]},
    "friday":    {"isOpen": true,  "periods": [{"open": "09:00", "close": "23:00"}]},
    "saturday":  {"isOpen": true,  "periods": [{"open": "10:00", "close": "23:00"}]},
    "sunday":    {"isOpen": false, "periods": null}
  },
  "deliveryOptions": {
    "enabled": true, "immediate": true, "scheduled": true, "pickup": true,
    "minAdvanceHours": 2, "maxAdvanceDays": 7, "useOperatingHours": true
  },
  "exceptions": [{"date": "2024-12-25", "isOpen": false, "reason": "Christmas"}],
  "timezone": "UTC"
}`

func ptr(f float64) *float64 { return &f }

func validRecord() *Record {
	return &Record{
		StoreID:                   uuid.MustParse("6f1c2b7e-1d4a-4c36-9d8e-0a3f5b1c2d3e"),
		Name:                      "Corner Shop",
		DeliveryEnabled:           true,
		Latitude:                  ptr(14.6349),
		Longitude:                 ptr(-90.5069),
		DeliveryCalculationMethod: "distance",
		PricePerKm:                decimal.NewFromInt(5),
		MaxDeliveryDistance:       decimal.NewNullDecimal(decimal.NewFromInt(10)),
		MinDeliveryFee:            decimal.NewFromInt(30),
		Schedule:                  []byte(validSchedule),
	}
}

func TestDecode_ValidRecord(t *testing.T) {
	cfg, err := Decode(validRecord())
	require.NoError(t, err)

	assert.Equal(t, "Corner Shop", cfg.Name)
	assert.Equal(t, pricing.MethodDistance, cfg.Pricing.Method)
	assert.True(t, cfg.Pricing.MaxDeliveryDistance.Equal(decimal.NewFromInt(10)))
	require.NotNil(t, cfg.Origin)
	assert.Equal(t, 14.6349, cfg.Origin.Latitude)

	require.NotNil(t, cfg.Schedule)
	assert.Len(t, cfg.Schedule.OperatingHours, 7)
	assert.Len(t, cfg.Schedule.OperatingHours[schedule.Monday].Periods, 2)
	assert.False(t, cfg.Schedule.OperatingHours[schedule.Sunday].IsOpen)
	assert.Equal(t, 2, cfg.Schedule.DeliveryOptions.MinAdvanceHours)
	require.Len(t, cfg.Schedule.Exceptions, 1)
	assert.Equal(t, "Christmas", cfg.Schedule.Exceptions[0].Reason)
}

func TestDecode_Defaults(t *testing.T) {
	rec := validRecord()
	rec.MaxDeliveryDistance = decimal.NullDecimal{}
	rec.DeliveryCalculationMethod = ""
	rec.Latitude = nil
	rec.Schedule = nil

	cfg, err := Decode(rec)
	require.NoError(t, err)
	assert.True(t, cfg.Pricing.MaxDeliveryDistance.Equal(decimal.NewFromInt(7)))
	assert.Equal(t, pricing.MethodLegacy, cfg.Pricing.Method)
	assert.Nil(t, cfg.Origin, "half a coordinate is no coordinate")
	assert.Nil(t, cfg.Schedule)
}

func TestDecode_NullSchedule(t *testing.T) {
	rec := validRecord()
	rec.Schedule = []byte("  null ")
	cfg, err := Decode(rec)
	require.NoError(t, err)
	assert.Nil(t, cfg.Schedule)
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Record)
		msg    string
	}{
		{
			name:   "unknown method",
			mutate: func(r *Record) { r.DeliveryCalculationMethod = "teleport" },
			msg:    "store delivery pricing method is invalid",
		},
		{
			name:   "negative price per km",
			mutate: func(r *Record) { r.PricePerKm = decimal.NewFromInt(-1) },
			msg:    "store delivery pricing is invalid",
		},
		{
			name:   "minimum fee below a cent",
			mutate: func(r *Record) { r.MinDeliveryFee = decimal.RequireFromString("30.004") },
			msg:    "store delivery pricing is invalid",
		},
		{
			name:   "latitude out of range",
			mutate: func(r *Record) { r.Latitude = ptr(95) },
			msg:    "store location is invalid",
		},
		{
			name: "negative zone price",
			mutate: func(r *Record) {
				r.Zones = []ZoneRecord{{ID: uuid.New(), Name: "A", IsActive: true, FixedPrice: decimal.NewFromInt(-5)}}
			},
			msg: "delivery zone is invalid",
		},
		{
			name:   "schedule is not JSON",
			mutate: func(r *Record) { r.Schedule = []byte(`{"operatingHours":`) },
			msg:    "schedule document is not valid JSON",
		},
		{
			name:   "schedule misses a day",
			mutate: func(r *Record) { r.Schedule = []byte(`{"operatingHours":{"monday":{"isOpen":true}},"deliveryOptions":{"enabled":true}}`) },
			msg:    "schedule document does not match the schedule schema",
		},
		{
			name: "schedule has a bad clock",
			mutate: func(r *Record) {
				r.Schedule = []byte(replaceOnce(validSchedule, `"close": "22:00"`, `"close": "24:00"`))
			},
			msg: "schedule document does not match the schedule schema",
		},
		{
			name: "schedule has overlapping periods",
			mutate: func(r *Record) {
				r.Schedule = []byte(replaceOnce(validSchedule, `{"open": "14:00", "close": "22:00"}`, `{"open": "12:00", "close": "22:00"}`))
			},
			msg: "schedule document is inconsistent",
		},
		{
			name: "schedule has touching periods",
			mutate: func(r *Record) {
				r.Schedule = []byte(replaceOnce(validSchedule, `{"open": "14:00", "close": "22:00"}`, `{"open": "13:00", "close": "22:00"}`))
			},
			msg: "schedule document is inconsistent",
		},
		{
			name: "schedule lead time beyond a year",
			mutate: func(r *Record) {
				r.Schedule = []byte(replaceOnce(validSchedule, `"maxAdvanceDays": 7`, `"maxAdvanceDays": 200000`))
			},
			msg: "schedule document does not match the schedule schema",
		},
		{
			name: "schedule has an unknown timezone",
			mutate: func(r *Record) {
				r.Schedule = []byte(replaceOnce(validSchedule, `"timezone": "UTC"`, `"timezone": "Mars/Olympus"`))
			},
			msg: "schedule document is inconsistent",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := validRecord()
			tt.mutate(rec)
			_, err := Decode(rec)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperror.ConfigurationMalformed))
			assert.Equal(t, apperror.ConfigurationMalformed, apperror.KindOf(err))
			assert.Equal(t, tt.msg, apperror.Message(err))
		})
	}
}

func replaceOnce(s, old, repl string) string {
	if !strings.Contains(s, old) {
		panic("fixture does not contain " + old)
	}
	return strings.Replace(s, old, repl, 1)
}
