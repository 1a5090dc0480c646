package storeconfig

import (
	"bytes"
	"encoding/json"

	"github.com/georgemunganga/storefront/internal/apperror"
	"github.com/georgemunganga/storefront/internal/modules/availability"
	"github.com/georgemunganga/storefront/internal/modules/geo"
	"github.com/georgemunganga/storefront/internal/modules/pricing"
	"github.com/georgemunganga/storefront/internal/modules/zone"
)

// Decode validates a persisted record and converts it into a StoreConfig.
// Every failure is apperror.ConfigurationMalformed: a broken document is never
// replaced by defaults. Missing optional parts (coordinates, schedule) are
// left nil for the caller to classify.
func Decode(rec *Record) (*StoreConfig, error) {
	method, err := pricing.ParseMethod(rec.DeliveryCalculationMethod)
	if err != nil {
		return nil, apperror.Wrap(apperror.ConfigurationMalformed, err, "store delivery pricing method is invalid")
	}

	maxDistance := DefaultMaxDeliveryDistance
	if rec.MaxDeliveryDistance.Valid {
		maxDistance = rec.MaxDeliveryDistance.Decimal
	}
	cfg := pricing.Config{
		Method:                method,
		PricePerKm:            rec.PricePerKm,
		MaxDeliveryDistance:   maxDistance,
		MinDeliveryFee:        rec.MinDeliveryFee,
		BaseDeliveryPrice:     rec.BaseDeliveryPrice,
		FreeDeliveryThreshold: rec.FreeDeliveryThreshold,
		ManualMessage:         rec.ManualDeliveryMessage,
	}
	if err := cfg.Validate(); err != nil {
		return nil, apperror.Wrap(apperror.ConfigurationMalformed, err, "store delivery pricing is invalid")
	}

	out := &StoreConfig{
		StoreID:         rec.StoreID,
		Name:            rec.Name,
		DeliveryEnabled: rec.DeliveryEnabled,
		Pricing:         cfg,
	}

	if rec.Latitude != nil && rec.Longitude != nil {
		origin := geo.Coordinate{Latitude: *rec.Latitude, Longitude: *rec.Longitude}
		if err := origin.Validate(); err != nil {
			return nil, apperror.Wrap(apperror.ConfigurationMalformed, err, "store location is invalid")
		}
		out.Origin = &origin
	}

	for _, zr := range rec.Zones {
		z := zone.DeliveryZone{
			ID:                    zr.ID,
			Name:                  zr.Name,
			IsActive:              zr.IsActive,
			Order:                 zr.SortOrder,
			FixedPrice:            zr.FixedPrice,
			FreeDeliveryThreshold: zr.FreeDeliveryThreshold,
			EstimatedTimeMinutes:  zr.EstimatedTimeMinutes,
		}
		if err := z.Validate(); err != nil {
			return nil, apperror.Wrap(apperror.ConfigurationMalformed, err, "delivery zone is invalid")
		}
		out.Zones = append(out.Zones, z)
	}

	sched, err := DecodeSchedule(rec.Schedule)
	if err != nil {
		return nil, err
	}
	out.Schedule = sched
	return out, nil
}

// DecodeSchedule parses the schedule document. An absent or null document
// returns (nil, nil).
func DecodeSchedule(raw []byte) (*availability.UnifiedSchedule, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	var doc any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, apperror.Wrap(apperror.ConfigurationMalformed, err, "schedule document is not valid JSON")
	}
	if err := scheduleSchema.Validate(doc); err != nil {
		return nil, apperror.Wrap(apperror.ConfigurationMalformed, err, "schedule document does not match the schedule schema")
	}

	var s availability.UnifiedSchedule
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, apperror.Wrap(apperror.ConfigurationMalformed, err, "schedule document could not be decoded")
	}
	if err := s.Validate(); err != nil {
		return nil, apperror.Wrap(apperror.ConfigurationMalformed, err, "schedule document is inconsistent")
	}
	return &s, nil
}
