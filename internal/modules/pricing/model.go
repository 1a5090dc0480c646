package pricing

import (
	"strings"

	"github.com/georgemunganga/storefront/internal/apperror"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Method selects how a store prices delivery.
type Method string

const (
	MethodDistance Method = "DISTANCE" // per-km fee with a floor and a distance cap
	MethodZones    Method = "ZONES"    // flat fee of the highest-priority zone
	MethodManual   Method = "MANUAL"   // quoted out of band
	MethodLegacy   Method = "LEGACY"   // flat base price
)

// ParseMethod maps the persisted delivery_calculation_method column. An empty
// value is a store that never chose a method and prices the legacy way; any
// other unknown value is a misconfiguration.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return MethodLegacy, nil
	case "distance":
		return MethodDistance, nil
	case "zones":
		return MethodZones, nil
	case "manual":
		return MethodManual, nil
	case "legacy":
		return MethodLegacy, nil
	}
	return "", apperror.Newf(apperror.ConfigurationMalformed, "unknown delivery calculation method %q", s)
}

// Config is a store's delivery pricing policy.
type Config struct {
	Method                Method
	PricePerKm            decimal.Decimal
	MaxDeliveryDistance   decimal.Decimal
	MinDeliveryFee        decimal.Decimal
	BaseDeliveryPrice     decimal.Decimal
	FreeDeliveryThreshold decimal.Decimal // applies to the base price; 0 disables
	ManualMessage         string
}

func (c Config) Validate() error {
	switch c.Method {
	case MethodDistance, MethodZones, MethodManual, MethodLegacy:
	default:
		return apperror.Newf(apperror.ConfigurationMalformed, "unknown delivery calculation method %q", c.Method)
	}
	amounts := []struct {
		name  string
		value decimal.Decimal
		money bool
	}{
		{"price per km", c.PricePerKm, false},
		{"max delivery distance", c.MaxDeliveryDistance, false},
		{"min delivery fee", c.MinDeliveryFee, true},
		{"base delivery price", c.BaseDeliveryPrice, true},
		{"free delivery threshold", c.FreeDeliveryThreshold, true},
	}
	for _, a := range amounts {
		if a.value.IsNegative() {
			return apperror.Newf(apperror.InvalidInput, "%s must not be negative, got %s", a.name, a.value)
		}
		// Fees are rounded to cents.
		if a.money && !a.value.Equal(a.value.Round(2)) {
			return apperror.Newf(apperror.InvalidInput, "%s must have at most two decimal places, got %s", a.name, a.value)
		}
	}
	return nil
}

// Result is a priced delivery. Fee is zero when IsWithinRange is false.
type Result struct {
	Method               Method           `json:"method"`
	Distance             *decimal.Decimal `json:"distance,omitempty"`
	Fee                  decimal.Decimal  `json:"fee"`
	IsWithinRange        bool             `json:"is_within_range"`
	Message              string           `json:"message"`
	MinimumApplied       bool             `json:"minimum_applied"`
	FreeDelivery         bool             `json:"free_delivery"`
	ZoneID               *uuid.UUID       `json:"zone_id,omitempty"`
	ZoneName             string           `json:"zone_name,omitempty"`
	EstimatedTimeMinutes int              `json:"estimated_time_minutes,omitempty"`
}
