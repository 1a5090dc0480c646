package storeconfig

import (
	"encoding/json"

	"github.com/georgemunganga/storefront/internal/modules/availability"
	"github.com/georgemunganga/storefront/internal/modules/geo"
	"github.com/georgemunganga/storefront/internal/modules/pricing"
	"github.com/georgemunganga/storefront/internal/modules/zone"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultMaxDeliveryDistance applies when a store never set a distance cap.
var DefaultMaxDeliveryDistance = decimal.NewFromInt(7)

// Record is a store's delivery configuration exactly as persisted. Nothing in
// it has been validated; Decode turns it into a StoreConfig.
type Record struct {
	StoreID                   uuid.UUID           `json:"store_id"`
	Name                      string              `json:"name"`
	DeliveryEnabled           bool                `json:"delivery_enabled"`
	Latitude                  *float64            `json:"latitude,omitempty"`
	Longitude                 *float64            `json:"longitude,omitempty"`
	DeliveryCalculationMethod string              `json:"delivery_calculation_method"`
	PricePerKm                decimal.Decimal     `json:"price_per_km"`
	MaxDeliveryDistance       decimal.NullDecimal `json:"max_delivery_distance"`
	MinDeliveryFee            decimal.Decimal     `json:"min_delivery_fee"`
	BaseDeliveryPrice         decimal.Decimal     `json:"base_delivery_price"`
	FreeDeliveryThreshold     decimal.Decimal     `json:"free_delivery_threshold"`
	ManualDeliveryMessage     string              `json:"manual_delivery_message"`
	Schedule                  json.RawMessage     `json:"schedule,omitempty"`
	Zones                     []ZoneRecord        `json:"zones"`
}

// ZoneRecord is a row of delivery_zones.
type ZoneRecord struct {
	ID                    uuid.UUID       `json:"id"`
	Name                  string          `json:"name"`
	IsActive              bool            `json:"is_active"`
	SortOrder             int             `json:"sort_order"`
	FixedPrice            decimal.Decimal `json:"fixed_price"`
	FreeDeliveryThreshold decimal.Decimal `json:"free_delivery_threshold"`
	EstimatedTimeMinutes  int             `json:"estimated_time_minutes"`
}

// StoreConfig is the validated, strongly typed snapshot the engine consumes.
type StoreConfig struct {
	StoreID         uuid.UUID
	Name            string
	DeliveryEnabled bool
	Origin          *geo.Coordinate // nil when the store has no coordinates
	Pricing         pricing.Config
	Zones           []zone.DeliveryZone
	Schedule        *availability.UnifiedSchedule // nil when never configured
}
