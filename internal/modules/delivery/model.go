package delivery

import (
	"time"

	"github.com/georgemunganga/storefront/internal/modules/availability"
	"github.com/georgemunganga/storefront/internal/modules/geo"
	"github.com/georgemunganga/storefront/internal/modules/pricing"
	"github.com/georgemunganga/storefront/internal/modules/schedule"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceRequest asks what delivery to a destination costs.
type PriceRequest struct {
	StoreID              string          `json:"store_id"`
	DestinationLatitude  *float64        `json:"destination_latitude"`
	DestinationLongitude *float64        `json:"destination_longitude"`
	Subtotal             decimal.Decimal `json:"subtotal"`
}

// ZoneSummary identifies the zone a quote was priced with.
type ZoneSummary struct {
	ID                   uuid.UUID `json:"id"`
	Name                 string    `json:"name"`
	EstimatedTimeMinutes int       `json:"estimated_time_minutes,omitempty"`
}

// PriceQuote is the priced delivery returned to the storefront. RequiresQuote
// is set when the store prices out of band (MANUAL) or no zone applies; Fee
// is then null.
type PriceQuote struct {
	StoreID             uuid.UUID      `json:"store_id"`
	DistanceKm          *float64       `json:"distance_km"`
	Fee                 *float64       `json:"fee"`
	Method              pricing.Method `json:"method"`
	Message             string         `json:"message"`
	IsWithinRange       bool           `json:"is_within_range"`
	MinimumApplied      bool           `json:"minimum_applied"`
	FreeDelivery        bool           `json:"free_delivery"`
	RequiresQuote       bool           `json:"requires_quote"`
	Zone                *ZoneSummary   `json:"zone,omitempty"`
	StoreLocation       geo.Coordinate `json:"store_location"`
	DestinationLocation geo.Coordinate `json:"destination_location"`
}

// AvailabilityResponse is the ordering state of a store at one instant.
type AvailabilityResponse struct {
	StoreID          uuid.UUID             `json:"store_id"`
	StoreName        string                `json:"store_name"`
	At               time.Time             `json:"at"`
	IsOpen           bool                  `json:"is_open"`
	Reason           schedule.Reason       `json:"reason"`
	ActivePeriod     *schedule.TimePeriod  `json:"active_period"`
	AvailableOptions []availability.Option `json:"available_options"`
	NextOpenWindows  []schedule.Window     `json:"next_open_windows"`
}

// SlotRequest is the body of a slot validation.
type SlotRequest struct {
	Slot time.Time `json:"slot"`
}

// SlotValidation reports whether a scheduled delivery time can be accepted.
type SlotValidation struct {
	Slot   time.Time `json:"slot"`
	Valid  bool      `json:"valid"`
	Reason string    `json:"reason,omitempty"`
}
