package availability

import (
	"time"

	"github.com/georgemunganga/storefront/internal/apperror"
	"github.com/georgemunganga/storefront/internal/modules/schedule"
)

// Option is a fulfilment mode offered to a customer.
type Option string

const (
	OptionImmediate Option = "IMMEDIATE"
	OptionScheduled Option = "SCHEDULED"
	OptionPickup    Option = "PICKUP"
)

// Upper limits on the lead time settings.
const (
	MaxMinAdvanceHours = 24 * 365
	MaxMaxAdvanceDays  = 365
)

// DeliveryOptionsConfig is the delivery part of a store's schedule document.
type DeliveryOptionsConfig struct {
	Enabled           bool `json:"enabled"`
	Immediate         bool `json:"immediate"`
	Scheduled         bool `json:"scheduled"`
	Pickup            bool `json:"pickup"`
	MinAdvanceHours   int  `json:"minAdvanceHours"`
	MaxAdvanceDays    int  `json:"maxAdvanceDays"`
	UseOperatingHours bool `json:"useOperatingHours"`
}

func (o DeliveryOptionsConfig) Validate() error {
	if o.MinAdvanceHours < 0 {
		return apperror.Newf(apperror.InvalidInput, "minAdvanceHours must not be negative, got %d", o.MinAdvanceHours)
	}
	if o.MinAdvanceHours > MaxMinAdvanceHours {
		return apperror.Newf(apperror.InvalidInput, "minAdvanceHours must be at most %d, got %d", MaxMinAdvanceHours, o.MinAdvanceHours)
	}
	if o.MaxAdvanceDays < 0 {
		return apperror.Newf(apperror.InvalidInput, "maxAdvanceDays must not be negative, got %d", o.MaxAdvanceDays)
	}
	if o.MaxAdvanceDays > MaxMaxAdvanceDays {
		return apperror.Newf(apperror.InvalidInput, "maxAdvanceDays must be at most %d, got %d", MaxMaxAdvanceDays, o.MaxAdvanceDays)
	}
	return nil
}

// UnifiedSchedule is a store's operating calendar plus delivery options.
type UnifiedSchedule struct {
	OperatingHours  schedule.WeeklySchedule  `json:"operatingHours"`
	DeliveryOptions DeliveryOptionsConfig    `json:"deliveryOptions"`
	Exceptions      []schedule.DateException `json:"exceptions,omitempty"`
	Timezone        string                   `json:"timezone,omitempty"` // IANA name
}

// Calendar builds the evaluable calendar, resolving Timezone.
func (s UnifiedSchedule) Calendar() (schedule.Calendar, error) {
	cal := schedule.Calendar{Week: s.OperatingHours, Exceptions: s.Exceptions}
	if s.Timezone != "" {
		loc, err := time.LoadLocation(s.Timezone)
		if err != nil {
			return schedule.Calendar{}, apperror.Newf(apperror.InvalidInput, "unknown timezone %q", s.Timezone)
		}
		cal.Location = loc
	}
	return cal, nil
}

func (s UnifiedSchedule) Validate() error {
	cal, err := s.Calendar()
	if err != nil {
		return err
	}
	if err := cal.Validate(); err != nil {
		return err
	}
	return s.DeliveryOptions.Validate()
}

// Snapshot is everything a storefront needs to render its ordering state.
type Snapshot struct {
	IsOpen          bool                 `json:"is_open"`
	Reason          schedule.Reason      `json:"reason"`
	ActivePeriod    *schedule.TimePeriod `json:"active_period,omitempty"`
	Options         []Option             `json:"available_options"`
	NextOpenWindows []schedule.Window    `json:"next_open_windows"`
}
