package availability

import (
	"time"

	"github.com/georgemunganga/storefront/internal/apperror"
)

// AvailableOptions returns the fulfilment modes offered at the instant, in the
// order IMMEDIATE, SCHEDULED, PICKUP. Only IMMEDIATE depends on the store
// being open, and only when UseOperatingHours is set.
func AvailableOptions(s UnifiedSchedule, at time.Time) ([]Option, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	opts := s.DeliveryOptions
	options := []Option{}
	if !opts.Enabled {
		return options, nil
	}

	if opts.Immediate {
		offered := true
		if opts.UseOperatingHours {
			cal, _ := s.Calendar()
			status, err := cal.IsOpenAt(at)
			if err != nil {
				return nil, err
			}
			offered = status.IsOpen
		}
		if offered {
			options = append(options, OptionImmediate)
		}
	}
	if opts.Scheduled {
		options = append(options, OptionScheduled)
	}
	if opts.Pickup {
		options = append(options, OptionPickup)
	}
	return options, nil
}

// Evaluate combines open state, offered options and the next windows.
func Evaluate(s UnifiedSchedule, at time.Time, windows int) (Snapshot, error) {
	options, err := AvailableOptions(s, at)
	if err != nil {
		return Snapshot{}, err
	}
	cal, _ := s.Calendar()
	status, err := cal.IsOpenAt(at)
	if err != nil {
		return Snapshot{}, err
	}
	next, err := cal.NextOpenWindows(at, windows)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		IsOpen:          status.IsOpen,
		Reason:          status.Reason,
		ActivePeriod:    status.ActivePeriod,
		Options:         options,
		NextOpenWindows: next,
	}, nil
}

// ValidateSlot checks a requested scheduled-delivery time against the lead
// time bounds and, when UseOperatingHours is set, the opening windows.
func ValidateSlot(s UnifiedSchedule, now, slot time.Time) error {
	if err := s.Validate(); err != nil {
		return err
	}
	opts := s.DeliveryOptions
	if !opts.Enabled || !opts.Scheduled {
		return apperror.New(apperror.InvalidInput, "scheduled delivery is not offered by this store")
	}

	lead := slot.Sub(now)
	if lead < 0 {
		return apperror.New(apperror.InvalidInput, "requested time is in the past")
	}
	if minLead := time.Duration(opts.MinAdvanceHours) * time.Hour; lead < minLead {
		return apperror.Newf(apperror.InvalidInput, "orders must be scheduled at least %d hours ahead", opts.MinAdvanceHours)
	}
	if maxLead := time.Duration(opts.MaxAdvanceDays) * 24 * time.Hour; lead > maxLead {
		return apperror.Newf(apperror.InvalidInput, "orders can be scheduled at most %d days ahead", opts.MaxAdvanceDays)
	}

	if !opts.UseOperatingHours {
		return nil
	}
	cal, _ := s.Calendar()
	w, err := cal.WindowAt(slot)
	if err != nil {
		return err
	}
	if w == nil {
		return apperror.New(apperror.InvalidInput, "requested time is outside the store's opening hours")
	}
	return nil
}
