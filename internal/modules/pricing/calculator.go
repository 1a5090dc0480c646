package pricing

import (
	"fmt"

	"github.com/georgemunganga/storefront/internal/apperror"
	"github.com/georgemunganga/storefront/internal/modules/zone"
	"github.com/shopspring/decimal"
)

// QuoteMessage is shown when a ZONES store has neither a zone nor a base
// price to fall back on.
const QuoteMessage = "No delivery zone is available for this address. The store will contact you with a delivery quote."

// Calculate prices a delivery. distance is required for MethodDistance, z is
// the zone chosen by zone.Resolve (nil when none applies). Inputs are checked
// before any arithmetic; all amounts are rounded half-up to two decimals.
func Calculate(cfg Config, distance *decimal.Decimal, z *zone.DeliveryZone, subtotal decimal.Decimal) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	if subtotal.IsNegative() {
		return Result{}, apperror.Newf(apperror.InvalidInput, "subtotal must not be negative, got %s", subtotal)
	}
	if distance != nil && distance.IsNegative() {
		return Result{}, apperror.Newf(apperror.InvalidInput, "distance must not be negative, got %s", distance)
	}
	if z != nil {
		if err := z.Validate(); err != nil {
			return Result{}, err
		}
	}

	var (
		res Result
		err error
	)
	switch cfg.Method {
	case MethodDistance:
		res, err = byDistance(cfg, distance)
	case MethodZones:
		res, err = byZone(cfg, z, subtotal)
	case MethodManual:
		res = Result{IsWithinRange: true, Message: cfg.ManualMessage}
	case MethodLegacy:
		res = flat(cfg, subtotal)
	}
	if err != nil {
		return Result{}, err
	}

	res.Method = cfg.Method
	res.Fee = res.Fee.Round(2)
	if distance != nil {
		d := distance.Round(2)
		res.Distance = &d
	}
	return res, nil
}

func byDistance(cfg Config, distance *decimal.Decimal) (Result, error) {
	if distance == nil {
		return Result{}, apperror.New(apperror.InvalidInput, "distance is required for distance-based pricing")
	}
	d := distance.Round(2)
	if d.GreaterThan(cfg.MaxDeliveryDistance) {
		return Result{
			Fee:           decimal.Zero,
			IsWithinRange: false,
			Message: fmt.Sprintf("Delivery is not available: %s km exceeds the maximum delivery distance of %s km",
				d.StringFixed(2), cfg.MaxDeliveryDistance.StringFixed(2)),
		}, nil
	}

	raw := d.Mul(cfg.PricePerKm).Round(2)
	if raw.LessThan(cfg.MinDeliveryFee) {
		return Result{
			Fee:            cfg.MinDeliveryFee,
			IsWithinRange:  true,
			MinimumApplied: true,
			Message: fmt.Sprintf("Minimum delivery fee of %s applied (%s km would cost %s)",
				cfg.MinDeliveryFee.StringFixed(2), d.StringFixed(2), raw.StringFixed(2)),
		}, nil
	}
	return Result{
		Fee:           raw,
		IsWithinRange: true,
		Message: fmt.Sprintf("Delivery fee for %s km at %s per km: %s",
			d.StringFixed(2), cfg.PricePerKm.StringFixed(2), raw.StringFixed(2)),
	}, nil
}

func byZone(cfg Config, z *zone.DeliveryZone, subtotal decimal.Decimal) (Result, error) {
	if z == nil {
		if cfg.BaseDeliveryPrice.IsPositive() {
			res := flat(cfg, subtotal)
			if !res.FreeDelivery {
				res.Message = fmt.Sprintf("No delivery zone applies, base delivery fee: %s", res.Fee.StringFixed(2))
			}
			return res, nil
		}
		return Result{}, apperror.New(apperror.NoApplicableZone, QuoteMessage)
	}

	id := z.ID
	res := Result{
		IsWithinRange:        true,
		ZoneID:               &id,
		ZoneName:             z.Name,
		EstimatedTimeMinutes: z.EstimatedTimeMinutes,
	}
	if reachesThreshold(subtotal, z.FreeDeliveryThreshold) {
		res.Fee = decimal.Zero
		res.FreeDelivery = true
		res.Message = fmt.Sprintf("Free delivery in zone %s for orders of %s or more",
			z.Name, z.FreeDeliveryThreshold.StringFixed(2))
		return res, nil
	}
	res.Fee = z.FixedPrice
	res.Message = fmt.Sprintf("Delivery fee for zone %s: %s", z.Name, z.FixedPrice.StringFixed(2))
	return res, nil
}

func flat(cfg Config, subtotal decimal.Decimal) Result {
	if reachesThreshold(subtotal, cfg.FreeDeliveryThreshold) {
		return Result{
			Fee:           decimal.Zero,
			IsWithinRange: true,
			FreeDelivery:  true,
			Message:       fmt.Sprintf("Free delivery for orders of %s or more", cfg.FreeDeliveryThreshold.StringFixed(2)),
		}
	}
	return Result{
		Fee:           cfg.BaseDeliveryPrice,
		IsWithinRange: true,
		Message:       fmt.Sprintf("Flat delivery fee: %s", cfg.BaseDeliveryPrice.StringFixed(2)),
	}
}

// reachesThreshold treats a zero threshold as "never free".
func reachesThreshold(subtotal, threshold decimal.Decimal) bool {
	return threshold.IsPositive() && subtotal.GreaterThanOrEqual(threshold)
}
