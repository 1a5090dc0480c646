package zone

import (
	"sort"

	"github.com/georgemunganga/storefront/internal/apperror"
	"github.com/georgemunganga/storefront/internal/modules/geo"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DeliveryZone is a named delivery tier with a flat fee. Zones carry no
// geometry; Order is the priority (lower wins).
type DeliveryZone struct {
	ID                    uuid.UUID       `json:"id"`
	Name                  string          `json:"name"`
	IsActive              bool            `json:"is_active"`
	Order                 int             `json:"order"`
	FixedPrice            decimal.Decimal `json:"fixed_price"`
	FreeDeliveryThreshold decimal.Decimal `json:"free_delivery_threshold"`
	EstimatedTimeMinutes  int             `json:"estimated_time_minutes"`
}

func (z DeliveryZone) Validate() error {
	switch {
	case z.FixedPrice.IsNegative():
		return apperror.Newf(apperror.InvalidInput, "zone %q: fixed price must not be negative", z.Name)
	case z.FreeDeliveryThreshold.IsNegative():
		return apperror.Newf(apperror.InvalidInput, "zone %q: free delivery threshold must not be negative", z.Name)
	case !z.FixedPrice.Equal(z.FixedPrice.Round(2)):
		return apperror.Newf(apperror.InvalidInput, "zone %q: fixed price must have at most two decimal places", z.Name)
	case !z.FreeDeliveryThreshold.Equal(z.FreeDeliveryThreshold.Round(2)):
		return apperror.Newf(apperror.InvalidInput, "zone %q: free delivery threshold must have at most two decimal places", z.Name)
	case z.EstimatedTimeMinutes < 0:
		return apperror.Newf(apperror.InvalidInput, "zone %q: estimated time must not be negative", z.Name)
	}
	return nil
}

// Resolve selects the highest-priority active zone. The destination does not
// take part in the selection: zones are tiers, not areas. Equal priorities are
// broken by name and then id so the answer never depends on input order.
func Resolve(zones []DeliveryZone, _ geo.Coordinate) *DeliveryZone {
	active := make([]DeliveryZone, 0, len(zones))
	for _, z := range zones {
		if z.IsActive {
			active = append(active, z)
		}
	}
	if len(active) == 0 {
		return nil
	}
	sort.SliceStable(active, func(i, j int) bool {
		a, b := active[i], active[j]
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID.String() < b.ID.String()
	})
	selected := active[0]
	return &selected
}
