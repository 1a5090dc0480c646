package delivery

import (
	"context"
	"errors"
	"time"

	"github.com/georgemunganga/storefront/internal/apperror"
	"github.com/georgemunganga/storefront/internal/modules/availability"
	"github.com/georgemunganga/storefront/internal/modules/geo"
	"github.com/georgemunganga/storefront/internal/modules/pricing"
	"github.com/georgemunganga/storefront/internal/modules/storeconfig"
	"github.com/georgemunganga/storefront/internal/modules/zone"
	"github.com/shopspring/decimal"
)

// MaxWindows caps how many upcoming opening windows a caller may ask for.
const MaxWindows = 50

// Service answers price and availability requests for a store.
type Service interface {
	Quote(ctx context.Context, req PriceRequest) (*PriceQuote, error)
	// Availability evaluates the store at at; a zero at means now and a
	// non-positive windows means the configured default.
	Availability(ctx context.Context, storeID string, at time.Time, windows int) (*AvailabilityResponse, error)
	ValidateSlot(ctx context.Context, storeID string, slot time.Time) (*SlotValidation, error)
}

// Settings tunes a Service.
type Settings struct {
	DefaultWindows int
	Now            func() time.Time
}

type service struct {
	repo           storeconfig.Repository
	defaultWindows int
	now            func() time.Time
}

// NewService creates a delivery service reading store configuration from repo.
func NewService(repo storeconfig.Repository, settings Settings) Service {
	s := &service{repo: repo, defaultWindows: settings.DefaultWindows, now: settings.Now}
	if s.defaultWindows <= 0 {
		s.defaultWindows = 5
	}
	if s.defaultWindows > MaxWindows {
		s.defaultWindows = MaxWindows
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *service) load(ctx context.Context, storeID string) (*storeconfig.StoreConfig, error) {
	if storeID == "" {
		return nil, apperror.New(apperror.InvalidInput, "store_id is required")
	}
	rec, err := s.repo.GetStoreConfig(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return storeconfig.Decode(rec)
}

// ── Pricing ─────────────────────────────────────────────

func (s *service) Quote(ctx context.Context, req PriceRequest) (*PriceQuote, error) {
	if req.DestinationLatitude == nil || req.DestinationLongitude == nil {
		return nil, apperror.New(apperror.InvalidInput, "destination_latitude and destination_longitude are required")
	}
	dest := geo.Coordinate{Latitude: *req.DestinationLatitude, Longitude: *req.DestinationLongitude}
	if err := dest.Validate(); err != nil {
		return nil, err
	}
	if req.Subtotal.IsNegative() {
		return nil, apperror.Newf(apperror.InvalidInput, "subtotal must not be negative, got %s", req.Subtotal)
	}

	cfg, err := s.load(ctx, req.StoreID)
	if err != nil {
		return nil, err
	}
	if !cfg.DeliveryEnabled {
		return nil, apperror.Newf(apperror.InvalidInput, "store %s does not offer delivery", cfg.Name)
	}
	if cfg.Origin == nil {
		return nil, apperror.New(apperror.ConfigurationMissing,
			"the store has no location yet; set its address coordinates to enable delivery pricing")
	}

	distance, err := geo.Distance(*cfg.Origin, dest)
	if err != nil {
		return nil, err
	}
	var z *zone.DeliveryZone
	if cfg.Pricing.Method == pricing.MethodZones {
		z = zone.Resolve(cfg.Zones, dest)
	}

	quote := &PriceQuote{
		StoreID:             cfg.StoreID,
		DistanceKm:          floatPtr(distance),
		Method:              cfg.Pricing.Method,
		StoreLocation:       *cfg.Origin,
		DestinationLocation: dest,
	}
	res, err := pricing.Calculate(cfg.Pricing, &distance, z, req.Subtotal)
	if errors.Is(err, apperror.NoApplicableZone) {
		quote.IsWithinRange = true
		quote.RequiresQuote = true
		quote.Message = apperror.Message(err)
		return quote, nil
	}
	if err != nil {
		return nil, err
	}

	quote.Message = res.Message
	quote.IsWithinRange = res.IsWithinRange
	quote.MinimumApplied = res.MinimumApplied
	quote.FreeDelivery = res.FreeDelivery
	quote.RequiresQuote = res.Method == pricing.MethodManual
	if !quote.RequiresQuote {
		quote.Fee = floatPtr(res.Fee)
	}
	if res.ZoneID != nil {
		quote.Zone = &ZoneSummary{ID: *res.ZoneID, Name: res.ZoneName, EstimatedTimeMinutes: res.EstimatedTimeMinutes}
	}
	return quote, nil
}

// ── Availability ────────────────────────────────────────

func (s *service) schedule(ctx context.Context, storeID string) (*storeconfig.StoreConfig, error) {
	cfg, err := s.load(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if cfg.Schedule == nil {
		return nil, apperror.New(apperror.ConfigurationMissing,
			"the store has no delivery schedule yet; configure its operating hours and delivery options")
	}
	return cfg, nil
}

func (s *service) Availability(ctx context.Context, storeID string, at time.Time, windows int) (*AvailabilityResponse, error) {
	cfg, err := s.schedule(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if at.IsZero() {
		at = s.now()
	}
	switch {
	case windows <= 0:
		windows = s.defaultWindows
	case windows > MaxWindows:
		windows = MaxWindows
	}

	snap, err := availability.Evaluate(*cfg.Schedule, at, windows)
	if err != nil {
		return nil, err
	}
	return &AvailabilityResponse{
		StoreID:          cfg.StoreID,
		StoreName:        cfg.Name,
		At:               at,
		IsOpen:           snap.IsOpen,
		Reason:           snap.Reason,
		ActivePeriod:     snap.ActivePeriod,
		AvailableOptions: snap.Options,
		NextOpenWindows:  snap.NextOpenWindows,
	}, nil
}

func (s *service) ValidateSlot(ctx context.Context, storeID string, slot time.Time) (*SlotValidation, error) {
	if slot.IsZero() {
		return nil, apperror.New(apperror.InvalidInput, "slot is required")
	}
	cfg, err := s.schedule(ctx, storeID)
	if err != nil {
		return nil, err
	}
	err = availability.ValidateSlot(*cfg.Schedule, s.now(), slot)
	if reason, ok := slotRejection(err); ok {
		return &SlotValidation{Slot: slot, Valid: false, Reason: reason}, nil
	}
	if err != nil {
		return nil, err
	}
	return &SlotValidation{Slot: slot, Valid: true}, nil
}

// slotRejection reports whether err rejects the slot itself. Only an
// outermost InvalidInput does; a configuration error wrapping one does not.
func slotRejection(err error) (string, bool) {
	if err == nil || apperror.KindOf(err) != apperror.InvalidInput {
		return "", false
	}
	return apperror.Message(err), true
}

func floatPtr(d decimal.Decimal) *float64 {
	f := d.InexactFloat64()
	return &f
}
