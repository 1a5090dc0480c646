// Command deliverycheck evaluates a store from a YAML snapshot without a
// database: its availability at an instant, a delivery quote and,
// optionally, a scheduled slot.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/georgemunganga/storefront/internal/apperror"
	"github.com/georgemunganga/storefront/internal/modules/delivery"
	"github.com/georgemunganga/storefront/internal/modules/storeconfig"
	"github.com/shopspring/decimal"
)

type report struct {
	Availability *delivery.AvailabilityResponse `json:"availability,omitempty"`
	Quote        *delivery.PriceQuote           `json:"quote,omitempty"`
	Slot         *delivery.SlotValidation       `json:"slot,omitempty"`
	Errors       map[string]string              `json:"errors,omitempty"`
}

func main() {
	var (
		snapshot = flag.String("store", "store.yaml", "YAML store snapshot")
		storeID  = flag.String("id", "", "store id within the snapshot")
		lat      = flag.Float64("lat", 0, "destination latitude")
		lng      = flag.Float64("lng", 0, "destination longitude")
		subtotal = flag.String("subtotal", "0", "order subtotal")
		at       = flag.String("at", "", "evaluation instant, RFC 3339 (default now)")
		slot     = flag.String("slot", "", "scheduled delivery time to validate, RFC 3339")
		windows  = flag.Int("windows", 5, "upcoming opening windows to list")
	)
	flag.Parse()

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if *storeID == "" {
		log.Fatal("-id is required")
	}

	now := time.Now()
	if *at != "" {
		parsed, err := time.Parse(time.RFC3339, *at)
		if err != nil {
			log.Fatalf("invalid -at: %v", err)
		}
		now = parsed
	}
	amount, err := decimal.NewFromString(*subtotal)
	if err != nil {
		log.Fatalf("invalid -subtotal: %v", err)
	}

	repo, err := storeconfig.NewFileRepository(*snapshot)
	if err != nil {
		log.Fatalf("failed to load snapshot: %v", err)
	}
	svc := delivery.NewService(repo, delivery.Settings{
		DefaultWindows: *windows,
		Now:            func() time.Time { return now },
	})

	ctx := context.Background()
	out := report{Errors: map[string]string{}}
	record := func(section string, err error) {
		out.Errors[section] = fmt.Sprintf("%s: %s", apperror.KindOf(err), apperror.Message(err))
	}

	if out.Availability, err = svc.Availability(ctx, *storeID, now, *windows); err != nil {
		record("availability", err)
	}
	if set["lat"] && set["lng"] {
		req := delivery.PriceRequest{StoreID: *storeID, DestinationLatitude: lat, DestinationLongitude: lng, Subtotal: amount}
		if out.Quote, err = svc.Quote(ctx, req); err != nil {
			record("quote", err)
		}
	}
	if *slot != "" {
		requested, err := time.Parse(time.RFC3339, *slot)
		if err != nil {
			log.Fatalf("invalid -slot: %v", err)
		}
		if out.Slot, err = svc.ValidateSlot(ctx, *storeID, requested); err != nil {
			record("slot", err)
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatal(err)
	}
	if len(out.Errors) > 0 {
		os.Exit(1)
	}
}
