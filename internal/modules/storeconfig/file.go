package storeconfig

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/georgemunganga/storefront/internal/apperror"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// snapshotFile is the YAML layout of an offline store snapshot.
type snapshotFile struct {
	Stores []storeSnapshot `yaml:"stores"`
}

type storeSnapshot struct {
	ID              string `yaml:"id"`
	Name            string `yaml:"name"`
	DeliveryEnabled bool   `yaml:"delivery_enabled"`
	Location        *struct {
		Latitude  float64 `yaml:"latitude"`
		Longitude float64 `yaml:"longitude"`
	} `yaml:"location"`
	Delivery struct {
		Method                string   `yaml:"method"`
		PricePerKm            float64  `yaml:"price_per_km"`
		MaxDeliveryDistance   *float64 `yaml:"max_delivery_distance"`
		MinDeliveryFee        float64  `yaml:"min_delivery_fee"`
		BaseDeliveryPrice     float64  `yaml:"base_delivery_price"`
		FreeDeliveryThreshold float64  `yaml:"free_delivery_threshold"`
		ManualMessage         string   `yaml:"manual_message"`
	} `yaml:"delivery"`
	Zones []struct {
		ID                    string  `yaml:"id"`
		Name                  string  `yaml:"name"`
		IsActive              bool    `yaml:"is_active"`
		Order                 int     `yaml:"order"`
		FixedPrice            float64 `yaml:"fixed_price"`
		FreeDeliveryThreshold float64 `yaml:"free_delivery_threshold"`
		EstimatedTimeMinutes  int     `yaml:"estimated_time_minutes"`
	} `yaml:"zones"`
	// Schedule keeps the persisted document shape; it is re-encoded as JSON so
	// it goes through the same schema validation as database rows.
	Schedule any `yaml:"schedule"`
}

type fileRepo struct{ stores map[string]*Record }

// NewFileRepository loads every store of a YAML snapshot into memory.
func NewFileRepository(path string) (Repository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read store snapshot: %w", err)
	}
	return ParseSnapshot(data)
}

// ParseSnapshot builds an in-memory repository from YAML snapshot bytes.
func ParseSnapshot(data []byte) (Repository, error) {
	var file snapshotFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, apperror.Wrap(apperror.ConfigurationMalformed, err, "store snapshot is not valid YAML")
	}
	repo := &fileRepo{stores: make(map[string]*Record, len(file.Stores))}
	for i, s := range file.Stores {
		rec, err := s.record()
		if err != nil {
			return nil, apperror.Wrap(apperror.ConfigurationMalformed, err, fmt.Sprintf("store #%d in snapshot", i+1))
		}
		repo.stores[rec.StoreID.String()] = rec
	}
	return repo, nil
}

func (s storeSnapshot) record() (*Record, error) {
	id, err := uuid.Parse(s.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid store id %q: %w", s.ID, err)
	}
	rec := &Record{
		StoreID:                   id,
		Name:                      s.Name,
		DeliveryEnabled:           s.DeliveryEnabled,
		DeliveryCalculationMethod: s.Delivery.Method,
		PricePerKm:                decimal.NewFromFloat(s.Delivery.PricePerKm),
		MinDeliveryFee:            decimal.NewFromFloat(s.Delivery.MinDeliveryFee),
		BaseDeliveryPrice:         decimal.NewFromFloat(s.Delivery.BaseDeliveryPrice),
		FreeDeliveryThreshold:     decimal.NewFromFloat(s.Delivery.FreeDeliveryThreshold),
		ManualDeliveryMessage:     s.Delivery.ManualMessage,
	}
	if s.Delivery.MaxDeliveryDistance != nil {
		rec.MaxDeliveryDistance = decimal.NewNullDecimal(decimal.NewFromFloat(*s.Delivery.MaxDeliveryDistance))
	}
	if s.Location != nil {
		lat, lng := s.Location.Latitude, s.Location.Longitude
		rec.Latitude, rec.Longitude = &lat, &lng
	}
	for _, z := range s.Zones {
		zid, err := uuid.Parse(z.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid zone id %q: %w", z.ID, err)
		}
		rec.Zones = append(rec.Zones, ZoneRecord{
			ID:                    zid,
			Name:                  z.Name,
			IsActive:              z.IsActive,
			SortOrder:             z.Order,
			FixedPrice:            decimal.NewFromFloat(z.FixedPrice),
			FreeDeliveryThreshold: decimal.NewFromFloat(z.FreeDeliveryThreshold),
			EstimatedTimeMinutes:  z.EstimatedTimeMinutes,
		})
	}
	if s.Schedule != nil {
		raw, err := json.Marshal(s.Schedule)
		if err != nil {
			return nil, fmt.Errorf("schedule cannot be re-encoded: %w", err)
		}
		rec.Schedule = raw
	}
	return rec, nil
}

func (r *fileRepo) GetStoreConfig(_ context.Context, storeID string) (*Record, error) {
	rec, ok := r.stores[storeID]
	if !ok {
		return nil, apperror.Newf(apperror.NotFound, "store %s not found", storeID)
	}
	copied := *rec
	return &copied, nil
}
