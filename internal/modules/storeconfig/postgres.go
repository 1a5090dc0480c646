package storeconfig

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/georgemunganga/storefront/internal/apperror"
	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const storeConfigQuery = `
SELECT id,name,COALESCE(delivery_enabled,FALSE),latitude,longitude,
       COALESCE(delivery_calculation_method,''),COALESCE(price_per_km,0),max_delivery_distance,
       COALESCE(min_delivery_fee,0),COALESCE(base_delivery_price,0),COALESCE(free_delivery_threshold,0),
       COALESCE(manual_delivery_message,''),delivery_schedule
FROM stores WHERE id=$1`

const zonesQuery = `
SELECT id,name,is_active,sort_order,fixed_price,COALESCE(free_delivery_threshold,0),COALESCE(estimated_time_minutes,0)
FROM delivery_zones WHERE store_id=$1 ORDER BY sort_order ASC, name ASC`

func (r *postgresRepo) GetStoreConfig(ctx context.Context, storeID string) (*Record, error) {
	uid, err := uuid.Parse(storeID)
	if err != nil {
		return nil, apperror.Newf(apperror.InvalidInput, "invalid store_id %q", storeID)
	}

	rec := &Record{}
	var lat, lng sql.NullFloat64
	var schedule []byte
	err = r.db.QueryRowContext(ctx, storeConfigQuery, uid).
		Scan(&rec.StoreID, &rec.Name, &rec.DeliveryEnabled, &lat, &lng,
			&rec.DeliveryCalculationMethod, &rec.PricePerKm, &rec.MaxDeliveryDistance,
			&rec.MinDeliveryFee, &rec.BaseDeliveryPrice, &rec.FreeDeliveryThreshold,
			&rec.ManualDeliveryMessage, &schedule)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.Newf(apperror.NotFound, "store %s not found", storeID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load store %s: %w", storeID, err)
	}
	if lat.Valid {
		rec.Latitude = &lat.Float64
	}
	if lng.Valid {
		rec.Longitude = &lng.Float64
	}
	rec.Schedule = schedule

	rec.Zones, err = r.listZones(ctx, uid)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *postgresRepo) listZones(ctx context.Context, storeID uuid.UUID) ([]ZoneRecord, error) {
	rows, err := r.db.QueryContext(ctx, zonesQuery, storeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load delivery zones: %w", err)
	}
	defer rows.Close()
	var zones []ZoneRecord
	for rows.Next() {
		var z ZoneRecord
		if err := rows.Scan(&z.ID, &z.Name, &z.IsActive, &z.SortOrder,
			&z.FixedPrice, &z.FreeDeliveryThreshold, &z.EstimatedTimeMinutes); err != nil {
			return nil, err
		}
		zones = append(zones, z)
	}
	return zones, rows.Err()
}
