package storeconfig

import "context"

// Repository loads raw store delivery configuration.
type Repository interface {
	// GetStoreConfig returns the store row and its zones. A missing store is
	// an apperror.NotFound.
	GetStoreConfig(ctx context.Context, storeID string) (*Record, error)
}
