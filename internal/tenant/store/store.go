// Package store persists tenant records. The record document is stored as
// jsonb so the canonical and legacy collections keep their nested shapes.
package store

import (
	"context"

	"answerwire/internal/tenant/models"
	id "answerwire/pkg/domain"
)

//go:generate mockgen -source=store.go -destination=mocks/store_mock.go -package=mocks

// Store is the tenant record persistence contract.
type Store interface {
	Create(ctx context.Context, record *models.Record) error
	FindByID(ctx context.Context, tenantID id.TenantID) (*models.Record, error)
	Update(ctx context.Context, record *models.Record) error
	Count(ctx context.Context) (int, error)
}
