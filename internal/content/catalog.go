package content

import (
	"context"

	id "answerwire/pkg/domain"
)

//go:generate mockgen -source=catalog.go -destination=mocks/catalog_mock.go -package=mocks

// Catalog is the shared-content lookup contract. The health engine derives
// a tenant's scenario pool from it; the resolver never touches it.
type Catalog interface {
	// FetchByRefs returns the templates for the given refs, in input order.
	// Unknown refs are skipped, not errors: a dangling link is a health
	// finding, not a lookup failure.
	FetchByRefs(ctx context.Context, refIDs []string) ([]Template, error)

	// CountActive returns how many of the given refs resolve to an active
	// template.
	CountActive(ctx context.Context, refIDs []string) (int, error)
}

// PoolStats summarizes a tenant's derived scenario pool.
type PoolStats struct {
	TenantID    id.TenantID `json:"tenant_id"`
	LinkedRefs  int         `json:"linked_refs"`
	ActiveCount int         `json:"active_count"`
	BrokenRefs  []string    `json:"broken_refs,omitempty"`
}

// DerivePool computes a tenant's effective scenario pool from its active
// content links.
func DerivePool(ctx context.Context, catalog Catalog, tenantID id.TenantID, refIDs []string) (PoolStats, error) {
	stats := PoolStats{TenantID: tenantID, LinkedRefs: len(refIDs)}
	if len(refIDs) == 0 {
		return stats, nil
	}

	templates, err := catalog.FetchByRefs(ctx, refIDs)
	if err != nil {
		return PoolStats{}, err
	}

	found := make(map[string]bool, len(templates))
	for _, t := range templates {
		found[t.RefID] = true
		if t.Active {
			stats.ActiveCount++
		}
	}
	for _, ref := range refIDs {
		if !found[ref] {
			stats.BrokenRefs = append(stats.BrokenRefs, ref)
		}
	}
	return stats, nil
}
