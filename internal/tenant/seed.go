// Package tenant owns the tenant record lifecycle: persistence, and the
// seed step that backfills base fields before a record is evaluated.
package tenant

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"answerwire/internal/registry"
	"answerwire/internal/resolve"
	"answerwire/internal/tenant/models"
	"answerwire/internal/tenant/store"
	"answerwire/pkg/requestcontext"
)

// SeedResult reports what a seed pass changed.
type SeedResult struct {
	Updated      bool     `json:"updated"`
	AppliedPaths []string `json:"applied_paths,omitempty"`
}

// Seeder backfills registry defaults into tenant records.
//
// A field is seeded only when its canonical storage location is entirely
// absent from the record. A present-but-empty value is a deliberate state
// the health engine reports on; seeding never overwrites it. Running the
// seeder twice is a no-op the second time.
type Seeder struct {
	registry *registry.Snapshot
	store    store.Store
	logger   *slog.Logger
}

func NewSeeder(snap *registry.Snapshot, s store.Store, logger *slog.Logger) *Seeder {
	return &Seeder{registry: snap, store: s, logger: logger}
}

// SeedMissingBaseFields applies defaults in place on record and persists the
// result when anything changed.
func (s *Seeder) SeedMissingBaseFields(ctx context.Context, record *models.Record) (SeedResult, error) {
	result := s.apply(record)
	if !result.Updated {
		return result, nil
	}

	record.UpdatedAt = requestcontext.Now(ctx)
	if err := s.store.Update(ctx, record); err != nil {
		return SeedResult{}, err
	}
	if s.logger != nil {
		s.logger.Info("seeded missing base fields",
			"tenant_id", record.ID.String(),
			"paths", result.AppliedPaths,
		)
	}
	return result, nil
}

func (s *Seeder) apply(record *models.Record) SeedResult {
	var result SeedResult
	for _, field := range s.registry.Fields() {
		if field.IsDerived() || field.Default == nil {
			continue
		}
		if field.Storage.Collection != registry.CollectionSettings {
			continue
		}
		if _, found := resolve.Walk(record.Settings, field.Storage.Path); found {
			continue
		}
		if setNested(record.Settings, field.Storage.Path, field.Default) {
			result.AppliedPaths = append(result.AppliedPaths, field.ID)
		}
	}
	sort.Strings(result.AppliedPaths)
	result.Updated = len(result.AppliedPaths) > 0
	return result
}

// setNested writes value at a dotted path, creating intermediate maps. A
// non-map intermediate means the document disagrees with the registry's
// storage shape; the field is left alone rather than clobbered.
func setNested(doc map[string]any, path string, value any) bool {
	segments := strings.Split(path, ".")
	current := doc
	for _, seg := range segments[:len(segments)-1] {
		next, ok := current[seg]
		if !ok {
			child := map[string]any{}
			current[seg] = child
			current = child
			continue
		}
		child, ok := next.(map[string]any)
		if !ok {
			return false
		}
		current = child
	}
	current[segments[len(segments)-1]] = value
	return true
}
