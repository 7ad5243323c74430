// Package resolve turns a canonical path plus a tenant record into the
// effective value and its provenance.
//
// Resolution order is strict and uniform for every field: canonical storage
// location first, then the legacy bridge (if one is declared), then the
// field's default. First hit wins. The ad hoc per-field fallback chains of
// the v1 engine are gone; bridges are declarative data in the registry.
package resolve

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"answerwire/internal/registry"
	"answerwire/internal/tenant/models"
	dErrors "answerwire/pkg/domain-errors"
)

// Source tells where an effective value came from.
type Source string

const (
	SourceTenantRecord Source = "tenantRecord"
	SourceLegacyBridge Source = "legacyBridge"
	SourceDefault      Source = "globalDefault"
	SourceAbsent       Source = "absent"
)

// Resolution is one effective config entry: computed at read time, never
// persisted.
type Resolution struct {
	Path      string
	Value     any
	Source    Source
	ValueHash string
}

// Present reports whether resolution produced any value at all.
func (r Resolution) Present() bool { return r.Source != SourceAbsent }

// FromBridge reports whether the legacy bridge supplied the value. Callers
// that observe this must emit a LEGACY_PATH_USED event; bridge use is never
// silent.
func (r Resolution) FromBridge() bool { return r.Source == SourceLegacyBridge }

// Resolver resolves canonical paths against tenant records. Safe for
// concurrent use; it holds only immutable snapshots.
type Resolver struct {
	registry *registry.Snapshot
	bridges  *registry.BridgeSet
}

// New constructs a resolver over the given registry and bridge snapshots.
func New(snap *registry.Snapshot, bridges *registry.BridgeSet) *Resolver {
	return &Resolver{registry: snap, bridges: bridges}
}

// Resolve produces the effective value for one canonical path.
//
// Derived fields have no storage; they resolve to absent here and are
// computed by the health engine from the shared-content catalog.
func (r *Resolver) Resolve(rec *models.Record, path string) (Resolution, error) {
	field, ok := r.registry.Field(path)
	if !ok {
		return Resolution{}, dErrors.Newf(dErrors.CodeUnregisteredPath, "path %q is not in the registry", path)
	}
	if field.IsDerived() {
		return Resolution{Path: path, Source: SourceAbsent}, nil
	}

	// 1. Canonical location.
	if v, found := Walk(rec.Collection(field.Storage.Collection), field.Storage.Path); found && !IsEmpty(v) {
		return resolution(path, v, SourceTenantRecord), nil
	}

	// 2. Legacy bridge.
	if bridge, ok := r.bridges.Bridge(path); ok {
		if raw, found := Walk(rec.Collection(bridge.LegacyCollection), bridge.LegacyPath); found && !IsEmpty(raw) {
			if v, ok := bridge.Extract(raw); ok && !IsEmpty(v) {
				return resolution(path, v, SourceLegacyBridge), nil
			}
		}
	}

	// 3. Global default.
	if field.Default != nil {
		return resolution(path, field.Default, SourceDefault), nil
	}

	return Resolution{Path: path, Source: SourceAbsent}, nil
}

func resolution(path string, value any, source Source) Resolution {
	return Resolution{Path: path, Value: value, Source: source, ValueHash: HashValue(value)}
}

// HashValue produces a short stable hash of a value for trace correlation.
// The hash, not the value, goes into trace events so previews stay bounded.
func HashValue(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		raw = []byte(fmt.Sprintf("%v", v))
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])[:12]
}

// Preview renders a bounded human-readable preview of a value for trace
// events and report output.
func Preview(v any, max int) string {
	s := fmt.Sprintf("%v", v)
	if len(s) > max {
		return s[:max] + "…"
	}
	return s
}
