package models

import (
	"time"

	id "answerwire/pkg/domain"
	dErrors "answerwire/pkg/domain-errors"
)

// Record is the persisted configuration document for one tenant.
//
// Invariants:
//   - ID is non-nil and immutable after construction
//   - Settings holds the canonical storage shapes; runtime code never reads
//     it directly, only through the config reader choke point
//   - Legacy holds pre-migration shapes reachable only through legacy
//     bridges; nothing writes to it anymore
//   - ContentLinks stores only opaque references to shared content, never
//     the content bodies themselves (cross-tenant isolation boundary)
type Record struct {
	ID       id.TenantID `json:"id"`
	Name     string      `json:"name"`
	Category string      `json:"category,omitempty"`

	Settings map[string]any `json:"settings"`
	Legacy   map[string]any `json:"legacy,omitempty"`

	ContentLinks []ContentLink `json:"content_links,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ContentLink references one shared scenario template by opaque ID.
type ContentLink struct {
	RefID  string `json:"ref_id"`
	Active bool   `json:"active"`
}

// NewRecord constructs a tenant record with empty configuration.
func NewRecord(tenantID id.TenantID, name string, now time.Time) (*Record, error) {
	if tenantID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "tenant id cannot be nil")
	}
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "tenant name cannot be empty")
	}
	if len(name) > 128 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "tenant name must be 128 characters or less")
	}
	return &Record{
		ID:        tenantID,
		Name:      name,
		Settings:  map[string]any{},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Collection returns the named storage sub-document. Unknown collections
// return nil, which walks resolve as empty.
func (r *Record) Collection(name string) map[string]any {
	switch name {
	case "settings":
		return r.Settings
	case "legacy":
		return r.Legacy
	}
	return nil
}

// ActiveLinks returns the content links currently switched on.
func (r *Record) ActiveLinks() []ContentLink {
	var out []ContentLink
	for _, l := range r.ContentLinks {
		if l.Active {
			out = append(out, l)
		}
	}
	return out
}

// Clone returns a deep copy so report evaluation can work on a snapshot
// while a concurrent seed step mutates the stored record.
func (r *Record) Clone() *Record {
	cp := *r
	cp.Settings = cloneMap(r.Settings)
	cp.Legacy = cloneMap(r.Legacy)
	cp.ContentLinks = make([]ContentLink, len(r.ContentLinks))
	copy(cp.ContentLinks, r.ContentLinks)
	return &cp
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			out[k] = cloneMap(nested)
			continue
		}
		if list, ok := v.([]any); ok {
			cp := make([]any, len(list))
			copy(cp, list)
			out[k] = cp
			continue
		}
		out[k] = v
	}
	return out
}
