// Package registry declares every configurable capability of the assistant:
// the canonical path tree shown in the admin UI, where each field is
// persisted, how its value is validated, and which runtime code consumes it.
//
// The registry is data, not code. It is built once at process start into an
// immutable Snapshot and injected into every resolver and reader; rebuilding
// requires constructing a new Snapshot, never in-place mutation, so
// concurrent readers never observe a half-built registry.
package registry

import (
	"fmt"
	"sort"
)

// Kind discriminates how a field's value is obtained.
type Kind string

const (
	// KindStored fields live at a concrete location on the tenant record.
	KindStored Kind = "stored"
	// KindDerived fields are computed from entities shared across tenants
	// (never stored directly on the tenant record).
	KindDerived Kind = "derived"
)

// Storage names the concrete persisted location of a stored field.
// Collection selects the sub-document on the tenant record ("settings" or
// "legacy"); Path is a dotted path inside it.
type Storage struct {
	Collection string
	Path       string
}

// UIDescriptor is human-facing placement metadata. Never used for logic.
type UIDescriptor struct {
	Tab     string
	Section string
	Control string
}

// FieldNode is one leaf of the canonical path registry.
type FieldNode struct {
	// ID is the dotted canonical path, globally unique and stable across
	// releases. It is the primary key joining UI, storage, and runtime views.
	ID    string
	Label string
	UI    UIDescriptor

	Kind    Kind
	Storage Storage // zero value when Kind == KindDerived

	// Validators run in declaration order against the resolved value.
	// First failure wins.
	Validators []ValidatorID

	Required bool
	Critical bool

	// KillSwitch marks a boolean field whose true value suppresses an entire
	// runtime behavior category. BlockingEffect describes what stops.
	KillSwitch     bool
	BlockingEffect string

	// Default is used when no persisted or legacy value resolves.
	// nil means the field has no default (resolution may return absent).
	Default any
}

// IsDerived reports whether the field's value is computed rather than stored.
func (f *FieldNode) IsDerived() bool { return f.Kind == KindDerived }

// Snapshot is the immutable, load-time view of the registry. Safe for
// unlimited concurrent reads.
type Snapshot struct {
	fields  []*FieldNode
	byID    map[string]*FieldNode
	version string
}

// Build validates the field declarations and constructs a Snapshot.
// It fails on duplicate IDs, unknown validators, stored fields without a
// storage location, and derived fields that declare one.
func Build(version string, fields []*FieldNode) (*Snapshot, error) {
	byID := make(map[string]*FieldNode, len(fields))
	for _, f := range fields {
		if f.ID == "" {
			return nil, fmt.Errorf("registry: field with empty id (label %q)", f.Label)
		}
		if _, dup := byID[f.ID]; dup {
			return nil, fmt.Errorf("registry: duplicate field id %q", f.ID)
		}
		switch f.Kind {
		case KindStored:
			if f.Storage.Collection == "" || f.Storage.Path == "" {
				return nil, fmt.Errorf("registry: stored field %q has no storage location", f.ID)
			}
		case KindDerived:
			if f.Storage != (Storage{}) {
				return nil, fmt.Errorf("registry: derived field %q declares a storage location", f.ID)
			}
		default:
			return nil, fmt.Errorf("registry: field %q has unknown kind %q", f.ID, f.Kind)
		}
		for _, v := range f.Validators {
			if _, ok := validators[v]; !ok {
				return nil, fmt.Errorf("registry: field %q references unknown validator %q", f.ID, v)
			}
		}
		if f.KillSwitch && f.BlockingEffect == "" {
			return nil, fmt.Errorf("registry: kill-switch field %q has no blocking effect text", f.ID)
		}
		byID[f.ID] = f
	}
	return &Snapshot{fields: fields, byID: byID, version: version}, nil
}

// MustBuild is Build for static declarations known to be valid.
func MustBuild(version string, fields []*FieldNode) *Snapshot {
	s, err := Build(version, fields)
	if err != nil {
		panic(err)
	}
	return s
}

// Version identifies the registry declaration revision carried in reports.
func (s *Snapshot) Version() string { return s.version }

// Field looks up a field node by canonical path.
func (s *Snapshot) Field(path string) (*FieldNode, bool) {
	f, ok := s.byID[path]
	return f, ok
}

// Has reports registry membership of a canonical path.
func (s *Snapshot) Has(path string) bool {
	_, ok := s.byID[path]
	return ok
}

// Fields returns all field nodes in declaration order.
func (s *Snapshot) Fields() []*FieldNode {
	out := make([]*FieldNode, len(s.fields))
	copy(out, s.fields)
	return out
}

// Paths returns all canonical paths, sorted, for summary output.
func (s *Snapshot) Paths() []string {
	out := make([]string, 0, len(s.fields))
	for _, f := range s.fields {
		out = append(out, f.ID)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of declared fields.
func (s *Snapshot) Len() int { return len(s.fields) }

// Tabs returns the distinct UI tabs in declaration order.
func (s *Snapshot) Tabs() []string {
	seen := make(map[string]bool)
	var tabs []string
	for _, f := range s.fields {
		if !seen[f.UI.Tab] {
			seen[f.UI.Tab] = true
			tabs = append(tabs, f.UI.Tab)
		}
	}
	return tabs
}
