package health

import (
	"sort"

	"answerwire/internal/resolve"
	"answerwire/internal/tenant/models"
)

// UIField is one admin-surface control in the UI map.
type UIField struct {
	Path    string `json:"path"`
	Label   string `json:"label"`
	Section string `json:"section"`
	Control string `json:"control"`
}

// DataEntry is one persisted value in the data map.
type DataEntry struct {
	Path    string `json:"path"`
	Source  string `json:"source"`
	Preview string `json:"preview"`
}

// RuntimeEntry is one consumption-map declaration in the runtime map.
type RuntimeEntry struct {
	Path     string   `json:"path"`
	Readers  []string `json:"readers"`
	Critical bool     `json:"critical"`
}

// DiffReport reconciles the three views of configuration: what the UI
// exposes, what is persisted, and what runtime code reads.
type DiffReport struct {
	// RuntimeReadsNotInRegistry is registry drift: paths runtime code
	// consumes that no registry node declares. Tenant-independent.
	RuntimeReadsNotInRegistry []string `json:"runtime_reads_not_in_registry,omitempty"`

	// RegistryPathsNotConsumed is dead config: declared and editable but
	// never read. Tenant-independent.
	RegistryPathsNotConsumed []string `json:"registry_paths_not_consumed,omitempty"`

	// PersistedButUnread is this tenant's stored values nothing consumes.
	PersistedButUnread []string `json:"persisted_but_unread,omitempty"`

	// ConsumedButAbsent is consumed paths this tenant has no value for
	// (and no default covers).
	ConsumedButAbsent []string `json:"consumed_but_absent,omitempty"`
}

const diffPreviewMax = 40

// UIMap returns the admin surface grouped by tab.
func (e *Engine) UIMap() map[string][]UIField {
	out := make(map[string][]UIField)
	for _, field := range e.registry.Fields() {
		out[field.UI.Tab] = append(out[field.UI.Tab], UIField{
			Path:    field.ID,
			Label:   field.Label,
			Section: field.UI.Section,
			Control: field.UI.Control,
		})
	}
	for tab := range out {
		sort.Slice(out[tab], func(i, j int) bool { return out[tab][i].Path < out[tab][j].Path })
	}
	return out
}

// RuntimeMap returns the declared consumption surface.
func (e *Engine) RuntimeMap() []RuntimeEntry {
	var out []RuntimeEntry
	for _, entry := range e.consumption.Entries() {
		re := RuntimeEntry{Path: entry.Path}
		for _, reader := range entry.Readers {
			re.Readers = append(re.Readers, reader.Location)
			if reader.Critical {
				re.Critical = true
			}
		}
		out = append(out, re)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// DataMap returns the tenant's persisted values by canonical path.
func (e *Engine) DataMap(record *models.Record) []DataEntry {
	var out []DataEntry
	for _, field := range e.registry.Fields() {
		if field.IsDerived() {
			continue
		}
		res, err := e.resolver.Resolve(record, field.ID)
		if err != nil || !res.Present() {
			continue
		}
		if res.Source != resolve.SourceTenantRecord && res.Source != resolve.SourceLegacyBridge {
			continue
		}
		out = append(out, DataEntry{
			Path:    field.ID,
			Source:  string(res.Source),
			Preview: resolve.Preview(res.Value, diffPreviewMax),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Diff builds the three-way reconciliation for one tenant.
func (e *Engine) Diff(record *models.Record) DiffReport {
	report := DiffReport{
		RuntimeReadsNotInRegistry: e.consumption.DeadReads(e.registry),
		RegistryPathsNotConsumed:  e.consumption.UIOnly(e.registry),
	}

	persisted := make(map[string]bool)
	for _, entry := range e.DataMap(record) {
		persisted[entry.Path] = true
	}
	for _, field := range e.registry.Fields() {
		if field.IsDerived() {
			continue
		}
		consumed := e.consumption.Has(field.ID)
		switch {
		case persisted[field.ID] && !consumed:
			report.PersistedButUnread = append(report.PersistedButUnread, field.ID)
		case !persisted[field.ID] && consumed && field.Default == nil:
			report.ConsumedButAbsent = append(report.ConsumedButAbsent, field.ID)
		}
	}
	sort.Strings(report.PersistedButUnread)
	sort.Strings(report.ConsumedButAbsent)
	return report
}
