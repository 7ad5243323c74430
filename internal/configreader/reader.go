// Package configreader is the single sanctioned entry point for reading a
// canonical path's effective value at runtime.
//
// Every live call constructs one Reader scoped to that call. The reader
// enforces registry membership, resolves through the path resolver, emits a
// trace event per read, and tracks full read provenance so "why didn't this
// feature fire?" is answerable after the fact.
package configreader

import (
	"context"
	"log/slog"

	readermetrics "answerwire/internal/configreader/metrics"
	"answerwire/internal/enforcement"
	"answerwire/internal/registry"
	"answerwire/internal/resolve"
	"answerwire/internal/tenant/models"
	"answerwire/internal/trace"
	id "answerwire/pkg/domain"
	dErrors "answerwire/pkg/domain-errors"
)

// valuePreviewMax bounds value previews carried in trace events.
const valuePreviewMax = 60

// sourceCallerDefault marks reads satisfied by the default the call site
// passed in, as opposed to the registry's global default.
const sourceCallerDefault = "callerDefault"

// Scope carries the correlation identity of one call.
type Scope struct {
	CallID         id.CallID
	TenantID       id.TenantID
	TraceRunID     id.TraceRunID
	ReaderIdentity string
}

// Factory builds per-call readers over the process-wide immutable snapshots.
type Factory struct {
	registry    *registry.Snapshot
	resolver    *resolve.Resolver
	enforcement *enforcement.Resolver
	publisher   *trace.Publisher
	logger      *slog.Logger
	metrics     *readermetrics.Metrics
}

// NewFactory wires the reader factory. All arguments except metrics are
// required.
func NewFactory(
	snap *registry.Snapshot,
	resolver *resolve.Resolver,
	enf *enforcement.Resolver,
	publisher *trace.Publisher,
	logger *slog.Logger,
	m *readermetrics.Metrics,
) *Factory {
	return &Factory{
		registry:    snap,
		resolver:    resolver,
		enforcement: enf,
		publisher:   publisher,
		logger:      logger,
		metrics:     m,
	}
}

// CallOptions parameterize one reader instance.
type CallOptions struct {
	CallID         id.CallID
	TenantID       id.TenantID
	Turn           int
	Record         *models.Record
	ReaderIdentity string

	// EnforcementMode, when set, overrides tenant and process settings.
	EnforcementMode enforcement.Mode
}

// ForCall constructs a reader scoped to one call. The reader is mutated only
// by the single logical caller driving the call's turns; it is not safe for
// concurrent use.
func (f *Factory) ForCall(ctx context.Context, opts CallOptions) (*Reader, error) {
	if opts.Record == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "config reader requires a loaded tenant record")
	}
	if opts.TenantID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "config reader requires a tenant id")
	}
	mode := f.enforcement.ModeFor(ctx, opts.TenantID, opts.EnforcementMode)
	return &Reader{
		scope: Scope{
			CallID:         opts.CallID,
			TenantID:       opts.TenantID,
			TraceRunID:     id.NewTraceRunID(),
			ReaderIdentity: opts.ReaderIdentity,
		},
		turn:      opts.Turn,
		record:    opts.Record,
		registry:  f.registry,
		resolver:  f.resolver,
		mode:      mode,
		publisher: f.publisher,
		logger:    f.logger,
		metrics:   f.metrics,
		log:       newReadLog(),
	}, nil
}

// Reader is one call's choke point instance.
type Reader struct {
	scope     Scope
	turn      int
	record    *models.Record
	registry  *registry.Snapshot
	resolver  *resolve.Resolver
	mode      enforcement.Mode
	publisher *trace.Publisher
	logger    *slog.Logger
	metrics   *readermetrics.Metrics
	log       *readLog
}

// Scope returns the reader's correlation identity.
func (r *Reader) Scope() Scope { return r.scope }

// Mode returns the effective enforcement mode this reader runs under.
func (r *Reader) Mode() enforcement.Mode { return r.mode }

// NextTurn advances the turn counter stamped on subsequent events.
func (r *Reader) NextTurn() int {
	r.turn++
	return r.turn
}

// Get returns the effective value of a canonical path, falling back to def
// when resolution yields nothing.
//
// Under throw enforcement an unregistered path aborts the read before any
// resolution happens. Under warn it is logged, traced, and resolved best
// effort. Trace emission never fails the read.
func (r *Reader) Get(path string, def any) (any, error) {
	if r.mode != enforcement.ModeOff && !r.registry.Has(path) {
		r.recordViolation(path)
		if r.mode == enforcement.ModeThrow {
			return nil, dErrors.Newf(dErrors.CodeUnregisteredPath,
				"read of unregistered path %q (enforcement=throw)", path)
		}
		if r.logger != nil {
			r.logger.Warn("read of unregistered path",
				"path", path,
				"tenant_id", r.scope.TenantID.String(),
				"call_id", r.scope.CallID.String(),
				"reader", r.scope.ReaderIdentity,
			)
		}
	}

	res := r.resolveAny(path)
	value, source := res.Value, string(res.Source)
	if !res.Present() {
		if def == nil {
			r.recordRead(path, string(resolve.SourceAbsent), "")
			r.emit(trace.Event{
				Kind:   trace.KindConfigRead,
				Path:   path,
				Source: string(resolve.SourceAbsent),
			})
			return nil, nil
		}
		value, source = def, sourceCallerDefault
	}

	hash := resolve.HashValue(value)
	r.recordRead(path, source, hash)
	r.emit(trace.Event{
		Kind:         trace.KindConfigRead,
		Path:         path,
		Source:       source,
		ValueHash:    hash,
		ValuePreview: resolve.Preview(value, valuePreviewMax),
	})
	if res.FromBridge() {
		if r.metrics != nil {
			r.metrics.ObserveLegacyHit()
		}
		r.emit(trace.Event{
			Kind:      trace.KindLegacyPathUsed,
			Path:      path,
			ValueHash: hash,
		})
	}
	return value, nil
}

// resolveAny resolves registered paths through the resolver and falls back
// to a direct settings walk for unregistered ones (off/warn modes only reach
// here for those), mirroring the pre-registry behavior those modes exist to
// tolerate.
func (r *Reader) resolveAny(path string) resolve.Resolution {
	if r.registry.Has(path) {
		res, err := r.resolver.Resolve(r.record, path)
		if err == nil {
			return res
		}
		// Resolver errors are non-fatal to the caller: degrade to absent.
		if r.logger != nil {
			r.logger.Warn("resolution failed", "path", path, "error", err)
		}
		return resolve.Resolution{Path: path, Source: resolve.SourceAbsent}
	}
	if v, found := resolve.Walk(r.record.Settings, path); found && !resolve.IsEmpty(v) {
		return resolve.Resolution{Path: path, Value: v, Source: resolve.SourceTenantRecord, ValueHash: resolve.HashValue(v)}
	}
	return resolve.Resolution{Path: path, Source: resolve.SourceAbsent}
}

// GetMany resolves several paths in one pass. A throw-mode violation on any
// path aborts the whole batch.
func (r *Reader) GetMany(paths []string) (map[string]any, error) {
	out := make(map[string]any, len(paths))
	for _, p := range paths {
		v, err := r.Get(p, nil)
		if err != nil {
			return nil, err
		}
		out[p] = v
	}
	return out, nil
}

// IsEnabled reports whether a boolean path resolves to true. Read errors
// count as disabled.
func (r *Reader) IsEnabled(path string) bool {
	v, err := r.Get(path, false)
	if err != nil {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

// IsDisabled is the complement of IsEnabled, for kill-switch call sites that
// read better in the negative.
func (r *Reader) IsDisabled(path string) bool {
	return !r.IsEnabled(path)
}

func (r *Reader) recordViolation(path string) {
	r.log.violation(path)
	if r.metrics != nil {
		r.metrics.ObserveViolation(string(r.mode))
	}
	r.emit(trace.Event{
		Kind:   trace.KindViolation,
		Path:   path,
		Source: string(r.mode),
	})
}

func (r *Reader) recordRead(path, source, hash string) {
	r.log.read(path, source, hash)
	if r.metrics != nil {
		r.metrics.ObserveRead(source)
	}
}

// emit stamps correlation keys and hands the event to the publisher. The
// publisher never blocks and never returns an error; a sink outage degrades
// observability, not availability.
func (r *Reader) emit(event trace.Event) {
	if r.publisher == nil {
		return
	}
	event.TenantID = r.scope.TenantID
	event.CallID = r.scope.CallID
	event.Turn = r.turn
	event.TraceRunID = r.scope.TraceRunID
	event.Reader = r.scope.ReaderIdentity
	r.publisher.Emit(event)
}
