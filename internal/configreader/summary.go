package configreader

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"answerwire/internal/trace"
)

// readLog accumulates one call's read provenance. Mutated only by the single
// logical caller driving the call; no locking needed.
type readLog struct {
	countByPath  map[string]int
	hashByPath   map[string]string
	sourceCounts map[string]int
	violations   map[string]int
	order        []string
}

func newReadLog() *readLog {
	return &readLog{
		countByPath:  make(map[string]int),
		hashByPath:   make(map[string]string),
		sourceCounts: make(map[string]int),
		violations:   make(map[string]int),
	}
}

func (l *readLog) read(path, source, hash string) {
	if l.countByPath[path] == 0 {
		l.order = append(l.order, path)
	}
	l.countByPath[path]++
	l.sourceCounts[source]++
	if hash != "" {
		l.hashByPath[path] = hash
	}
}

func (l *readLog) violation(path string) {
	l.violations[path]++
}

// PathCount is one entry of the top-paths ranking.
type PathCount struct {
	Path  string `json:"path"`
	Count int    `json:"count"`
}

// Summary aggregates a call's read log.
type Summary struct {
	TotalReads  int            `json:"total_reads"`
	UniquePaths int            `json:"unique_paths"`
	TopPaths    []PathCount    `json:"top_paths"`
	BySource    map[string]int `json:"by_source"`

	// NeverRead lists registry paths this call never consulted: the first
	// place to look when a feature silently failed to fire.
	NeverRead []string `json:"never_read"`

	// UnregisteredReads lists read paths absent from the registry. Registry
	// drift; expected to be empty.
	UnregisteredReads []string `json:"unregistered_reads"`

	// ConfigHash fingerprints the effective configuration the call saw.
	ConfigHash string `json:"config_hash"`
}

// topN is how many paths the summary ranks.
const topN = 5

func (r *Reader) summarize() Summary {
	s := Summary{
		UniquePaths: len(r.log.countByPath),
		BySource:    make(map[string]int, len(r.log.sourceCounts)),
		ConfigHash:  r.ConfigHash(),
	}
	for src, n := range r.log.sourceCounts {
		s.BySource[src] = n
	}

	for path, n := range r.log.countByPath {
		s.TotalReads += n
		s.TopPaths = append(s.TopPaths, PathCount{Path: path, Count: n})
	}
	sort.Slice(s.TopPaths, func(i, j int) bool {
		if s.TopPaths[i].Count != s.TopPaths[j].Count {
			return s.TopPaths[i].Count > s.TopPaths[j].Count
		}
		return s.TopPaths[i].Path < s.TopPaths[j].Path
	})
	if len(s.TopPaths) > topN {
		s.TopPaths = s.TopPaths[:topN]
	}

	for _, path := range r.registry.Paths() {
		if r.log.countByPath[path] == 0 {
			s.NeverRead = append(s.NeverRead, path)
		}
	}
	for path := range r.log.countByPath {
		if !r.registry.Has(path) {
			s.UnregisteredReads = append(s.UnregisteredReads, path)
		}
	}
	sort.Strings(s.UnregisteredReads)
	return s
}

// ConfigHash fingerprints the set of (path, value hash) pairs read so far.
// Stable across read order so two calls that saw the same effective config
// hash identically.
func (r *Reader) ConfigHash() string {
	paths := make([]string, 0, len(r.log.hashByPath))
	for p := range r.log.hashByPath {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	var b strings.Builder
	for _, p := range paths {
		b.WriteString(p)
		b.WriteByte('=')
		b.WriteString(r.log.hashByPath[p])
		b.WriteByte(';')
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])[:12]
}

// EmitTurnSummary publishes an AW_TURN_SUMMARY event for the current turn.
func (r *Reader) EmitTurnSummary() Summary {
	s := r.summarize()
	r.emit(trace.Event{
		Kind:       trace.KindTurnSummary,
		ConfigHash: s.ConfigHash,
		Detail:     summaryDetail(s),
	})
	return s
}

// EmitCallSummary publishes the final AW_CALL_SUMMARY event for the call.
func (r *Reader) EmitCallSummary() Summary {
	s := r.summarize()
	r.emit(trace.Event{
		Kind:       trace.KindCallSummary,
		ConfigHash: s.ConfigHash,
		Detail:     summaryDetail(s),
	})
	return s
}

func summaryDetail(s Summary) map[string]any {
	return map[string]any{
		"total_reads":        s.TotalReads,
		"unique_paths":       s.UniquePaths,
		"top_paths":          s.TopPaths,
		"by_source":          s.BySource,
		"never_read":         s.NeverRead,
		"unregistered_reads": s.UnregisteredReads,
	}
}
