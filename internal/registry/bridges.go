package registry

// Bridge maps a pre-migration storage shape to a canonical value. A bridge is
// consulted only when canonical resolution returns empty, and its use is
// always externally observable through a LEGACY_PATH_USED trace event —
// never silent. That visibility is how migration progress is tracked.
type Bridge struct {
	// Path is the canonical path the bridge backfills.
	Path string

	// LegacyCollection and LegacyPath locate the old value on the tenant
	// record.
	LegacyCollection string
	LegacyPath       string

	// Extract maps the legacy-shaped value to the canonical shape. It must be
	// pure. Returning ok=false means the legacy value is unusable and
	// resolution falls through to the default.
	Extract func(legacy any) (value any, ok bool)

	// MigrationNote tells operators what writes the legacy shape and when it
	// can be retired.
	MigrationNote string
}

// BridgeSet is the immutable load-time view of all legacy bridges, keyed by
// canonical path.
type BridgeSet struct {
	byPath map[string]Bridge
}

// BuildBridges constructs the set, rejecting duplicates.
func BuildBridges(bridges []Bridge) (*BridgeSet, error) {
	byPath := make(map[string]Bridge, len(bridges))
	for _, b := range bridges {
		if _, dup := byPath[b.Path]; dup {
			return nil, errDuplicateBridge(b.Path)
		}
		byPath[b.Path] = b
	}
	return &BridgeSet{byPath: byPath}, nil
}

type errDuplicateBridge string

func (e errDuplicateBridge) Error() string {
	return "bridges: duplicate bridge for path " + string(e)
}

// Bridge returns the bridge for a canonical path, if one exists.
func (s *BridgeSet) Bridge(path string) (Bridge, bool) {
	b, ok := s.byPath[path]
	return b, ok
}

// Len returns the number of declared bridges.
func (s *BridgeSet) Len() int { return len(s.byPath) }

var bridges = []Bridge{
	{
		Path:             PathGreetingOpening,
		LegacyCollection: CollectionLegacy,
		LegacyPath:       "greetings",
		Extract: func(legacy any) (any, bool) {
			// Pre-migration records stored a list of greeting strings; the
			// first one was the opening.
			list, ok := legacy.([]any)
			if !ok || len(list) == 0 {
				return nil, false
			}
			s, ok := list[0].(string)
			if !ok || s == "" {
				return nil, false
			}
			return s, true
		},
		MigrationNote: "written by the v1 console until 2025-11; retire once no tenant record carries legacy.greetings",
	},
	{
		Path:             PathBookingTransferNumber,
		LegacyCollection: CollectionLegacy,
		LegacyPath:       "call_routing.transfer.number",
		Extract: func(legacy any) (any, bool) {
			s, ok := legacy.(string)
			if !ok || s == "" {
				return nil, false
			}
			return s, true
		},
		MigrationNote: "v1 call-routing block; copied forward on save since the routing revamp",
	},
	{
		Path:             PathHoursTimezone,
		LegacyCollection: CollectionLegacy,
		LegacyPath:       "office.tz",
		Extract: func(legacy any) (any, bool) {
			s, ok := legacy.(string)
			if !ok || s == "" {
				return nil, false
			}
			return s, true
		},
		MigrationNote: "old office block stored tz separately from hours; retire with the office block",
	},
}

// LoadBridges builds the production bridge set. Called once at startup.
func LoadBridges() *BridgeSet {
	s, err := BuildBridges(bridges)
	if err != nil {
		panic(err)
	}
	return s
}
