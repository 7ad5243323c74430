package registry

// Reader records one place in runtime code that consumes a canonical path.
// Purely declarative metadata: Location is a code location string, never
// executed. This map is the ground truth for "is this field wired".
type Reader struct {
	Location    string
	Description string
	Critical    bool
}

// ConsumptionEntry declares the runtime consumers of one canonical path.
type ConsumptionEntry struct {
	Path    string
	Readers []Reader

	// LegacyStoragePath notes where the value lived before migration, for
	// operators chasing stale records. The authoritative fallback rules are
	// the bridges in bridges.go.
	LegacyStoragePath string
}

// ConsumptionMap is the immutable load-time view of runtime consumption.
type ConsumptionMap struct {
	entries []ConsumptionEntry
	byPath  map[string]ConsumptionEntry
}

// BuildConsumption constructs the map, rejecting duplicate paths.
func BuildConsumption(entries []ConsumptionEntry) (*ConsumptionMap, error) {
	byPath := make(map[string]ConsumptionEntry, len(entries))
	for _, e := range entries {
		if _, dup := byPath[e.Path]; dup {
			return nil, errDuplicateConsumption(e.Path)
		}
		byPath[e.Path] = e
	}
	return &ConsumptionMap{entries: entries, byPath: byPath}, nil
}

type errDuplicateConsumption string

func (e errDuplicateConsumption) Error() string {
	return "consumption map: duplicate path " + string(e)
}

// Entry returns the consumption entry for a path, if declared.
func (m *ConsumptionMap) Entry(path string) (ConsumptionEntry, bool) {
	e, ok := m.byPath[path]
	return e, ok
}

// Has reports whether runtime code consumes the path.
func (m *ConsumptionMap) Has(path string) bool {
	_, ok := m.byPath[path]
	return ok
}

// Entries returns all entries in declaration order.
func (m *ConsumptionMap) Entries() []ConsumptionEntry {
	out := make([]ConsumptionEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

// DeadReads returns paths consumed by runtime code but absent from the
// registry snapshot: hidden, undocumented configuration (registry drift).
func (m *ConsumptionMap) DeadReads(s *Snapshot) []string {
	var out []string
	for _, e := range m.entries {
		if !s.Has(e.Path) {
			out = append(out, e.Path)
		}
	}
	return out
}

// UIOnly returns registry paths no runtime code consumes: dead config that
// the admin surface exposes but nothing reads.
func (m *ConsumptionMap) UIOnly(s *Snapshot) []string {
	var out []string
	for _, f := range s.Fields() {
		if !m.Has(f.ID) {
			out = append(out, f.ID)
		}
	}
	return out
}

// consumptionEntries is updated whenever runtime code starts or stops
// reading a canonical path. Keep entries next to the code location they cite.
var consumptionEntries = []ConsumptionEntry{
	{Path: PathIdentityDisplayName, Readers: []Reader{
		{Location: "engine/prompt.BuildSystemPrompt", Description: "identity block of the system prompt", Critical: true},
		{Location: "engine/greeting.Render", Description: "{{business_name}} substitution"},
	}},
	{Path: PathIdentityBusinessCategory, Readers: []Reader{
		{Location: "engine/scenario.SelectPool", Description: "category-scoped scenario filtering"},
	}},
	{Path: PathIdentityLocale, Readers: []Reader{
		{Location: "engine/speech.NewSynthesizer", Description: "synthesis language selection"},
	}},
	{Path: PathGreetingOpening, Readers: []Reader{
		{Location: "engine/greeting.Open", Description: "first utterance of every call", Critical: true},
	}, LegacyStoragePath: "legacy.greetings"},
	{Path: PathGreetingAfterHours, Readers: []Reader{
		{Location: "engine/greeting.Open", Description: "substitute opening outside business hours"},
	}},
	{Path: PathGreetingClosing, Readers: []Reader{
		{Location: "engine/call.Hangup", Description: "final utterance before hangup"},
	}},
	{Path: PathVoiceVoiceID, Readers: []Reader{
		{Location: "engine/speech.NewSynthesizer", Description: "voice model selection", Critical: true},
	}},
	{Path: PathVoiceSpeakingRate, Readers: []Reader{
		{Location: "engine/speech.NewSynthesizer", Description: "prosody rate"},
	}},
	{Path: PathBookingEnabled, Readers: []Reader{
		{Location: "engine/booking.Offer", Description: "gate for offering appointment booking", Critical: true},
	}},
	{Path: PathBookingCalendarRef, Readers: []Reader{
		{Location: "engine/booking.ListSlots", Description: "calendar backend lookup"},
	}},
	{Path: PathBookingTransferNumber, Readers: []Reader{
		{Location: "engine/booking.TransferFallback", Description: "warm transfer when booking fails", Critical: true},
	}, LegacyStoragePath: "legacy.call_routing.transfer.number"},
	{Path: PathBookingConfirmationPhrase, Readers: []Reader{
		{Location: "engine/booking.Confirm", Description: "spoken confirmation after a slot is held"},
	}},
	{Path: PathBookingMaxAdvanceDays, Readers: []Reader{
		{Location: "engine/booking.ListSlots", Description: "horizon cap on offered slots"},
	}},
	{Path: PathScenariosPool, Readers: []Reader{
		{Location: "engine/scenario.SelectPool", Description: "candidate scenarios per turn", Critical: true},
	}},
	{Path: PathScenariosFallbackMode, Readers: []Reader{
		{Location: "engine/scenario.Fallback", Description: "behavior when the pool yields no match", Critical: true},
	}},
	{Path: PathScenariosMaxPerTurn, Readers: []Reader{
		{Location: "engine/scenario.SelectPool", Description: "candidate cap per turn"},
	}},
	{Path: PathComplianceAssistantKillSwitch, Readers: []Reader{
		{Location: "engine/call.Answer", Description: "refuse call pickup while engaged", Critical: true},
	}},
	{Path: PathComplianceBookingKillSwitch, Readers: []Reader{
		{Location: "engine/booking.Offer", Description: "suppress booking flows while engaged", Critical: true},
	}},
	{Path: PathComplianceRecordingDisclosure, Readers: []Reader{
		{Location: "engine/call.Answer", Description: "spoken before any other content", Critical: true},
	}},
	{Path: PathHoursTimezone, Readers: []Reader{
		{Location: "engine/hours.IsOpen", Description: "business-hours evaluation", Critical: true},
	}, LegacyStoragePath: "legacy.office.tz"},
	{Path: PathHoursWeekly, Readers: []Reader{
		{Location: "engine/hours.IsOpen", Description: "weekly schedule evaluation"},
	}},
	{Path: PathEscalationNumber, Readers: []Reader{
		{Location: "engine/escalation.Transfer", Description: "human escalation target", Critical: true},
	}},
	{Path: PathEscalationVoicemailEnabled, Readers: []Reader{
		{Location: "engine/escalation.Voicemail", Description: "voicemail offer when no human answers"},
	}},

	// Known drift: the speech layer reads this path directly but it was never
	// added to the registry. Kept declared so the diff report keeps flagging
	// it until the field is either registered or the read removed.
	{Path: "speech.noiseSuppression", Readers: []Reader{
		{Location: "engine/speech.NewRecognizer", Description: "noise suppression toggle"},
	}},
}

// LoadConsumption builds the production consumption map. Called once at
// startup.
func LoadConsumption() *ConsumptionMap {
	m, err := BuildConsumption(consumptionEntries)
	if err != nil {
		panic(err)
	}
	return m
}
