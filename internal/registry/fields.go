package registry

// Canonical paths. These are the stable identifiers joining the admin UI,
// the persisted tenant record, and runtime consumption. Never rename one
// without a legacy bridge.
const (
	PathIdentityDisplayName      = "identity.displayName"
	PathIdentityBusinessCategory = "identity.businessCategory"
	PathIdentityLocale           = "identity.locale"
	PathIdentityLogoURL          = "identity.logoURL"

	PathGreetingOpening    = "greeting.opening"
	PathGreetingAfterHours = "greeting.afterHours"
	PathGreetingClosing    = "greeting.closing"

	PathVoiceVoiceID      = "voice.voiceID"
	PathVoiceSpeakingRate = "voice.speakingRate"
	PathVoiceBargeIn      = "voice.bargeIn"

	PathBookingEnabled            = "booking.enabled"
	PathBookingCalendarRef        = "booking.calendarRef"
	PathBookingTransferNumber     = "booking.transferNumber"
	PathBookingConfirmationPhrase = "booking.confirmationPhrase"
	PathBookingMaxAdvanceDays     = "booking.maxAdvanceDays"

	PathScenariosPool         = "scenarios.pool"
	PathScenariosFallbackMode = "scenarios.fallbackMode"
	PathScenariosMaxPerTurn   = "scenarios.maxPerTurn"

	PathComplianceAssistantKillSwitch = "compliance.assistantKillSwitch"
	PathComplianceBookingKillSwitch   = "compliance.bookingKillSwitch"
	PathComplianceRecordingDisclosure = "compliance.recordingDisclosure"

	PathHoursTimezone = "hours.timezone"
	PathHoursWeekly   = "hours.weekly"

	PathEscalationNumber           = "escalation.number"
	PathEscalationVoicemailEnabled = "escalation.voicemailEnabled"
)

// CollectionSettings is the canonical storage sub-document on the tenant
// record; CollectionLegacy holds pre-migration shapes reachable only through
// legacy bridges.
const (
	CollectionSettings = "settings"
	CollectionLegacy   = "legacy"
)

// Version is bumped whenever the declarations below change shape.
const Version = "2026.08"

// fieldNodes is the full declaration tree, tab by tab. Order here is the
// order the report renders.
var fieldNodes = []*FieldNode{
	// ── Identity ──
	{
		ID:         PathIdentityDisplayName,
		Label:      "Business name",
		UI:         UIDescriptor{Tab: "Identity", Section: "Business", Control: "text"},
		Kind:       KindStored,
		Storage:    Storage{Collection: CollectionSettings, Path: "identity.display_name"},
		Validators: []ValidatorID{ValidatorNonEmptyString},
		Required:   true,
		Critical:   true,
	},
	{
		ID:         PathIdentityBusinessCategory,
		Label:      "Business category",
		UI:         UIDescriptor{Tab: "Identity", Section: "Business", Control: "select"},
		Kind:       KindStored,
		Storage:    Storage{Collection: CollectionSettings, Path: "identity.category"},
		Validators: []ValidatorID{ValidatorNonEmptyString},
	},
	{
		ID:         PathIdentityLocale,
		Label:      "Locale",
		UI:         UIDescriptor{Tab: "Identity", Section: "Business", Control: "select"},
		Kind:       KindStored,
		Storage:    Storage{Collection: CollectionSettings, Path: "identity.locale"},
		Validators: []ValidatorID{ValidatorLocaleTag},
		Default:    "en-US",
	},
	{
		ID:      PathIdentityLogoURL,
		Label:   "Logo",
		UI:      UIDescriptor{Tab: "Identity", Section: "Branding", Control: "upload"},
		Kind:    KindStored,
		Storage: Storage{Collection: CollectionSettings, Path: "identity.logo_url"},
	},

	// ── Greeting ──
	{
		ID:         PathGreetingOpening,
		Label:      "Opening greeting",
		UI:         UIDescriptor{Tab: "Greeting", Section: "Phrases", Control: "textarea"},
		Kind:       KindStored,
		Storage:    Storage{Collection: CollectionSettings, Path: "greeting.opening"},
		Validators: []ValidatorID{ValidatorNonEmptyString, ValidatorPlaceholders},
		Required:   true,
		Critical:   true,
	},
	{
		ID:         PathGreetingAfterHours,
		Label:      "After-hours greeting",
		UI:         UIDescriptor{Tab: "Greeting", Section: "Phrases", Control: "textarea"},
		Kind:       KindStored,
		Storage:    Storage{Collection: CollectionSettings, Path: "greeting.after_hours"},
		Validators: []ValidatorID{ValidatorPlaceholders},
	},
	{
		ID:         PathGreetingClosing,
		Label:      "Closing phrase",
		UI:         UIDescriptor{Tab: "Greeting", Section: "Phrases", Control: "text"},
		Kind:       KindStored,
		Storage:    Storage{Collection: CollectionSettings, Path: "greeting.closing"},
		Validators: []ValidatorID{ValidatorPlaceholders},
		Default:    "Thanks for calling, have a great day!",
	},

	// ── Voice ──
	{
		ID:         PathVoiceVoiceID,
		Label:      "Voice",
		UI:         UIDescriptor{Tab: "Voice", Section: "Synthesis", Control: "select"},
		Kind:       KindStored,
		Storage:    Storage{Collection: CollectionSettings, Path: "voice.voice_id"},
		Validators: []ValidatorID{ValidatorNonEmptyString},
		Required:   true,
	},
	{
		ID:         PathVoiceSpeakingRate,
		Label:      "Speaking rate",
		UI:         UIDescriptor{Tab: "Voice", Section: "Synthesis", Control: "slider"},
		Kind:       KindStored,
		Storage:    Storage{Collection: CollectionSettings, Path: "voice.speaking_rate"},
		Validators: []ValidatorID{ValidatorSpeakingRate},
		Default:    1.0,
	},
	{
		ID:         PathVoiceBargeIn,
		Label:      "Allow barge-in",
		UI:         UIDescriptor{Tab: "Voice", Section: "Interaction", Control: "toggle"},
		Kind:       KindStored,
		Storage:    Storage{Collection: CollectionSettings, Path: "voice.barge_in"},
		Validators: []ValidatorID{ValidatorBoolean},
		Default:    true,
	},

	// ── Booking ──
	{
		ID:         PathBookingEnabled,
		Label:      "Enable booking",
		UI:         UIDescriptor{Tab: "Booking", Section: "General", Control: "toggle"},
		Kind:       KindStored,
		Storage:    Storage{Collection: CollectionSettings, Path: "booking.enabled"},
		Validators: []ValidatorID{ValidatorBoolean},
		Critical:   true,
		Default:    false,
	},
	{
		ID:         PathBookingCalendarRef,
		Label:      "Calendar connection",
		UI:         UIDescriptor{Tab: "Booking", Section: "General", Control: "connect"},
		Kind:       KindStored,
		Storage:    Storage{Collection: CollectionSettings, Path: "booking.calendar_ref"},
		Validators: []ValidatorID{ValidatorNonEmptyString},
	},
	{
		ID:         PathBookingTransferNumber,
		Label:      "Transfer number",
		UI:         UIDescriptor{Tab: "Booking", Section: "Routing", Control: "phone"},
		Kind:       KindStored,
		Storage:    Storage{Collection: CollectionSettings, Path: "booking.transfer_number"},
		Validators: []ValidatorID{ValidatorE164Phone},
	},
	{
		ID:         PathBookingConfirmationPhrase,
		Label:      "Confirmation phrase",
		UI:         UIDescriptor{Tab: "Booking", Section: "Phrases", Control: "textarea"},
		Kind:       KindStored,
		Storage:    Storage{Collection: CollectionSettings, Path: "booking.confirmation_phrase"},
		Validators: []ValidatorID{ValidatorPlaceholders},
	},
	{
		ID:         PathBookingMaxAdvanceDays,
		Label:      "Max days in advance",
		UI:         UIDescriptor{Tab: "Booking", Section: "General", Control: "number"},
		Kind:       KindStored,
		Storage:    Storage{Collection: CollectionSettings, Path: "booking.max_advance_days"},
		Validators: []ValidatorID{ValidatorPositiveInt},
		Default:    30,
	},

	// ── Scenarios ──
	{
		ID:       PathScenariosPool,
		Label:    "Scenario pool",
		UI:       UIDescriptor{Tab: "Scenarios", Section: "Content", Control: "linked-list"},
		Kind:     KindDerived,
		Critical: true,
	},
	{
		ID:         PathScenariosFallbackMode,
		Label:      "Fallback when no scenario matches",
		UI:         UIDescriptor{Tab: "Scenarios", Section: "Behavior", Control: "select"},
		Kind:       KindStored,
		Storage:    Storage{Collection: CollectionSettings, Path: "scenarios.fallback_mode"},
		Validators: []ValidatorID{ValidatorFallbackMode},
		Default:    "llm",
	},
	{
		ID:         PathScenariosMaxPerTurn,
		Label:      "Max scenarios per turn",
		UI:         UIDescriptor{Tab: "Scenarios", Section: "Behavior", Control: "number"},
		Kind:       KindStored,
		Storage:    Storage{Collection: CollectionSettings, Path: "scenarios.max_per_turn"},
		Validators: []ValidatorID{ValidatorPositiveInt},
		Default:    3,
	},

	// ── Compliance ──
	{
		ID:             PathComplianceAssistantKillSwitch,
		Label:          "Pause assistant",
		UI:             UIDescriptor{Tab: "Compliance", Section: "Safety", Control: "toggle"},
		Kind:           KindStored,
		Storage:        Storage{Collection: CollectionSettings, Path: "compliance.kill_switch"},
		Validators:     []ValidatorID{ValidatorBoolean},
		Critical:       true,
		KillSwitch:     true,
		BlockingEffect: "assistant answers no calls while engaged",
		Default:        false,
	},
	{
		ID:             PathComplianceBookingKillSwitch,
		Label:          "Pause booking",
		UI:             UIDescriptor{Tab: "Compliance", Section: "Safety", Control: "toggle"},
		Kind:           KindStored,
		Storage:        Storage{Collection: CollectionSettings, Path: "compliance.booking_kill_switch"},
		Validators:     []ValidatorID{ValidatorBoolean},
		KillSwitch:     true,
		BlockingEffect: "booking flows are suppressed; callers are offered transfer instead",
		Default:        false,
	},
	{
		ID:         PathComplianceRecordingDisclosure,
		Label:      "Recording disclosure",
		UI:         UIDescriptor{Tab: "Compliance", Section: "Disclosures", Control: "textarea"},
		Kind:       KindStored,
		Storage:    Storage{Collection: CollectionSettings, Path: "compliance.recording_disclosure"},
		Validators: []ValidatorID{ValidatorNonEmptyString},
		Required:   true,
	},

	// ── Hours ──
	{
		ID:         PathHoursTimezone,
		Label:      "Timezone",
		UI:         UIDescriptor{Tab: "Hours", Section: "Schedule", Control: "select"},
		Kind:       KindStored,
		Storage:    Storage{Collection: CollectionSettings, Path: "hours.timezone"},
		Validators: []ValidatorID{ValidatorTimezoneName},
		Required:   true,
	},
	{
		ID:         PathHoursWeekly,
		Label:      "Weekly hours",
		UI:         UIDescriptor{Tab: "Hours", Section: "Schedule", Control: "hours-grid"},
		Kind:       KindStored,
		Storage:    Storage{Collection: CollectionSettings, Path: "hours.weekly"},
		Validators: []ValidatorID{ValidatorWeeklyHours},
	},

	// ── Escalation ──
	{
		ID:         PathEscalationNumber,
		Label:      "Escalation number",
		UI:         UIDescriptor{Tab: "Escalation", Section: "Routing", Control: "phone"},
		Kind:       KindStored,
		Storage:    Storage{Collection: CollectionSettings, Path: "escalation.number"},
		Validators: []ValidatorID{ValidatorE164Phone},
	},
	{
		ID:         PathEscalationVoicemailEnabled,
		Label:      "Offer voicemail",
		UI:         UIDescriptor{Tab: "Escalation", Section: "Routing", Control: "toggle"},
		Kind:       KindStored,
		Storage:    Storage{Collection: CollectionSettings, Path: "escalation.voicemail_enabled"},
		Validators: []ValidatorID{ValidatorBoolean},
		Default:    true,
	},
}

// Load builds the production registry snapshot. Called once at startup.
func Load() *Snapshot {
	return MustBuild(Version, fieldNodes)
}
