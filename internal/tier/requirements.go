package tier

import "answerwire/internal/registry"

// tiers is the production readiness ladder. Order matters twice: tiers gate
// sequentially, and requirement order is the tie-break within one impact
// category.
var tiers = []Tier{
	{
		Name: "T1 Launchable",
		Requirements: []Requirement{
			{
				FieldID:           registry.PathIdentityDisplayName,
				Purpose:           "the assistant must know whose calls it answers",
				FailureMode:       "every greeting and prompt renders an empty business name",
				Impact:            ImpactReliability,
				Priority:          1,
				Critical:          true,
				Kind:              CheckWired,
				RequiresUserInput: true,
			},
			{
				FieldID:           registry.PathGreetingOpening,
				Purpose:           "first utterance of every call",
				FailureMode:       "calls open with dead air",
				Impact:            ImpactReliability,
				Priority:          2,
				Critical:          true,
				Kind:              CheckWired,
				RequiresUserInput: true,
			},
			{
				FieldID:          registry.PathVoiceVoiceID,
				Purpose:          "synthesis cannot start without a voice model",
				FailureMode:      "calls connect but produce no audio",
				Impact:           ImpactReliability,
				Priority:         3,
				Critical:         true,
				Kind:             CheckWired,
				RecommendedValue: "nova-2",
			},
			{
				FieldID:     registry.PathScenariosPool,
				Purpose:     "at least one active content link so answers are grounded",
				FailureMode: "every caller question falls through to generic fallback",
				Impact:      ImpactReliability,
				Priority:    4,
				Critical:    true,
				Kind:        CheckWired,
			},
			{
				FieldID:     registry.PathComplianceAssistantKillSwitch,
				Purpose:     "the assistant-wide kill switch must be disengaged",
				FailureMode: "assistant refuses every call while engaged",
				Impact:      ImpactSafety,
				Priority:    1,
				Critical:    true,
				Kind:        CheckBoolEquals,
				Want:        false,
			},
			{
				FieldID:          registry.PathComplianceRecordingDisclosure,
				Purpose:          "recording disclosure is legally required before any content",
				FailureMode:      "calls proceed without the mandated disclosure",
				Impact:           ImpactSafety,
				Priority:         2,
				Critical:         true,
				Kind:             CheckWired,
				RecommendedValue: "This call may be recorded for quality purposes.",
			},
			{
				FieldID:           registry.PathHoursTimezone,
				Purpose:           "business-hours logic needs a timezone",
				FailureMode:       "after-hours behavior triggers at the wrong times",
				Impact:            ImpactReliability,
				Priority:          5,
				Kind:              CheckWired,
				RequiresUserInput: true,
			},
		},
	},
	{
		Name: "T2 Bookable",
		Requirements: []Requirement{
			{
				FieldID:          registry.PathBookingEnabled,
				Purpose:          "booking must be switched on to convert callers",
				FailureMode:      "callers who want appointments are turned away",
				Impact:           ImpactConversion,
				Priority:         1,
				Kind:             CheckBoolEquals,
				Want:             true,
				RecommendedValue: true,
			},
			{
				FieldID:     registry.PathComplianceBookingKillSwitch,
				Purpose:     "the booking kill switch must be disengaged",
				FailureMode: "booking flows silently suppressed",
				Impact:      ImpactSafety,
				Priority:    1,
				Critical:    true,
				Kind:        CheckBoolEquals,
				Want:        false,
			},
			{
				FieldID:           registry.PathBookingCalendarRef,
				Purpose:           "slot lookup needs a calendar backend",
				FailureMode:       "booking offers slots it cannot hold",
				Impact:            ImpactReliability,
				Priority:          1,
				Kind:              CheckWired,
				RequiresUserInput: true,
			},
			{
				FieldID:           registry.PathBookingTransferNumber,
				Purpose:           "warm-transfer fallback when booking fails",
				FailureMode:       "failed bookings dead-end instead of reaching a human",
				Impact:            ImpactReliability,
				Priority:          2,
				Kind:              CheckWired,
				RequiresUserInput: true,
			},
			{
				FieldID:          registry.PathScenariosFallbackMode,
				Purpose:          "explicit behavior when the pool yields no match",
				FailureMode:      "unmatched questions behave unpredictably",
				Impact:           ImpactReliability,
				Priority:         3,
				Kind:             CheckWired,
				RecommendedValue: "llm",
			},
		},
	},
	{
		Name: "T3 Polished",
		Requirements: []Requirement{
			{
				FieldID:           registry.PathGreetingAfterHours,
				Purpose:           "dedicated after-hours greeting",
				FailureMode:       "after-hours callers hear the daytime greeting",
				Impact:            ImpactConversion,
				Priority:          1,
				Kind:              CheckWired,
				RequiresUserInput: true,
			},
			{
				FieldID:          registry.PathGreetingClosing,
				Purpose:          "calls end with a sign-off instead of a click",
				FailureMode:      "abrupt hangups read as dropped calls",
				Impact:           ImpactConversion,
				Priority:         2,
				Kind:             CheckWired,
				RecommendedValue: "Thanks for calling, have a great day!",
			},
			{
				FieldID:           registry.PathHoursWeekly,
				Purpose:           "precise weekly schedule for open/closed decisions",
				FailureMode:       "assistant cannot answer when are you open",
				Impact:            ImpactReliability,
				Priority:          1,
				Kind:              CheckWired,
				RequiresUserInput: true,
			},
			{
				FieldID:           registry.PathEscalationNumber,
				Purpose:           "human escalation target",
				FailureMode:       "frustrated callers cannot reach a person",
				Impact:            ImpactConversion,
				Priority:          3,
				Kind:              CheckWired,
				RequiresUserInput: true,
			},
			{
				FieldID:          registry.PathVoiceSpeakingRate,
				Purpose:          "tuned speaking rate",
				FailureMode:      "default prosody can feel rushed for some caller bases",
				Impact:           ImpactSpeed,
				Priority:         1,
				Kind:             CheckValidator,
				Validator:        registry.ValidatorSpeakingRate,
				RecommendedValue: 1.0,
			},
		},
	},
}

// Load returns the production tier ladder. Called once at startup.
func Load() []Tier {
	return tiers
}
