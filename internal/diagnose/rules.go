package diagnose

import (
	"fmt"
	"sort"
	"strings"

	"answerwire/internal/registry"
	id "answerwire/pkg/domain"
)

type rule struct {
	id        string
	title     string
	severity  Severity
	rootCause string
	rule      string
	fix       string
	match     func(Evidence) bool
	patch     func(Evidence) []FieldPatch
}

// rules is evaluated top to bottom; every match is collected. Order within
// the table is the tie-break for equal severity.
var rules = []rule{
	{
		id:        "assistant-kill-switch-engaged",
		title:     "Assistant kill switch is engaged",
		severity:  SeverityCritical,
		rootCause: registry.PathComplianceAssistantKillSwitch,
		rule:      "kill switch observed true during the run",
		fix:       "disengage the Pause assistant toggle in the Compliance tab",
		match: func(e Evidence) bool {
			return e.KillSwitchEngaged
		},
		patch: func(e Evidence) []FieldPatch {
			return []FieldPatch{{Path: registry.PathComplianceAssistantKillSwitch, Current: true, Recommended: false}}
		},
	},
	{
		id:        "booking-suppressed-by-kill-switch",
		title:     "Booking requested but suppressed by kill switch",
		severity:  SeverityCritical,
		rootCause: registry.PathComplianceBookingKillSwitch,
		rule:      "caller asked for booking, booking kill switch observed true, no booking offered",
		fix:       "disengage the Pause booking toggle in the Compliance tab",
		match: func(e Evidence) bool {
			return e.BookingRequested && !e.BookingOffered && e.BookingKillSwitchEngaged
		},
		patch: func(e Evidence) []FieldPatch {
			return []FieldPatch{{Path: registry.PathComplianceBookingKillSwitch, Current: true, Recommended: false}}
		},
	},
	{
		id:        "config-reader-bypassed",
		title:     "No configuration reads observed",
		severity:  SeverityCritical,
		rootCause: "configreader",
		rule:      "a completed run recorded zero reads through the choke point",
		fix:       "the engine is reading configuration outside the config reader; route all reads through it",
		match: func(e Evidence) bool {
			return e.TotalReads == 0
		},
	},
	{
		id:        "empty-pool-fallback",
		title:     "Every answer fell back to the LLM because the scenario pool is empty",
		severity:  SeverityHigh,
		rootCause: registry.PathScenariosPool,
		rule:      "response source is llm, scenario pool size is zero, no kill switch engaged",
		fix:       "link at least one active shared-content template in the Scenarios tab",
		match: func(e Evidence) bool {
			return strings.EqualFold(e.ResponseSource, "llm") &&
				e.ScenarioCount == 0 &&
				!e.KillSwitchEngaged
		},
	},
	{
		id:        "pool-present-but-missed",
		title:     "Scenario pool exists but most turns missed it",
		severity:  SeverityMedium,
		rootCause: registry.PathScenariosMaxPerTurn,
		rule:      "pool size is nonzero yet more than half the turns fell back",
		fix:       "raise Max scenarios per turn or broaden the linked templates",
		match: func(e Evidence) bool {
			return e.ScenarioCount > 0 && e.FallbackRate > 0.5
		},
		patch: func(e Evidence) []FieldPatch {
			return []FieldPatch{{Path: registry.PathScenariosMaxPerTurn, Recommended: 5}}
		},
	},
	{
		id:        "unregistered-reads",
		title:     "Run read paths missing from the registry",
		severity:  SeverityMedium,
		rootCause: "registry",
		rule:      "one or more reads violated registry membership",
		fix:       "register the paths or remove the reads; see the violation list",
		match: func(e Evidence) bool {
			return len(e.ViolationPaths) > 0
		},
	},
	{
		id:        "legacy-paths-in-use",
		title:     "Run resolved values through legacy bridges",
		severity:  SeverityLow,
		rootCause: "bridges",
		rule:      "one or more reads fell back to a legacy storage location",
		fix:       "migrate the listed values to their canonical locations",
		match: func(e Evidence) bool {
			return len(e.LegacyPaths) > 0
		},
	},
}

// Diagnose matches the evidence against the full rule table and returns
// every hit, sorted by severity, plus the minimal patch description.
func Diagnose(evidence Evidence, tenantID id.TenantID) Result {
	evidence.TenantID = tenantID

	result := Result{Healthy: true, Evidence: evidence}
	for _, r := range rules {
		if !r.match(evidence) {
			continue
		}
		result.Issues = append(result.Issues, Issue{
			ID:        r.id,
			Title:     r.title,
			Severity:  r.severity,
			RootCause: r.rootCause,
			Rule:      r.rule,
			Fix:       r.fix,
		})
		if r.patch != nil {
			result.Patch = append(result.Patch, r.patch(evidence)...)
		}
		if severityRank[r.severity] <= severityRank[SeverityHigh] {
			result.Healthy = false
		}
	}

	sort.SliceStable(result.Issues, func(i, j int) bool {
		return severityRank[result.Issues[i].Severity] < severityRank[result.Issues[j].Severity]
	})
	return result
}

// Describe renders one issue as a single line for logs and plain-text
// reports.
func (i Issue) Describe() string {
	return fmt.Sprintf("[%s] %s (root cause: %s): %s", i.Severity, i.Title, i.RootCause, i.Fix)
}
