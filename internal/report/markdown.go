package report

import (
	"fmt"
	"strings"

	"answerwire/internal/health"
)

// statusOrder fixes the scoreboard rendering order.
var statusOrder = []health.Status{
	health.StatusWired,
	health.StatusPartial,
	health.StatusMisconfigured,
	health.StatusNotConfigured,
	health.StatusUIOnly,
	health.StatusDeadRead,
	health.StatusTenantRisk,
}

// Markdown renders the report as a plain-text summary an operator can paste
// into a ticket. JSON stays the canonical encoding; this is the human view.
func Markdown(r *Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Wiring Report: %s\n\n", r.Meta.TenantName)
	fmt.Fprintf(&b, "- Tenant: `%s`\n", r.Meta.TenantID)
	if r.Meta.Category != "" {
		fmt.Fprintf(&b, "- Category: %s\n", r.Meta.Category)
	}
	if r.Meta.Environment != "" {
		fmt.Fprintf(&b, "- Environment: %s\n", r.Meta.Environment)
	}
	fmt.Fprintf(&b, "- Registry version: %s\n", r.Meta.RegistryVersion)
	fmt.Fprintf(&b, "- Generated: %s (%s)\n\n", r.Meta.GeneratedAt.UTC().Format("2006-01-02 15:04:05 UTC"), r.Meta.Duration)

	fmt.Fprintf(&b, "## Scoreboard\n\n")
	fmt.Fprintf(&b, "**%s** | golden score %.1f | safety %s\n\n",
		r.Scoreboard.Aggregate, r.Scoreboard.GoldenScore, r.Scoreboard.SafetyVerdict)
	writeCounts(&b, r)

	if len(r.Scoreboard.CriticalIssues) > 0 {
		fmt.Fprintf(&b, "### Critical issues\n\n")
		for _, fh := range r.Scoreboard.CriticalIssues {
			fmt.Fprintf(&b, "- `%s` is %s", fh.Path, fh.Status)
			if fh.Finding != nil {
				fmt.Fprintf(&b, ": %s. Fix: %s", fh.Finding.Reason, fh.Finding.Fix)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if r.Seed.Updated {
		fmt.Fprintf(&b, "## Seeded defaults\n\n")
		for _, path := range r.Seed.AppliedPaths {
			fmt.Fprintf(&b, "- `%s`\n", path)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## Tier ladder\n\n")
	for _, t := range r.Tiers.Tiers {
		marker := " "
		if t.Complete {
			marker = "x"
		}
		lock := ""
		if !t.Unlocked {
			lock = " (locked)"
		}
		fmt.Fprintf(&b, "- [%s] %s: %.0f%%%s\n", marker, t.Name, t.PercentComplete, lock)
	}
	b.WriteString("\n")

	if len(r.Tiers.Remediation) > 0 {
		fmt.Fprintf(&b, "## Remediation queue\n\n")
		for i, item := range r.Tiers.Remediation {
			fmt.Fprintf(&b, "%d. `%s` (%s, %s): %s", i+1, item.FieldID, item.Tier, item.Impact, item.Purpose)
			if item.AutoAppliable {
				fmt.Fprintf(&b, " [auto: %v]", item.RecommendedValue)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## Field health\n\n")
	fmt.Fprintf(&b, "| Path | Status | Source |\n|---|---|---|\n")
	for _, fh := range r.Fields {
		fmt.Fprintf(&b, "| `%s` | %s | %s |\n", fh.Path, fh.Status, fh.Source)
	}
	for _, fh := range r.DeadReads {
		fmt.Fprintf(&b, "| `%s` | %s | |\n", fh.Path, fh.Status)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## Tenant safety\n\n")
	fmt.Fprintf(&b, "Verdict: **%s**\n\n", r.SafetyProof.Verdict)
	for _, c := range r.SafetyProof.Checks {
		state := "pass"
		if !c.Passed {
			state = "FAIL"
		}
		fmt.Fprintf(&b, "- %s (%s): %s\n", c.Name, c.Severity, state)
		for _, d := range c.Details {
			fmt.Fprintf(&b, "  - %s\n", d)
		}
	}
	b.WriteString("\n")

	writeDiff(&b, r)

	fmt.Fprintf(&b, "## Diagrams\n\n")
	fmt.Fprintf(&b, "```mermaid\n%s```\n\n", r.Diagrams.Wiring)
	fmt.Fprintf(&b, "```mermaid\n%s```\n", r.Diagrams.Resolution)

	return b.String()
}

func writeCounts(b *strings.Builder, r *Report) {
	if len(r.Scoreboard.CountByStatus) == 0 {
		return
	}
	var parts []string
	for _, status := range statusOrder {
		if n, ok := r.Scoreboard.CountByStatus[status]; ok && n > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", status, n))
		}
	}
	fmt.Fprintf(b, "%s\n\n", strings.Join(parts, " | "))
}

func writeDiff(b *strings.Builder, r *Report) {
	diff := r.Diff
	if len(diff.RuntimeReadsNotInRegistry)+len(diff.RegistryPathsNotConsumed)+
		len(diff.PersistedButUnread)+len(diff.ConsumedButAbsent) == 0 {
		return
	}
	fmt.Fprintf(b, "## Configuration diff\n\n")
	writeDiffSection(b, "Runtime reads not in registry", diff.RuntimeReadsNotInRegistry)
	writeDiffSection(b, "Registry paths not consumed", diff.RegistryPathsNotConsumed)
	writeDiffSection(b, "Persisted but unread", diff.PersistedButUnread)
	writeDiffSection(b, "Consumed but absent", diff.ConsumedButAbsent)
}

func writeDiffSection(b *strings.Builder, title string, paths []string) {
	if len(paths) == 0 {
		return
	}
	fmt.Fprintf(b, "### %s\n\n", title)
	for _, p := range paths {
		fmt.Fprintf(b, "- `%s`\n", p)
	}
	b.WriteString("\n")
}
