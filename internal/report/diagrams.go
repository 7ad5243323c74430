package report

import (
	"fmt"
	"sort"
	"strings"

	"answerwire/internal/health"
)

// wiringDiagram renders the tenant's field classification as a mermaid
// flowchart, one subgraph per UI tab. Node ids are the canonical paths with
// dots flattened; labels carry the status so the diagram reads standalone.
func wiringDiagram(eval *health.Evaluation) string {
	byTab := make(map[string][]health.FieldHealth)
	for _, fh := range eval.Fields {
		byTab[fh.Tab] = append(byTab[fh.Tab], fh)
	}
	tabs := make([]string, 0, len(byTab))
	for tab := range byTab {
		tabs = append(tabs, tab)
	}
	sort.Strings(tabs)

	var b strings.Builder
	b.WriteString("flowchart LR\n")
	for _, tab := range tabs {
		fmt.Fprintf(&b, "  subgraph %s\n", nodeID(tab))
		for _, fh := range byTab[tab] {
			fmt.Fprintf(&b, "    %s[\"%s<br/>%s\"]\n", nodeID(fh.Path), fh.Path, fh.Status)
		}
		b.WriteString("  end\n")
	}
	for _, fh := range eval.DeadReads {
		fmt.Fprintf(&b, "  %s[\"%s<br/>%s\"]\n", nodeID(fh.Path), fh.Path, fh.Status)
	}
	return b.String()
}

// resolutionDiagram is the fixed rendering of the resolution order every
// read follows.
func resolutionDiagram() string {
	return strings.Join([]string{
		"flowchart LR",
		"  read[Config read] --> canonical{Canonical value?}",
		"  canonical -- yes --> record[tenantRecord]",
		"  canonical -- no --> bridge{Legacy bridge?}",
		"  bridge -- yes --> legacy[legacyBridge + LEGACY_PATH_USED]",
		"  bridge -- no --> def{Default declared?}",
		"  def -- yes --> fallback[globalDefault]",
		"  def -- no --> absent[absent]",
	}, "\n") + "\n"
}

func nodeID(s string) string {
	return strings.NewReplacer(".", "_", " ", "_", "-", "_").Replace(s)
}
