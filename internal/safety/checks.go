package safety

import (
	"fmt"
	"regexp"
	"strings"

	"answerwire/internal/registry"
	"answerwire/internal/resolve"
	"answerwire/internal/tenant/models"
	id "answerwire/pkg/domain"
)

var (
	// sharedRefPattern matches opaque catalog reference ids. Finding one
	// inside tenant prose means shared content leaked out of the catalog.
	sharedRefPattern = regexp.MustCompile(`\btmpl-[a-z0-9][a-z0-9-]*\b`)

	// phoneLiteralPattern matches E.164-looking literals embedded in prose.
	phoneLiteralPattern = regexp.MustCompile(`\+[1-9]\d{6,14}`)
)

// embeddedBodyKeys are map keys that indicate inlined scenario content
// rather than an opaque reference.
var embeddedBodyKeys = []string{"body", "text", "script", "utterances"}

func (a *Auditor) checkNoEmbeddedBodies(_ id.TenantID, record *models.Record) ([]string, []string) {
	scenarios, ok := record.Settings["scenarios"].(map[string]any)
	if !ok {
		return nil, nil
	}

	var details []string
	for key, value := range scenarios {
		list, ok := value.([]any)
		if !ok {
			continue
		}
		for i, item := range list {
			entry, ok := item.(map[string]any)
			if !ok {
				continue
			}
			for _, bodyKey := range embeddedBodyKeys {
				if _, has := entry[bodyKey]; has {
					details = append(details,
						fmt.Sprintf("scenarios.%s[%d] embeds %q content; only opaque refs are permitted", key, i, bodyKey))
					break
				}
			}
		}
	}
	if len(details) == 0 {
		return nil, nil
	}
	return details, []string{registry.PathScenariosPool}
}

func (a *Auditor) checkNoSharedPatterns(_ id.TenantID, record *models.Record) ([]string, []string) {
	var details, refs []string
	for _, path := range freeTextPaths {
		text, ok := a.freeText(record, path)
		if !ok {
			continue
		}
		if match := sharedRefPattern.FindString(text); match != "" {
			details = append(details, fmt.Sprintf("%s contains shared-content reference %q in free text", path, match))
			refs = append(refs, path)
		}
	}
	return details, refs
}

func (a *Auditor) checkCategorySet(_ id.TenantID, record *models.Record) ([]string, []string) {
	if record.Category != "" {
		return nil, nil
	}
	if v, found := resolve.Walk(record.Settings, "identity.category"); found {
		if s, ok := v.(string); ok && s != "" {
			return nil, nil
		}
	}
	return []string{"tenant category is not set; scenario pools cannot be category-scoped"},
		[]string{registry.PathIdentityBusinessCategory}
}

func (a *Auditor) checkPlaceholderAllowlist(_ id.TenantID, record *models.Record) ([]string, []string) {
	var details, refs []string
	for _, path := range freeTextPaths {
		text, ok := a.freeText(record, path)
		if !ok {
			continue
		}
		for _, token := range registry.PlaceholderTokens(text) {
			if !registry.AllowedPlaceholders[token] {
				details = append(details, fmt.Sprintf("%s uses unknown placeholder {{%s}}", path, token))
				refs = append(refs, path)
			}
		}
	}
	return details, refs
}

// checkNoForeignLiterals flags phone-number literals in prose that match
// none of the tenant's own configured numbers. A number the tenant never
// configured is likely another tenant's data pasted in.
func (a *Auditor) checkNoForeignLiterals(_ id.TenantID, record *models.Record) ([]string, []string) {
	own := make(map[string]bool)
	for _, path := range []string{"booking.transfer_number", "escalation.number"} {
		if v, found := resolve.Walk(record.Settings, path); found {
			if s, ok := v.(string); ok {
				own[s] = true
			}
		}
	}

	var details, refs []string
	for _, path := range freeTextPaths {
		text, ok := a.freeText(record, path)
		if !ok {
			continue
		}
		for _, literal := range phoneLiteralPattern.FindAllString(text, -1) {
			if own[literal] {
				continue
			}
			details = append(details, fmt.Sprintf("%s contains unrecognized phone literal %s; use a {{phone}} placeholder", path, literal))
			refs = append(refs, path)
		}
	}
	return details, refs
}

func (a *Auditor) checkReferencesOnly(_ id.TenantID, record *models.Record) ([]string, []string) {
	var details []string
	for i, link := range record.ContentLinks {
		switch {
		case link.RefID == "":
			details = append(details, fmt.Sprintf("content link %d has an empty ref id", i))
		case len(link.RefID) > 64 || strings.ContainsAny(link.RefID, " \t\n{}"):
			details = append(details, fmt.Sprintf("content link %d does not look like an opaque ref: %q", i, link.RefID))
		}
	}
	if len(details) == 0 {
		return nil, nil
	}
	return details, []string{registry.PathScenariosPool}
}
