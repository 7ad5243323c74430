// Package tier evaluates a tenant against three ordered readiness tiers and
// produces the prioritized remediation queue.
package tier

import (
	"sort"

	"answerwire/internal/health"
	"answerwire/internal/registry"
	"answerwire/internal/resolve"
	"answerwire/internal/tenant/models"
)

// Impact categorizes what an unmet requirement costs. Remediation ordering
// uses the fixed priority reliability > safety > conversion > speed.
type Impact string

const (
	ImpactReliability Impact = "reliability"
	ImpactSafety      Impact = "safety"
	ImpactConversion  Impact = "conversion"
	ImpactSpeed       Impact = "speed"
)

var impactRank = map[Impact]int{
	ImpactReliability: 0,
	ImpactSafety:      1,
	ImpactConversion:  2,
	ImpactSpeed:       3,
}

// CheckKind selects how a requirement's truth is evaluated.
type CheckKind string

const (
	// CheckWired is the default: the field's health status must be WIRED.
	CheckWired CheckKind = "wired"

	// CheckBoolEquals demands the resolved value equal Want exactly. Used
	// for kill switches, which must be present AND disengaged.
	CheckBoolEquals CheckKind = "boolEquals"

	// CheckValidator applies a named validator to the resolved value.
	CheckValidator CheckKind = "validator"
)

// Requirement is one gate condition inside a tier.
type Requirement struct {
	FieldID     string    `json:"field_id"`
	Purpose     string    `json:"purpose"`
	FailureMode string    `json:"failure_mode"`
	Impact      Impact    `json:"impact"`
	Priority    int       `json:"priority"`
	Critical    bool      `json:"critical,omitempty"`
	Kind        CheckKind `json:"kind"`

	// Want is the demanded value for CheckBoolEquals.
	Want bool `json:"want,omitempty"`

	// Validator names the predicate for CheckValidator.
	Validator registry.ValidatorID `json:"validator,omitempty"`

	// RecommendedValue, when set and RequiresUserInput is false, can be
	// applied as-is by an operator accepting the remediation.
	RecommendedValue any `json:"recommended_value,omitempty"`

	// RequiresUserInput marks business-specific data (phone numbers,
	// tenant phrasing) that no recommendation can invent.
	RequiresUserInput bool `json:"requires_user_input,omitempty"`
}

// Tier is one ordered readiness level.
type Tier struct {
	Name         string        `json:"name"`
	Requirements []Requirement `json:"requirements"`
}

// UnmetRequirement is one failed gate condition in a tier report.
type UnmetRequirement struct {
	Requirement
	Reason string `json:"reason"`
}

// TierStatus is one tier's evaluation.
type TierStatus struct {
	Name            string             `json:"name"`
	Unlocked        bool               `json:"unlocked"`
	Complete        bool               `json:"complete"`
	PercentComplete float64            `json:"percent_complete"`
	Unmet           []UnmetRequirement `json:"unmet,omitempty"`
}

// RemediationItem is one entry of the cross-tier remediation queue.
type RemediationItem struct {
	Tier              string `json:"tier"`
	FieldID           string `json:"field_id"`
	Purpose           string `json:"purpose"`
	FailureMode       string `json:"failure_mode"`
	Impact            Impact `json:"impact"`
	Priority          int    `json:"priority"`
	Critical          bool   `json:"critical,omitempty"`
	RecommendedValue  any    `json:"recommended_value,omitempty"`
	AutoAppliable     bool   `json:"auto_appliable"`
	RequiresUserInput bool   `json:"requires_user_input,omitempty"`
}

// Evaluation is the full tier-gate result.
type Evaluation struct {
	Tiers       []TierStatus      `json:"tiers"`
	Remediation []RemediationItem `json:"remediation,omitempty"`
}

// Gate evaluates tenants against a fixed tier ladder. Safe for concurrent
// use; the ladder is load-time-immutable.
type Gate struct {
	tiers    []Tier
	resolver *resolve.Resolver
}

func NewGate(tiers []Tier, resolver *resolve.Resolver) *Gate {
	return &Gate{tiers: tiers, resolver: resolver}
}

// Evaluate walks the ladder in order. A tier unlocks only when every prior
// tier is complete; locked tiers are still reported but contribute nothing
// to the remediation queue.
func (g *Gate) Evaluate(eval *health.Evaluation, record *models.Record) Evaluation {
	out := Evaluation{}
	priorComplete := true

	for _, tier := range g.tiers {
		status := TierStatus{Name: tier.Name, Unlocked: priorComplete}

		met := 0
		for _, req := range tier.Requirements {
			ok, reason := g.satisfied(req, eval, record)
			if ok {
				met++
				continue
			}
			status.Unmet = append(status.Unmet, UnmetRequirement{Requirement: req, Reason: reason})
		}
		if n := len(tier.Requirements); n > 0 {
			status.PercentComplete = 100 * float64(met) / float64(n)
		} else {
			status.PercentComplete = 100
		}
		status.Complete = len(status.Unmet) == 0

		if status.Unlocked && !status.Complete {
			for _, unmet := range status.Unmet {
				out.Remediation = append(out.Remediation, RemediationItem{
					Tier:              tier.Name,
					FieldID:           unmet.FieldID,
					Purpose:           unmet.Purpose,
					FailureMode:       unmet.FailureMode,
					Impact:            unmet.Impact,
					Priority:          unmet.Priority,
					Critical:          unmet.Critical,
					RecommendedValue:  unmet.RecommendedValue,
					AutoAppliable:     unmet.RecommendedValue != nil && !unmet.RequiresUserInput,
					RequiresUserInput: unmet.RequiresUserInput,
				})
			}
		}

		out.Tiers = append(out.Tiers, status)
		priorComplete = priorComplete && status.Complete
	}

	// Queue order: tier first, then fixed impact priority, then the
	// requirement's declared priority.
	tierIndex := make(map[string]int, len(g.tiers))
	for i, t := range g.tiers {
		tierIndex[t.Name] = i
	}
	sort.SliceStable(out.Remediation, func(i, j int) bool {
		a, b := out.Remediation[i], out.Remediation[j]
		if tierIndex[a.Tier] != tierIndex[b.Tier] {
			return tierIndex[a.Tier] < tierIndex[b.Tier]
		}
		if impactRank[a.Impact] != impactRank[b.Impact] {
			return impactRank[a.Impact] < impactRank[b.Impact]
		}
		return a.Priority < b.Priority
	})
	return out
}

func (g *Gate) satisfied(req Requirement, eval *health.Evaluation, record *models.Record) (bool, string) {
	switch req.Kind {
	case CheckBoolEquals:
		res, err := g.resolver.Resolve(record, req.FieldID)
		if err != nil {
			return false, "resolution failed: " + err.Error()
		}
		got, ok := res.Value.(bool)
		if !ok || !res.Present() {
			return false, "no boolean value resolved"
		}
		if got != req.Want {
			if req.Want {
				return false, "must be enabled"
			}
			return false, "must be disengaged"
		}
		return true, ""

	case CheckValidator:
		res, err := g.resolver.Resolve(record, req.FieldID)
		if err != nil {
			return false, "resolution failed: " + err.Error()
		}
		validator, ok := registry.Lookup(req.Validator)
		if !ok {
			return false, "unknown validator"
		}
		if !validator.Check(res.Value) {
			return false, validator.Message
		}
		return true, ""

	default:
		fh, ok := eval.Field(req.FieldID)
		if !ok {
			return false, "field not in registry"
		}
		if fh.Status != health.StatusWired {
			return false, "field status is " + string(fh.Status)
		}
		return true, ""
	}
}
