package health

// ScoreWeights parameterize the golden readiness score. The split is a
// product tuning choice, so it is data, not a constant baked into the
// engine.
type ScoreWeights struct {
	RequiredWired      float64 `json:"required_wired"`
	NoCriticalIssues   float64 `json:"no_critical_issues"`
	NoMisconfiguration float64 `json:"no_misconfiguration"`
	OptionalCoverage   float64 `json:"optional_coverage"`
}

// DefaultScoreWeights is the shipped 60/20/10/10 split.
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		RequiredWired:      60,
		NoCriticalIssues:   20,
		NoMisconfiguration: 10,
		OptionalCoverage:   10,
	}
}

// optionalCoverageTarget is the wired fraction of optional fields that earns
// the coverage component.
const optionalCoverageTarget = 0.5

// Score computes the golden readiness score in [0, 100] (for the default
// weights). The required component is proportional: each required field
// contributes its share only when wired.
func (ev *Evaluation) Score(w ScoreWeights) float64 {
	var (
		requiredTotal, requiredWired int
		optionalTotal, optionalWired int
		criticalIssues               int
		misconfigured                int
	)
	for _, fh := range ev.Fields {
		required := fh.Required || fh.Critical
		if required {
			requiredTotal++
			if fh.Status == StatusWired {
				requiredWired++
			}
		} else {
			optionalTotal++
			if fh.Status == StatusWired {
				optionalWired++
			}
		}
		switch fh.Status {
		case StatusMisconfigured:
			misconfigured++
			if fh.Critical {
				criticalIssues++
			}
		case StatusTenantRisk:
			criticalIssues++
		}
	}

	var score float64
	if requiredTotal > 0 {
		score += w.RequiredWired * float64(requiredWired) / float64(requiredTotal)
	} else {
		score += w.RequiredWired
	}
	if criticalIssues == 0 {
		score += w.NoCriticalIssues
	}
	if misconfigured == 0 {
		score += w.NoMisconfiguration
	}
	if optionalTotal == 0 || float64(optionalWired)/float64(optionalTotal) >= optionalCoverageTarget {
		score += w.OptionalCoverage
	}
	return score
}
