package engine

import (
	"strings"

	"github.com/health-advisor-server/internal/domain"
)

// ComposeRiskRecommendations assembles the final recommendation list for a
// risk assessment: the core recommendations deduplicated in first-seen
// order, the level-specific general guidance, and the fixed disclaimer as
// the final sentence.
func ComposeRiskRecommendations(core []string, level domain.RiskLevel) []string {
	return compose(core, riskGuidance[level])
}

// ComposeAdviceRecommendations assembles the final recommendation list for a
// symptom analysis, keyed by urgency level.
func ComposeAdviceRecommendations(core []string, level domain.UrgencyLevel) []string {
	return compose(core, urgencyGuidance[level])
}

// RiskRecommendationsFor derives the core recommendations from contributing
// risk factors: each factor that names a modifiable behavior contributes
// targeted advice, so the output explains the score.
func RiskRecommendationsFor(result ScoreResult) []string {
	recommendations := make([]string, 0, len(result.Factors))
	for _, factor := range result.Factors {
		switch {
		case containsAny(factor, "obese", "overweight"):
			recommendations = append(recommendations, "Work toward a healthy weight through diet and regular activity")
		case containsAny(factor, "underweight"):
			recommendations = append(recommendations, "Discuss healthy weight gain strategies with a healthcare provider")
		case containsAny(factor, "hypertension", "elevated"):
			recommendations = append(recommendations, "Monitor your blood pressure regularly and reduce sodium intake")
		case containsAny(factor, "cholesterol"):
			recommendations = append(recommendations, "Adopt a heart-healthy diet low in saturated fats")
		case containsAny(factor, "glucose"):
			recommendations = append(recommendations, "Limit added sugars and have your blood glucose rechecked")
		case containsAny(factor, "smoking"):
			recommendations = append(recommendations, "Quitting smoking is the single most effective risk reduction available")
		case containsAny(factor, "below"):
			recommendations = append(recommendations, "Aim for at least 150 minutes of moderate exercise per week")
		}
	}
	return recommendations
}

// compose deduplicates preserving first occurrence, appends the guidance
// line (subject to deduplication), then appends the disclaimer, which is
// always last and never deduplicated.
func compose(core []string, guidance string) []string {
	seen := make(map[string]bool, len(core)+2)
	out := make([]string, 0, len(core)+2)

	appendUnique := func(s string) {
		if s == "" || seen[s] {
			return
		}
		seen[s] = true
		out = append(out, s)
	}

	for _, rec := range core {
		appendUnique(rec)
	}
	appendUnique(guidance)

	out = append(out, Disclaimer)
	return out
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
