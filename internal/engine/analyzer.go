package engine

import (
	"fmt"
	"strings"

	"github.com/health-advisor-server/internal/domain"
)

// Analysis is the symptom analyzer outcome before composition: the advice
// text, the raw (not yet deduplicated) recommendation sequence, the derived
// urgency and the matched vocabulary keywords.
type Analysis struct {
	Advice          string
	Recommendations []string
	Urgency         domain.UrgencyLevel
	MatchedSymptoms []string
	TotalSymptoms   int
}

// AnalyzeSymptoms matches the reported symptoms against the fixed
// vocabulary, aggregates per-symptom recommendations, and derives the
// urgency level.
//
// The urgency aggregation is order-independent: the matched set is computed
// first, then every escalation rule contributes through a max. Rules, in
// tier order reached:
//
//   - each matched symptom contributes its own urgency signal
//   - fever or age >= 65 escalates to at least Medium
//   - severe severity escalates to at least High
//   - combinations listed in the emergency table escalate to Emergency
//
// Unknown symptoms are not an error; they contribute neutral urgency and the
// generic consult-a-provider recommendation.
func AnalyzeSymptoms(symptoms []string, age int, severity domain.Severity) Analysis {
	matchedKeywords := make([]string, 0, len(symptoms))
	matchedSet := make(map[string]bool, len(symptoms))
	recommendations := make([]string, 0, len(symptoms)*3)
	adviceFragments := make([]string, 0, len(symptoms))
	fragmentSeen := make(map[string]bool, len(symptoms))
	unmatched := 0

	for _, symptom := range symptoms {
		keyword, entry, ok := matchSymptom(symptom)
		if !ok {
			unmatched++
			continue
		}
		if !matchedSet[keyword] {
			matchedSet[keyword] = true
			matchedKeywords = append(matchedKeywords, keyword)
		}
		recommendations = append(recommendations, entry.Recommendations...)
		if !fragmentSeen[entry.Advice] {
			fragmentSeen[entry.Advice] = true
			adviceFragments = append(adviceFragments, entry.Advice)
		}
	}

	urgency := domain.URGENCY_LOW
	for _, keyword := range matchedKeywords {
		urgency = domain.MaxUrgency(urgency, symptomVocabulary[keyword].Urgency)
	}

	baseUrgency := urgency

	if matchedSet["fever"] || matchedSet["high fever"] {
		urgency = domain.MaxUrgency(urgency, domain.URGENCY_MEDIUM)
	}
	if age >= urgencyEscalationAge {
		urgency = domain.MaxUrgency(urgency, domain.URGENCY_MEDIUM)
		if baseUrgency == domain.URGENCY_LOW {
			recommendations = append(recommendations, ageEscalationRecommendation)
		}
	}
	if severity == domain.SEVERITY_SEVERE {
		urgency = domain.MaxUrgency(urgency, domain.URGENCY_HIGH)
	}
	for _, combo := range emergencyCombinations {
		if containsAll(matchedSet, combo) {
			urgency = domain.MaxUrgency(urgency, domain.URGENCY_EMERGENCY)
			break
		}
	}

	if unmatched > 0 {
		recommendations = append(recommendations, GenericRecommendation)
	}

	return Analysis{
		Advice:          buildAdvice(symptoms, age, severity, urgency, adviceFragments),
		Recommendations: recommendations,
		Urgency:         urgency,
		MatchedSymptoms: matchedKeywords,
		TotalSymptoms:   len(symptoms),
	}
}

// matchSymptom resolves a reported symptom to a vocabulary keyword. An exact
// match after normalization wins; otherwise the longest keyword appearing as
// a substring of the symptom is chosen, which keeps "severe headache" from
// matching as plain "headache".
func matchSymptom(symptom string) (string, symptomEntry, bool) {
	normalized := normalizeSymptom(symptom)

	if entry, ok := symptomVocabulary[normalized]; ok {
		return normalized, entry, true
	}

	bestKeyword := ""
	for keyword := range symptomVocabulary {
		if !strings.Contains(normalized, keyword) {
			continue
		}
		if len(keyword) > len(bestKeyword) || (len(keyword) == len(bestKeyword) && keyword < bestKeyword) {
			bestKeyword = keyword
		}
	}
	if bestKeyword == "" {
		return "", symptomEntry{}, false
	}
	return bestKeyword, symptomVocabulary[bestKeyword], true
}

func normalizeSymptom(symptom string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(symptom))), " ")
}

func containsAll(matched map[string]bool, keywords []string) bool {
	for _, keyword := range keywords {
		if !matched[keyword] {
			return false
		}
	}
	return true
}

// buildAdvice assembles the assessment sentence followed by the advice
// fragments contributed by matched symptoms.
func buildAdvice(symptoms []string, age int, severity domain.Severity, urgency domain.UrgencyLevel, fragments []string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Based on the reported symptoms (%s), ", strings.Join(symptoms, ", "))
	if severity != domain.SEVERITY_UNSPECIFIED {
		fmt.Fprintf(&sb, "with %s severity, ", severity)
	}
	if age > 0 {
		fmt.Fprintf(&sb, "for a %d-year-old patient, ", age)
	}
	fmt.Fprintf(&sb, "the urgency level is assessed as %s.", urgency)

	for _, fragment := range fragments {
		sb.WriteString(" ")
		sb.WriteString(fragment)
	}

	return sb.String()
}
