package engine

// Confidence weights. Confidence reflects input completeness only, never
// historical data: it rises with each recognized metric supplied and drops
// slightly for each metric sitting exactly on a band boundary.
const (
	confidenceBase        = 0.5
	confidencePerMetric   = 0.0625
	boundaryPenalty       = 0.025
	symptomConfidenceBase = 0.4
	symptomMatchShare     = 0.6
)

// MetricConfidence derives the confidence of a risk assessment from how many
// recognized metrics were supplied and how many lie exactly on a band cut
// point. A complete record with no ambiguous values yields 1.0.
func MetricConfidence(present, boundary int) float64 {
	return clamp01(confidenceBase + confidencePerMetric*float64(present) - boundaryPenalty*float64(boundary))
}

// SymptomConfidence derives the confidence of a symptom analysis from the
// share of reported symptoms found in the vocabulary. All-recognized input
// yields 1.0; fully unrecognized input keeps the floor.
func SymptomConfidence(matched, total int) float64 {
	if total <= 0 {
		return 0
	}
	return clamp01(symptomConfidenceBase + symptomMatchShare*float64(matched)/float64(total))
}
