package engine

import (
	"fmt"

	"github.com/health-advisor-server/internal/domain"
)

// ScoreResult holds the outcome of risk scoring: the normalized score in
// [0,1] and the named factors that contributed to it.
type ScoreResult struct {
	Score   float64
	Factors []string
}

// ScoreMetrics buckets each metric against its clinical bands, accumulates
// the band weights plus lifestyle modifiers, and clamps the sum to [0,1].
//
// The function assumes a boundary-validated record; out-of-range input is a
// caller bug, not a user condition, and is rejected upstream. Increasing any
// of age, BMI, blood pressure, cholesterol or glucose never decreases the
// score; increasing exercise hours never increases it.
func ScoreMetrics(m *domain.HealthMetrics) ScoreResult {
	var score float64
	var factors []string

	// Age bands
	switch {
	case m.Age >= ageSeniorCutoff:
		score += weightAgeSenior
		factors = append(factors, fmt.Sprintf("age %d (65 or older)", m.Age))
	case m.Age >= ageMiddleCutoff:
		score += weightAgeMiddle
		factors = append(factors, fmt.Sprintf("age %d (45-64)", m.Age))
	}

	// BMI bands: underweight, normal, overweight, obese
	switch {
	case m.BMI >= bmiObeseCutoff:
		score += weightObeseBMI
		factors = append(factors, fmt.Sprintf("BMI %.1f (obese)", m.BMI))
	case m.BMI >= bmiOverCutoff:
		score += weightOverBMI
		factors = append(factors, fmt.Sprintf("BMI %.1f (overweight)", m.BMI))
	case m.BMI < bmiUnderCutoff:
		score += weightUnderBMI
		factors = append(factors, fmt.Sprintf("BMI %.1f (underweight)", m.BMI))
	}

	// Blood pressure bands, higher of the systolic/diastolic category
	switch bpCategory(m.SystolicBP, m.DiastolicBP) {
	case bpStage2:
		score += weightBPStage2
		factors = append(factors, fmt.Sprintf("blood pressure %d/%d (stage 2 hypertension)", m.SystolicBP, m.DiastolicBP))
	case bpStage1:
		score += weightBPStage1
		factors = append(factors, fmt.Sprintf("blood pressure %d/%d (stage 1 hypertension)", m.SystolicBP, m.DiastolicBP))
	case bpElevated:
		score += weightBPElevated
		factors = append(factors, fmt.Sprintf("blood pressure %d/%d (elevated)", m.SystolicBP, m.DiastolicBP))
	}

	// Cholesterol bands: desirable, borderline, high
	switch {
	case m.Cholesterol >= cholHighCutoff:
		score += weightCholHigh
		factors = append(factors, fmt.Sprintf("cholesterol %d (high)", m.Cholesterol))
	case m.Cholesterol >= cholBorderCutoff:
		score += weightCholBorder
		factors = append(factors, fmt.Sprintf("cholesterol %d (borderline)", m.Cholesterol))
	}

	// Glucose bands: normal, prediabetic, diabetic
	switch {
	case m.Glucose >= glucoseDiaCutoff:
		score += weightGlucoseDia
		factors = append(factors, fmt.Sprintf("glucose %d (diabetic range)", m.Glucose))
	case m.Glucose >= glucosePreCutoff:
		score += weightGlucosePre
		factors = append(factors, fmt.Sprintf("glucose %d (prediabetic range)", m.Glucose))
	}

	// Lifestyle modifiers
	if m.Smoking {
		score += weightSmoking
		factors = append(factors, "smoking")
	}
	if m.ExerciseHours < exerciseWeeklyHours {
		score += weightSedentary
		factors = append(factors, fmt.Sprintf("exercise %.1f h/week (below %.1f h guideline)", m.ExerciseHours, exerciseWeeklyHours))
	} else {
		score += creditExercise
		factors = append(factors, fmt.Sprintf("exercise %.1f h/week (meets guideline)", m.ExerciseHours))
	}

	return ScoreResult{Score: clamp01(score), Factors: factors}
}

// RiskLevelForScore maps a normalized score onto the documented bands:
// score < 0.30 is Low, 0.30-0.60 inclusive is Medium, above 0.60 is High.
func RiskLevelForScore(score float64) domain.RiskLevel {
	switch {
	case score > riskLevelHighCutoff:
		return domain.RISK_HIGH
	case score >= riskLevelMediumCutoff:
		return domain.RISK_MEDIUM
	default:
		return domain.RISK_LOW
	}
}

// BoundaryMetrics counts metrics lying exactly on a band cut point. Values
// on a boundary are ambiguous and reduce assessment confidence.
func BoundaryMetrics(m *domain.HealthMetrics) int {
	count := 0
	if m.Age == ageMiddleCutoff || m.Age == ageSeniorCutoff {
		count++
	}
	if m.BMI == bmiUnderCutoff || m.BMI == bmiOverCutoff || m.BMI == bmiObeseCutoff {
		count++
	}
	if m.SystolicBP == systolicElevated || m.SystolicBP == systolicStage1 || m.SystolicBP == systolicStage2 ||
		m.DiastolicBP == diastolicStage1 || m.DiastolicBP == diastolicStage2 {
		count++
	}
	if m.Cholesterol == cholBorderCutoff || m.Cholesterol == cholHighCutoff {
		count++
	}
	if m.Glucose == glucosePreCutoff || m.Glucose == glucoseDiaCutoff {
		count++
	}
	if m.ExerciseHours == exerciseWeeklyHours {
		count++
	}
	return count
}

// Blood pressure categories per the ACC/AHA bands.
type bpBand int

const (
	bpNormal bpBand = iota
	bpElevated
	bpStage1
	bpStage2
)

func bpCategory(systolic, diastolic int) bpBand {
	switch {
	case systolic >= systolicStage2 || diastolic >= diastolicStage2:
		return bpStage2
	case systolic >= systolicStage1 || diastolic >= diastolicStage1:
		return bpStage1
	case systolic >= systolicElevated:
		return bpElevated
	default:
		return bpNormal
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
