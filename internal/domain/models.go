package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// HealthMetrics is the validated input record for the risk scoring variant.
// Immutable once constructed; range validation happens at the API boundary,
// never inside the engine.
type HealthMetrics struct {
	Age           int     `json:"age" binding:"required,min=1,max=120"`
	BMI           float64 `json:"bmi" binding:"required,min=10,max=50"`
	SystolicBP    int     `json:"systolic_bp" binding:"required,min=70,max=250"`
	DiastolicBP   int     `json:"diastolic_bp" binding:"required,min=40,max=150"`
	Cholesterol   int     `json:"cholesterol" binding:"required,min=100,max=400"`
	Glucose       int     `json:"glucose" binding:"required,min=50,max=300"`
	Smoking       bool    `json:"smoking"`
	ExerciseHours float64 `json:"exercise_hours" binding:"min=0,max=20"`
}

// MetricCount is the number of distinct metrics a full HealthMetrics record
// supplies. Used by the confidence estimator.
const MetricCount = 8

// Validate ensures the metrics satisfy the engine contract. Out-of-range or
// non-finite values reaching the engine indicate a boundary validation bug,
// so callers should treat a failure here as a server-side fault.
func (m *HealthMetrics) Validate() error {
	if m.Age < 1 || m.Age > 120 {
		return fmt.Errorf("health metrics validation: age %d out of range 1-120", m.Age)
	}
	if math.IsNaN(m.BMI) || math.IsInf(m.BMI, 0) || m.BMI < 10 || m.BMI > 50 {
		return fmt.Errorf("health metrics validation: bmi %v out of range 10-50", m.BMI)
	}
	if m.SystolicBP < 70 || m.SystolicBP > 250 {
		return fmt.Errorf("health metrics validation: systolic_bp %d out of range 70-250", m.SystolicBP)
	}
	if m.DiastolicBP < 40 || m.DiastolicBP > 150 {
		return fmt.Errorf("health metrics validation: diastolic_bp %d out of range 40-150", m.DiastolicBP)
	}
	if m.Cholesterol < 100 || m.Cholesterol > 400 {
		return fmt.Errorf("health metrics validation: cholesterol %d out of range 100-400", m.Cholesterol)
	}
	if m.Glucose < 50 || m.Glucose > 300 {
		return fmt.Errorf("health metrics validation: glucose %d out of range 50-300", m.Glucose)
	}
	if math.IsNaN(m.ExerciseHours) || math.IsInf(m.ExerciseHours, 0) || m.ExerciseHours < 0 || m.ExerciseHours > 20 {
		return fmt.Errorf("health metrics validation: exercise_hours %v out of range 0-20", m.ExerciseHours)
	}
	return nil
}

// SymptomQuery is the validated input record for the symptom analysis
// variant. Age and severity are optional; symptoms must contain at least one
// non-blank entry.
type SymptomQuery struct {
	Symptoms []string `json:"symptoms" binding:"required,min=1"`
	Age      int      `json:"age,omitempty" binding:"omitempty,min=0,max=120"`
	Severity Severity `json:"severity,omitempty"`
}

// Validate ensures the query satisfies the engine contract.
func (q *SymptomQuery) Validate() error {
	if len(q.CleanSymptoms()) == 0 {
		return errors.New("symptom query validation: at least one non-empty symptom is required")
	}
	if q.Age < 0 || q.Age > 120 {
		return fmt.Errorf("symptom query validation: age %d out of range 0-120", q.Age)
	}
	if !q.Severity.IsValid() {
		return fmt.Errorf("symptom query validation: %w", ErrInvalidSeverity)
	}
	return nil
}

// CleanSymptoms returns the symptom list with blank entries dropped and
// surrounding whitespace trimmed, preserving order.
func (q *SymptomQuery) CleanSymptoms() []string {
	cleaned := make([]string, 0, len(q.Symptoms))
	for _, s := range q.Symptoms {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return cleaned
}

// AssessmentResult is the structured outcome of the risk scoring variant.
// risk_score and confidence always lie in [0,1]; risk_level is consistent
// with the documented score bands.
type AssessmentResult struct {
	AssessmentID        string    `json:"assessment_id"`
	RiskLevel           RiskLevel `json:"risk_level"`
	RiskScore           float64   `json:"risk_score"`
	Recommendations     []string  `json:"recommendations"`
	Confidence          float64   `json:"confidence"`
	ContributingFactors []string  `json:"contributing_factors"`
	Timestamp           time.Time `json:"timestamp"`
}

// AdviceResult is the structured outcome of the symptom analysis variant.
type AdviceResult struct {
	Advice          string       `json:"advice"`
	Recommendations []string     `json:"recommendations"`
	UrgencyLevel    UrgencyLevel `json:"urgency_level"`
	Confidence      float64      `json:"confidence"`
	MatchedSymptoms []string     `json:"matched_symptoms"`
	Disclaimer      string       `json:"disclaimer"`
	Timestamp       time.Time    `json:"timestamp"`
}
