package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/health-advisor-server/internal/domain"
)

func healthyMetrics() *domain.HealthMetrics {
	return &domain.HealthMetrics{
		Age:           30,
		BMI:           22.0,
		SystolicBP:    110,
		DiastolicBP:   70,
		Cholesterol:   180,
		Glucose:       90,
		Smoking:       false,
		ExerciseHours: 3.0,
	}
}

func TestScoreMetrics(t *testing.T) {
	// The healthy baseline keeps every metric in its lowest band and earns
	// the -0.05 exercise credit, which clamps to 0.
	tests := []struct {
		name          string
		mutate        func(m *domain.HealthMetrics)
		expectedScore float64
	}{
		{
			name:          "healthy baseline clamps to zero",
			mutate:        func(m *domain.HealthMetrics) {},
			expectedScore: 0.0,
		},
		{
			name: "middle age band",
			mutate: func(m *domain.HealthMetrics) {
				m.Age = 50
			},
			expectedScore: 0.05, // 0.10 age - 0.05 exercise credit
		},
		{
			name: "senior age band",
			mutate: func(m *domain.HealthMetrics) {
				m.Age = 70
			},
			expectedScore: 0.15,
		},
		{
			name: "obese BMI",
			mutate: func(m *domain.HealthMetrics) {
				m.BMI = 32.0
			},
			expectedScore: 0.15,
		},
		{
			name: "underweight BMI",
			mutate: func(m *domain.HealthMetrics) {
				m.BMI = 17.0
			},
			expectedScore: 0.05,
		},
		{
			name: "stage 2 hypertension via diastolic alone",
			mutate: func(m *domain.HealthMetrics) {
				m.DiastolicBP = 95
			},
			expectedScore: 0.15,
		},
		{
			name: "elevated systolic with normal diastolic",
			mutate: func(m *domain.HealthMetrics) {
				m.SystolicBP = 125
			},
			expectedScore: 0.0, // 0.05 elevated - 0.05 credit
		},
		{
			name: "diabetic range glucose",
			mutate: func(m *domain.HealthMetrics) {
				m.Glucose = 130
			},
			expectedScore: 0.15,
		},
		{
			name: "smoking plus sedentary",
			mutate: func(m *domain.HealthMetrics) {
				m.Smoking = true
				m.ExerciseHours = 0
			},
			expectedScore: 0.25, // 0.15 smoking + 0.10 sedentary
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := healthyMetrics()
			tt.mutate(m)
			assert.InDelta(t, tt.expectedScore, ScoreMetrics(m).Score, 1e-9)
		})
	}
}

func TestScoreMetricsWorkedExample(t *testing.T) {
	m := &domain.HealthMetrics{
		Age:           45,
		BMI:           25.5,
		SystolicBP:    120,
		DiastolicBP:   80,
		Cholesterol:   200,
		Glucose:       90,
		Smoking:       false,
		ExerciseHours: 3.5,
	}

	result := ScoreMetrics(m)
	assert.InDelta(t, 0.35, result.Score, 1e-9)
	assert.Equal(t, domain.RISK_MEDIUM, RiskLevelForScore(result.Score))

	boundary := BoundaryMetrics(m)
	assert.Equal(t, 3, boundary)
	assert.InDelta(t, 0.925, MetricConfidence(domain.MetricCount, boundary), 1e-9)
}

func TestScoreMetricsRange(t *testing.T) {
	// Every band at its worst plus lifestyle penalties exceeds 1.0 before
	// clamping; the returned score stays in [0,1].
	worst := &domain.HealthMetrics{
		Age:           80,
		BMI:           40.0,
		SystolicBP:    160,
		DiastolicBP:   100,
		Cholesterol:   280,
		Glucose:       180,
		Smoking:       true,
		ExerciseHours: 0,
	}

	result := ScoreMetrics(worst)
	assert.Equal(t, 1.0, result.Score)
	assert.Equal(t, domain.RISK_HIGH, RiskLevelForScore(result.Score))
	assert.NotEmpty(t, result.Factors)
}

func TestScoreMetricsDeterministic(t *testing.T) {
	m := healthyMetrics()
	m.Age = 55
	m.Smoking = true

	first := ScoreMetrics(m)
	for i := 0; i < 10; i++ {
		again := ScoreMetrics(m)
		assert.Equal(t, first.Score, again.Score)
		assert.Equal(t, first.Factors, again.Factors)
	}
}

func TestScoreMetricsMonotonicity(t *testing.T) {
	base := healthyMetrics()
	baseScore := ScoreMetrics(base).Score

	tests := []struct {
		name   string
		mutate func(m *domain.HealthMetrics)
	}{
		{"older age", func(m *domain.HealthMetrics) { m.Age = 75 }},
		{"higher BMI", func(m *domain.HealthMetrics) { m.BMI = 35 }},
		{"higher blood pressure", func(m *domain.HealthMetrics) { m.SystolicBP = 150 }},
		{"higher cholesterol", func(m *domain.HealthMetrics) { m.Cholesterol = 260 }},
		{"higher glucose", func(m *domain.HealthMetrics) { m.Glucose = 140 }},
		{"smoking", func(m *domain.HealthMetrics) { m.Smoking = true }},
		{"less exercise", func(m *domain.HealthMetrics) { m.ExerciseHours = 0.5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := healthyMetrics()
			tt.mutate(m)
			assert.GreaterOrEqual(t, ScoreMetrics(m).Score, baseScore)
		})
	}
}

func TestRiskLevelForScore(t *testing.T) {
	tests := []struct {
		score    float64
		expected domain.RiskLevel
	}{
		{0.0, domain.RISK_LOW},
		{0.29, domain.RISK_LOW},
		{0.30, domain.RISK_MEDIUM},
		{0.45, domain.RISK_MEDIUM},
		{0.60, domain.RISK_MEDIUM},
		{0.61, domain.RISK_HIGH},
		{1.0, domain.RISK_HIGH},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, RiskLevelForScore(tt.score), "score %.2f", tt.score)
	}
}

func TestBoundaryMetrics(t *testing.T) {
	m := healthyMetrics()
	assert.Equal(t, 0, BoundaryMetrics(m))

	m.Age = 65
	m.BMI = 30.0
	m.Glucose = 126
	m.ExerciseHours = 2.5
	assert.Equal(t, 4, BoundaryMetrics(m))

	// Systolic and diastolic both on a cut point still count blood
	// pressure once.
	m = healthyMetrics()
	m.SystolicBP = 120
	m.DiastolicBP = 80
	assert.Equal(t, 1, BoundaryMetrics(m))
}

func TestBPCategory(t *testing.T) {
	tests := []struct {
		systolic, diastolic int
		expected            bpBand
	}{
		{110, 70, bpNormal},
		{125, 75, bpElevated},
		{125, 80, bpStage1},
		{135, 70, bpStage1},
		{140, 70, bpStage2},
		{118, 95, bpStage2},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, bpCategory(tt.systolic, tt.diastolic),
			"%d/%d", tt.systolic, tt.diastolic)
	}
}
