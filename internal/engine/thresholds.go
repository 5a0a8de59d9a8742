// Package engine implements the deterministic rule evaluation core: risk
// scoring over health metrics and keyword-based symptom analysis against
// fixed medical-guideline thresholds.
//
// Every function in this package is pure. The tables below are established at
// process start and never mutated, so concurrent evaluations need no locking.
// The package performs no I/O and no logging; callers own both.
package engine

import (
	"github.com/health-advisor-server/internal/domain"
)

// Disclaimer is the fixed medical disclaimer appended to every
// recommendation list. It is never deduplicated away.
const Disclaimer = "This is not a substitute for professional medical advice. Always consult healthcare providers for medical concerns."

// GenericRecommendation is the fallback for symptoms outside the known
// vocabulary. Unknown symptoms are not an error; they degrade to this.
const GenericRecommendation = "Consult a healthcare provider about your symptoms"

// Risk band weights. Policy constants: the bands follow common clinical
// guideline cut points (ACC/AHA blood pressure categories, ADA glucose
// bands, NCEP cholesterol bands, WHO BMI classes) and the weights are fixed
// here so the score-to-level mapping stays reproducible. Changing any of
// these is a policy decision and must come with updated tests.
const (
	weightAgeMiddle  = 0.10 // age 45-64
	weightAgeSenior  = 0.20 // age >= 65
	weightUnderBMI   = 0.10 // BMI < 18.5
	weightOverBMI    = 0.10 // 25 <= BMI < 30
	weightObeseBMI   = 0.20 // BMI >= 30
	weightBPElevated = 0.05 // systolic 120-129 and diastolic < 80
	weightBPStage1   = 0.10 // systolic 130-139 or diastolic 80-89
	weightBPStage2   = 0.20 // systolic >= 140 or diastolic >= 90
	weightCholBorder = 0.10 // cholesterol 200-239
	weightCholHigh   = 0.15 // cholesterol >= 240
	weightGlucosePre = 0.10 // glucose 100-125
	weightGlucoseDia = 0.20 // glucose >= 126
	weightSmoking    = 0.15
	weightSedentary  = 0.10  // exercise below the weekly threshold
	creditExercise   = -0.05 // exercise at or above the weekly threshold
)

// Clinical band cut points shared by the scorer and the confidence
// estimator (a metric landing exactly on a cut point is ambiguous).
const (
	ageMiddleCutoff  = 45
	ageSeniorCutoff  = 65
	bmiUnderCutoff   = 18.5
	bmiOverCutoff    = 25.0
	bmiObeseCutoff   = 30.0
	systolicElevated = 120
	systolicStage1   = 130
	systolicStage2   = 140
	diastolicStage1  = 80
	diastolicStage2  = 90
	cholBorderCutoff = 200
	cholHighCutoff   = 240
	glucosePreCutoff = 100
	glucoseDiaCutoff = 126

	// 150 minutes of moderate activity per week, expressed in hours.
	exerciseWeeklyHours = 2.5
)

// Score-to-level cut points: score < 0.30 is Low, 0.30-0.60 inclusive is
// Medium, above 0.60 is High.
const (
	riskLevelMediumCutoff = 0.30
	riskLevelHighCutoff   = 0.60
)

// symptomEntry describes what a matched vocabulary keyword contributes to
// the result: an advice fragment, recommendation strings, and an urgency
// signal feeding the max aggregation.
type symptomEntry struct {
	Advice          string
	Recommendations []string
	Urgency         domain.UrgencyLevel
}

// Recommendation sets shared across vocabulary tiers, matching the advice
// text of the original guideline tables.
var (
	emergencyRecommendations = []string{
		"Seek immediate emergency medical attention",
		"Call emergency services (911) immediately",
		"Do not delay medical care",
	}
	highRecommendations = []string{
		"Consult a healthcare provider within 24 hours",
		"Monitor symptoms closely",
		"Consider urgent care if symptoms worsen",
	}
	mediumRecommendations = []string{
		"Rest and stay hydrated",
		"Monitor symptoms for 2-3 days",
		"Consider over-the-counter pain relievers if appropriate",
		"Consult healthcare provider if symptoms persist or worsen",
	}
	lowRecommendations = []string{
		"Get adequate rest",
		"Stay hydrated",
		"Consider gentle exercise or stretching",
		"Monitor symptoms",
	}
)

// symptomVocabulary is the fixed keyword table for the symptom analyzer.
// Matching is case-insensitive after trimming; when several keywords are
// substrings of one reported symptom, the longest keyword wins, so "severe
// headache" is never diluted to "headache".
var symptomVocabulary = map[string]symptomEntry{
	// Emergent standalone symptoms
	"difficulty breathing": {
		Advice:          "Breathing difficulty requires immediate evaluation.",
		Recommendations: emergencyRecommendations,
		Urgency:         domain.URGENCY_EMERGENCY,
	},
	"severe bleeding": {
		Advice:          "Apply direct pressure to the wound until help arrives.",
		Recommendations: emergencyRecommendations,
		Urgency:         domain.URGENCY_EMERGENCY,
	},
	"unconscious": {
		Advice:          "Loss of consciousness requires immediate emergency care.",
		Recommendations: emergencyRecommendations,
		Urgency:         domain.URGENCY_EMERGENCY,
	},
	"stroke": {
		Advice:          "Suspected stroke requires immediate emergency care.",
		Recommendations: emergencyRecommendations,
		Urgency:         domain.URGENCY_EMERGENCY,
	},
	"heart attack": {
		Advice:          "Suspected heart attack requires immediate emergency care.",
		Recommendations: emergencyRecommendations,
		Urgency:         domain.URGENCY_EMERGENCY,
	},

	// High urgency symptoms
	"chest pain": {
		Advice:          "Chest pain should be evaluated promptly, especially alongside other symptoms.",
		Recommendations: highRecommendations,
		Urgency:         domain.URGENCY_HIGH,
	},
	"shortness of breath": {
		Advice:          "Shortness of breath warrants prompt medical evaluation.",
		Recommendations: highRecommendations,
		Urgency:         domain.URGENCY_HIGH,
	},
	"high fever": {
		Advice:          "A high fever should be brought down and monitored closely.",
		Recommendations: highRecommendations,
		Urgency:         domain.URGENCY_HIGH,
	},
	"severe headache": {
		Advice:          "A sudden severe headache warrants prompt medical evaluation.",
		Recommendations: highRecommendations,
		Urgency:         domain.URGENCY_HIGH,
	},
	"persistent vomiting": {
		Advice:          "Persistent vomiting risks dehydration and needs medical attention.",
		Recommendations: highRecommendations,
		Urgency:         domain.URGENCY_HIGH,
	},
	"severe pain": {
		Advice:          "Severe pain should not be managed at home without evaluation.",
		Recommendations: highRecommendations,
		Urgency:         domain.URGENCY_HIGH,
	},
	"difficulty swallowing": {
		Advice:          "Difficulty swallowing needs medical assessment.",
		Recommendations: highRecommendations,
		Urgency:         domain.URGENCY_HIGH,
	},

	// Medium urgency symptoms
	"fever": {
		Advice:          "Fever suggests an active infection; rest and fluids help recovery.",
		Recommendations: mediumRecommendations,
		Urgency:         domain.URGENCY_MEDIUM,
	},
	"headache": {
		Advice:          "Rest, hydration and reduced screen time often ease headaches.",
		Recommendations: mediumRecommendations,
		Urgency:         domain.URGENCY_MEDIUM,
	},
	"nausea": {
		Advice:          "Small sips of clear fluids can settle nausea.",
		Recommendations: mediumRecommendations,
		Urgency:         domain.URGENCY_MEDIUM,
	},
	"fatigue": {
		Advice:          "Persistent fatigue benefits from rest and regular sleep.",
		Recommendations: mediumRecommendations,
		Urgency:         domain.URGENCY_MEDIUM,
	},
	"muscle aches": {
		Advice:          "Gentle stretching and rest help with muscle aches.",
		Recommendations: mediumRecommendations,
		Urgency:         domain.URGENCY_MEDIUM,
	},
	"sore throat": {
		Advice:          "Warm fluids and rest soothe a sore throat.",
		Recommendations: mediumRecommendations,
		Urgency:         domain.URGENCY_MEDIUM,
	},
	"cough": {
		Advice:          "Stay hydrated and monitor a cough for changes.",
		Recommendations: mediumRecommendations,
		Urgency:         domain.URGENCY_MEDIUM,
	},
	"vomiting": {
		Advice:          "Replace lost fluids gradually after vomiting.",
		Recommendations: mediumRecommendations,
		Urgency:         domain.URGENCY_MEDIUM,
	},
	"dizziness": {
		Advice:          "Sit or lie down when dizzy and avoid sudden movements.",
		Recommendations: mediumRecommendations,
		Urgency:         domain.URGENCY_MEDIUM,
	},
	"sweating": {
		Advice:          "Unexplained sweating alongside other symptoms is worth noting to a provider.",
		Recommendations: mediumRecommendations,
		Urgency:         domain.URGENCY_MEDIUM,
	},
	"arm pain": {
		Advice:          "Arm pain combined with chest symptoms needs urgent attention.",
		Recommendations: mediumRecommendations,
		Urgency:         domain.URGENCY_MEDIUM,
	},

	// Low urgency symptoms
	"mild headache": {
		Advice:          "A mild headache usually resolves with rest and hydration.",
		Recommendations: lowRecommendations,
		Urgency:         domain.URGENCY_LOW,
	},
	"minor fatigue": {
		Advice:          "Minor fatigue usually improves with adequate sleep.",
		Recommendations: lowRecommendations,
		Urgency:         domain.URGENCY_LOW,
	},
	"slight congestion": {
		Advice:          "Slight congestion typically clears on its own.",
		Recommendations: lowRecommendations,
		Urgency:         domain.URGENCY_LOW,
	},
	"mild muscle soreness": {
		Advice:          "Mild soreness responds well to gentle stretching.",
		Recommendations: lowRecommendations,
		Urgency:         domain.URGENCY_LOW,
	},
	"runny nose": {
		Advice:          "A runny nose typically clears within a few days.",
		Recommendations: lowRecommendations,
		Urgency:         domain.URGENCY_LOW,
	},
}

// emergencyCombinations lists keyword sets that together escalate to
// Emergency even when no single symptom does. Kept as data, separate from
// the aggregation algorithm, so new trigger sets can be added without
// touching the analyzer.
var emergencyCombinations = [][]string{
	{"chest pain", "shortness of breath"},
	{"chest pain", "difficulty breathing"},
	{"chest pain", "nausea"},
	{"chest pain", "sweating"},
	{"chest pain", "arm pain"},
}

// ageEscalationRecommendation is added when age alone escalates urgency.
const ageEscalationRecommendation = "Consider consulting healthcare provider due to age-related risk factors"

// urgencyEscalationAge is the age at or above which urgency is escalated to
// at least Medium.
const urgencyEscalationAge = 65

// riskGuidance is the level-specific general guidance the composer appends
// to risk assessment recommendations.
var riskGuidance = map[domain.RiskLevel]string{
	domain.RISK_LOW:    "Maintain your current healthy lifestyle!",
	domain.RISK_MEDIUM: "Consider lifestyle improvements and discuss your risk factors with a healthcare provider",
	domain.RISK_HIGH:   "Schedule an appointment with a healthcare provider to review your risk factors",
}

// urgencyGuidance is the level-specific general guidance the composer
// appends to symptom advice recommendations.
var urgencyGuidance = map[domain.UrgencyLevel]string{
	domain.URGENCY_LOW:       "Continue monitoring your symptoms",
	domain.URGENCY_MEDIUM:    "Schedule a visit with your healthcare provider if symptoms persist",
	domain.URGENCY_HIGH:      "Seek medical care promptly",
	domain.URGENCY_EMERGENCY: "Call emergency services (911) immediately",
}
