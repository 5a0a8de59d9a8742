// Package domain contains core business entities and types for deterministic
// health risk and symptom assessment derived from fixed medical-guideline
// thresholds.
package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// RiskLevel represents the discrete risk classification derived from the
// normalized risk score. Levels are a pure function of the score: identical
// input always yields identical output.
type RiskLevel string

const (
	RISK_LOW    RiskLevel = "Low"
	RISK_MEDIUM RiskLevel = "Medium"
	RISK_HIGH   RiskLevel = "High"
)

// UrgencyLevel represents how urgently symptoms should be acted on.
// EMERGENCY is reserved for symptom combinations explicitly flagged as
// emergent in the threshold tables.
type UrgencyLevel string

const (
	URGENCY_LOW       UrgencyLevel = "Low"
	URGENCY_MEDIUM    UrgencyLevel = "Medium"
	URGENCY_HIGH      UrgencyLevel = "High"
	URGENCY_EMERGENCY UrgencyLevel = "Emergency"
)

// Severity represents reported symptom severity. The wire format accepts
// either the mild/moderate/severe enum or a numeric 1-10 scale; both
// normalize to this type.
type Severity string

const (
	SEVERITY_UNSPECIFIED Severity = ""
	SEVERITY_MILD        Severity = "mild"
	SEVERITY_MODERATE    Severity = "moderate"
	SEVERITY_SEVERE      Severity = "severe"
)

// Validation errors for assessment data integrity
var (
	ErrInvalidRiskLevel    = errors.New("invalid risk level")
	ErrInvalidUrgencyLevel = errors.New("invalid urgency level")
	ErrInvalidSeverity     = errors.New("invalid severity")
)

// IsValid validates the risk level.
func (r RiskLevel) IsValid() bool {
	switch r {
	case RISK_LOW, RISK_MEDIUM, RISK_HIGH:
		return true
	default:
		return false
	}
}

// String returns the string representation of the risk level.
func (r RiskLevel) String() string {
	return string(r)
}

// IsValid validates the urgency level.
func (u UrgencyLevel) IsValid() bool {
	switch u {
	case URGENCY_LOW, URGENCY_MEDIUM, URGENCY_HIGH, URGENCY_EMERGENCY:
		return true
	default:
		return false
	}
}

// String returns the string representation of the urgency level.
func (u UrgencyLevel) String() string {
	return string(u)
}

// Rank returns the ordinal position of the urgency level, with URGENCY_LOW
// lowest. Used for the order-independent max aggregation policy.
func (u UrgencyLevel) Rank() int {
	switch u {
	case URGENCY_LOW:
		return 0
	case URGENCY_MEDIUM:
		return 1
	case URGENCY_HIGH:
		return 2
	case URGENCY_EMERGENCY:
		return 3
	default:
		return -1
	}
}

// MaxUrgency returns the higher of two urgency levels.
func MaxUrgency(a, b UrgencyLevel) UrgencyLevel {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// RequiresImmediateAction reports whether the urgency level warrants
// emergency care rather than routine follow-up.
func (u UrgencyLevel) RequiresImmediateAction() bool {
	return u == URGENCY_EMERGENCY
}

// IsValid validates the severity. The unspecified value is valid because
// severity is optional input.
func (s Severity) IsValid() bool {
	switch s {
	case SEVERITY_UNSPECIFIED, SEVERITY_MILD, SEVERITY_MODERATE, SEVERITY_SEVERE:
		return true
	default:
		return false
	}
}

// String returns the string representation of the severity.
func (s Severity) String() string {
	return string(s)
}

// SeverityFromScale maps the original 1-10 numeric severity scale onto the
// enum: 1-3 mild, 4-7 moderate, 8-10 severe.
func SeverityFromScale(n int) (Severity, error) {
	switch {
	case n >= 1 && n <= 3:
		return SEVERITY_MILD, nil
	case n >= 4 && n <= 7:
		return SEVERITY_MODERATE, nil
	case n >= 8 && n <= 10:
		return SEVERITY_SEVERE, nil
	default:
		return SEVERITY_UNSPECIFIED, fmt.Errorf("%w: severity scale %d out of range 1-10", ErrInvalidSeverity, n)
	}
}

// UnmarshalJSON accepts both wire forms of severity: the mild/moderate/severe
// enum and the numeric 1-10 scale.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		parsed := Severity(strings.ToLower(strings.TrimSpace(asString)))
		if !parsed.IsValid() {
			return fmt.Errorf("%w: %q", ErrInvalidSeverity, asString)
		}
		*s = parsed
		return nil
	}

	var asNumber int
	if err := json.Unmarshal(data, &asNumber); err == nil {
		parsed, err := SeverityFromScale(asNumber)
		if err != nil {
			return err
		}
		*s = parsed
		return nil
	}

	return fmt.Errorf("%w: expected string or number", ErrInvalidSeverity)
}

// MarshalJSON renders severity in its enum form.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}
