// Package service orchestrates assessments around the pure rule engine:
// contract validation, result caching, identifiers, timestamps and
// structured logging. The engine itself stays free of side effects.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/health-advisor-server/internal/domain"
	"github.com/health-advisor-server/internal/engine"
)

// ErrInvalidInput marks out-of-contract engine input. The API boundary
// validates ranges before the service is invoked, so hitting this is a
// programming error and is surfaced as a server-side fault, not a client
// error.
var ErrInvalidInput = errors.New("invalid assessment input")

// AssessmentService evaluates validated input records against the rule
// engine and assembles structured results.
type AssessmentService struct {
	logger *logrus.Logger
	cache  *ResultCache
}

// NewAssessmentService creates an assessment service. The cache is optional;
// pass nil to evaluate every request.
func NewAssessmentService(logger *logrus.Logger, cache *ResultCache) *AssessmentService {
	return &AssessmentService{
		logger: logger,
		cache:  cache,
	}
}

// AssessRisk runs the risk scoring variant: bucket each metric against the
// clinical bands, derive the risk level, estimate confidence from input
// completeness, and compose the recommendation list.
func (s *AssessmentService) AssessRisk(ctx context.Context, metrics *domain.HealthMetrics) (*domain.AssessmentResult, error) {
	startTime := time.Now()

	if err := metrics.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var cacheKey string
	if s.cache != nil {
		cacheKey = s.cache.Key(metrics)
		if cached, ok := s.cache.Get(ctx, cacheKey); ok {
			s.logger.WithFields(logrus.Fields{
				"assessment_id": cached.AssessmentID,
				"risk_level":    cached.RiskLevel.String(),
			}).Debug("Risk assessment served from cache")
			return cached, nil
		}
	}

	scored := engine.ScoreMetrics(metrics)
	level := engine.RiskLevelForScore(scored.Score)
	confidence := engine.MetricConfidence(domain.MetricCount, engine.BoundaryMetrics(metrics))
	recommendations := engine.ComposeRiskRecommendations(engine.RiskRecommendationsFor(scored), level)

	result := &domain.AssessmentResult{
		AssessmentID:        uuid.New().String(),
		RiskLevel:           level,
		RiskScore:           scored.Score,
		Recommendations:     recommendations,
		Confidence:          confidence,
		ContributingFactors: scored.Factors,
		Timestamp:           time.Now().UTC(),
	}

	if s.cache != nil {
		s.cache.Set(ctx, cacheKey, result)
	}

	s.logger.WithFields(logrus.Fields{
		"assessment_id":   result.AssessmentID,
		"risk_level":      result.RiskLevel.String(),
		"risk_score":      result.RiskScore,
		"confidence":      result.Confidence,
		"factor_count":    len(result.ContributingFactors),
		"processing_time": time.Since(startTime),
	}).Info("Risk assessment completed")

	return result, nil
}

// AnalyzeSymptoms runs the symptom analysis variant: match the reported
// symptoms against the vocabulary, derive urgency, and compose advice and
// recommendations. Symptom results are not cached; each carries its own
// evaluation timestamp.
func (s *AssessmentService) AnalyzeSymptoms(ctx context.Context, query *domain.SymptomQuery) (*domain.AdviceResult, error) {
	startTime := time.Now()

	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	symptoms := query.CleanSymptoms()
	analysis := engine.AnalyzeSymptoms(symptoms, query.Age, query.Severity)

	result := &domain.AdviceResult{
		Advice:          analysis.Advice,
		Recommendations: engine.ComposeAdviceRecommendations(analysis.Recommendations, analysis.Urgency),
		UrgencyLevel:    analysis.Urgency,
		Confidence:      engine.SymptomConfidence(len(analysis.MatchedSymptoms), analysis.TotalSymptoms),
		MatchedSymptoms: analysis.MatchedSymptoms,
		Disclaimer:      engine.Disclaimer,
		Timestamp:       time.Now().UTC(),
	}

	s.logger.WithFields(logrus.Fields{
		"symptom_count":   len(symptoms),
		"matched_count":   len(result.MatchedSymptoms),
		"urgency_level":   result.UrgencyLevel.String(),
		"confidence":      result.Confidence,
		"processing_time": time.Since(startTime),
	}).Info("Symptom analysis completed")

	return result, nil
}
