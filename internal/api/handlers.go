package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/health-advisor-server/internal/domain"
	"github.com/health-advisor-server/internal/service"
)

// handleRoot reports service information and the endpoint index.
func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to the Health Advisor API",
		"version": Version,
		"endpoints": gin.H{
			"risk_assessment":  "/api/v1/assess-risk",
			"symptom_analysis": "/api/v1/health-advice",
			"health_check":     "/health",
		},
	})
}

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"version":   Version,
	})
}

// handleAssessRisk deserializes and range-validates a HealthMetrics record,
// then runs the risk scoring variant. Invalid payloads never reach the
// engine; engine contract violations are server-side faults.
func (s *Server) handleAssessRisk(c *gin.Context) {
	var metrics domain.HealthMetrics
	if err := c.ShouldBindJSON(&metrics); err != nil {
		c.JSON(http.StatusBadRequest, domain.NewAPIError(
			domain.ErrValidation,
			"Invalid health metrics",
			bindErrorDetails(err),
			c.GetString("correlation_id"),
		))
		return
	}

	result, err := s.assessment.AssessRisk(c.Request.Context(), &metrics)
	if err != nil {
		s.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// handleHealthAdvice deserializes and validates a SymptomQuery, then runs
// the symptom analysis variant. A symptom list that is empty after trimming
// blanks is a client error, matching the boundary contract.
func (s *Server) handleHealthAdvice(c *gin.Context) {
	var query domain.SymptomQuery
	if err := c.ShouldBindJSON(&query); err != nil {
		c.JSON(http.StatusBadRequest, domain.NewAPIError(
			domain.ErrValidation,
			"Invalid symptom query",
			bindErrorDetails(err),
			c.GetString("correlation_id"),
		))
		return
	}

	if len(query.CleanSymptoms()) == 0 {
		c.JSON(http.StatusBadRequest, domain.NewAPIError(
			domain.ErrValidation,
			"Please provide valid, non-empty symptoms",
			"",
			c.GetString("correlation_id"),
		))
		return
	}

	result, err := s.assessment.AnalyzeSymptoms(c.Request.Context(), &query)
	if err != nil {
		s.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// respondServiceError maps service failures to responses. Out-of-contract
// engine input means the boundary validator let something through, which is
// a bug, so it surfaces as 500 rather than being coerced to a client error.
func (s *Server) respondServiceError(c *gin.Context, err error) {
	correlationID := c.GetString("correlation_id")

	if errors.Is(err, service.ErrInvalidInput) {
		s.logger.WithError(err).WithField("correlation_id", correlationID).
			Error("Engine received out-of-contract input past the boundary validator")
		c.JSON(http.StatusInternalServerError, domain.NewAPIError(
			domain.ErrInvalidInput,
			"Assessment input violated the engine contract",
			"",
			correlationID,
		))
		return
	}

	s.logger.WithError(err).WithField("correlation_id", correlationID).Error("Assessment failed")
	c.JSON(http.StatusInternalServerError, domain.NewAPIError(
		domain.ErrAssessment,
		"An error occurred during analysis",
		"",
		correlationID,
	))
}

// bindErrorDetails renders a binding failure as field-level validation
// errors when the validator produced them, falling back to the raw error
// text for malformed JSON.
func bindErrorDetails(err error) string {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err.Error()
	}

	details := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		ve := domain.NewValidationError(
			fe.Field(),
			fmt.Sprintf("failed on the %q rule", fe.Tag()),
			fe.Value(),
		)
		details = append(details, ve.Error())
	}
	return strings.Join(details, "; ")
}
