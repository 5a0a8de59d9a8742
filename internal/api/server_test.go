package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/health-advisor-server/internal/domain"
	"github.com/health-advisor-server/internal/service"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cfg := &domain.Config{
		Server: domain.ServerConfig{Host: "127.0.0.1", Port: 8080},
		RateLimit: domain.RateLimitConfig{
			Enabled:           true,
			RequestsPerSecond: 1000,
			Burst:             1000,
		},
		Logging: domain.LoggingConfig{Level: "error", Format: "json"},
	}

	assessment := service.NewAssessmentService(logger, nil)
	return NewServer(cfg, logger, assessment)
}

func doJSON(t *testing.T, server *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	server.Router().ServeHTTP(w, req)
	return w
}

func TestRootEndpoint(t *testing.T) {
	server := newTestServer(t)

	w := doJSON(t, server, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, Version, body["version"])
	assert.Contains(t, body, "endpoints")
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(t)

	w := doJSON(t, server, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestAssessRiskEndpoint(t *testing.T) {
	server := newTestServer(t)

	w := doJSON(t, server, http.MethodPost, "/api/v1/assess-risk", map[string]interface{}{
		"age":            45,
		"bmi":            25.5,
		"systolic_bp":    120,
		"diastolic_bp":   80,
		"cholesterol":    200,
		"glucose":        90,
		"smoking":        false,
		"exercise_hours": 3.5,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var result domain.AssessmentResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))

	assert.NotEmpty(t, result.AssessmentID)
	assert.Equal(t, domain.RISK_MEDIUM, result.RiskLevel)
	assert.InDelta(t, 0.35, result.RiskScore, 1e-9)
	assert.GreaterOrEqual(t, result.Confidence, 0.8)
	assert.NotEmpty(t, result.Recommendations)
}

func TestAssessRiskEndpointValidation(t *testing.T) {
	server := newTestServer(t)

	tests := []struct {
		name    string
		payload interface{}
	}{
		{"empty body", map[string]interface{}{}},
		{"age out of range", map[string]interface{}{
			"age": 500, "bmi": 25.0, "systolic_bp": 120, "diastolic_bp": 80,
			"cholesterol": 200, "glucose": 90, "exercise_hours": 2.0,
		}},
		{"missing metrics", map[string]interface{}{"age": 45}},
		{"wrong types", map[string]interface{}{
			"age": "forty-five", "bmi": 25.0, "systolic_bp": 120, "diastolic_bp": 80,
			"cholesterol": 200, "glucose": 90,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, server, http.MethodPost, "/api/v1/assess-risk", tt.payload)
			require.Equal(t, http.StatusBadRequest, w.Code)

			var apiErr domain.APIError
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
			assert.Equal(t, domain.ErrValidation, apiErr.Code)
			assert.NotEmpty(t, apiErr.Details)
			assert.NotEmpty(t, apiErr.RequestID)
		})
	}
}

func TestAssessRiskEndpointFieldDetails(t *testing.T) {
	server := newTestServer(t)

	// A range violation caught by the binding validator names the field.
	w := doJSON(t, server, http.MethodPost, "/api/v1/assess-risk", map[string]interface{}{
		"age": 500, "bmi": 25.0, "systolic_bp": 120, "diastolic_bp": 80,
		"cholesterol": 200, "glucose": 90, "exercise_hours": 2.0,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var apiErr domain.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	assert.Contains(t, apiErr.Details, "validation error for field 'Age'")
	assert.Contains(t, apiErr.Details, `"max"`)
}

func TestHealthAdviceEndpoint(t *testing.T) {
	server := newTestServer(t)

	w := doJSON(t, server, http.MethodPost, "/api/v1/health-advice", map[string]interface{}{
		"symptoms": []string{"fever", "cough"},
		"age":      30,
		"severity": "mild",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var result domain.AdviceResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))

	assert.Equal(t, domain.URGENCY_MEDIUM, result.UrgencyLevel)
	assert.ElementsMatch(t, []string{"fever", "cough"}, result.MatchedSymptoms)
	assert.NotEmpty(t, result.Advice)
	assert.NotEmpty(t, result.Disclaimer)
}

func TestHealthAdviceEndpointNumericSeverity(t *testing.T) {
	server := newTestServer(t)

	w := doJSON(t, server, http.MethodPost, "/api/v1/health-advice", map[string]interface{}{
		"symptoms": []string{"runny nose"},
		"age":      30,
		"severity": 9,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var result domain.AdviceResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))

	// Numeric severity 9 normalizes to severe, escalating urgency to High.
	assert.Equal(t, domain.URGENCY_HIGH, result.UrgencyLevel)
}

func TestHealthAdviceEndpointValidation(t *testing.T) {
	server := newTestServer(t)

	tests := []struct {
		name    string
		payload interface{}
	}{
		{"missing symptoms", map[string]interface{}{"age": 30}},
		{"empty symptom list", map[string]interface{}{"symptoms": []string{}}},
		{"blank symptoms", map[string]interface{}{"symptoms": []string{"", "   "}}},
		{"bad severity", map[string]interface{}{"symptoms": []string{"fever"}, "severity": "extreme"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, server, http.MethodPost, "/api/v1/health-advice", tt.payload)
			require.Equal(t, http.StatusBadRequest, w.Code)

			var apiErr domain.APIError
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
			assert.Equal(t, domain.ErrValidation, apiErr.Code)
		})
	}
}

func TestRespondServiceError(t *testing.T) {
	server := newTestServer(t)
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name         string
		err          error
		expectedCode string
	}{
		{"contract violation", fmt.Errorf("%w: bad metrics", service.ErrInvalidInput), domain.ErrInvalidInput},
		{"generic failure", errors.New("boom"), domain.ErrAssessment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			server.respondServiceError(c, tt.err)

			require.Equal(t, http.StatusInternalServerError, w.Code)
			var apiErr domain.APIError
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
			assert.Equal(t, tt.expectedCode, apiErr.Code)
		})
	}
}

func TestPanicRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	router := gin.New()
	router.Use(gin.CustomRecovery(recoveryHandler(logger)))
	router.GET("/boom", func(c *gin.Context) {
		panic("kaboom")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var apiErr domain.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	assert.Equal(t, domain.ErrInternalServer, apiErr.Code)
}

func TestCorrelationIDPropagation(t *testing.T) {
	server := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Correlation-ID", "test-correlation-id")

	w := httptest.NewRecorder()
	server.Router().ServeHTTP(w, req)

	assert.Equal(t, "test-correlation-id", w.Header().Get("X-Correlation-ID"))
}

func TestSecurityHeaders(t *testing.T) {
	server := newTestServer(t)

	w := doJSON(t, server, http.MethodGet, "/health", nil)

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}
