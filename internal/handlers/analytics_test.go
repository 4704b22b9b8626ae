package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanachal/fra-api/internal/analytics"
	apierrors "github.com/vanachal/fra-api/internal/errors"
	"github.com/vanachal/fra-api/internal/logger"
	"github.com/vanachal/fra-api/internal/middleware"
	"github.com/vanachal/fra-api/internal/models"
)

// stubSnapshot supplies a fixed claim population.
type stubSnapshot struct {
	claims []models.Claim
}

func (s *stubSnapshot) Snapshot() []models.Claim {
	out := make([]models.Claim, len(s.claims))
	copy(out, s.claims)
	return out
}

func setupAnalyticsTestRouter(source analytics.SnapshotSource) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	log := logger.New("test")
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))

	handler := NewAnalyticsHandler(analytics.NewService(source, log))
	api := router.Group("/api")
	{
		api.GET("/analytics", handler.Overview)
		api.POST("/analytics/simulate", handler.Simulate)
	}

	return router
}

func TestAnalyticsOverview(t *testing.T) {
	router := setupAnalyticsTestRouter(&stubSnapshot{claims: []models.Claim{
		{District: "Balaghat", Status: models.StatusApproved},
		{District: "Balaghat", Status: models.StatusFlagged},
	}})

	req := httptest.NewRequest(http.MethodGet, "/api/analytics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var report analytics.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, 2, report.Summary.TotalClaims)
	require.Len(t, report.Districts, 1)
	assert.Equal(t, "Balaghat", report.Districts[0].District)
}

func TestAnalyticsSimulate_MergesClaims(t *testing.T) {
	router := setupAnalyticsTestRouter(&stubSnapshot{claims: []models.Claim{
		{District: "Balaghat", Status: models.StatusApproved},
	}})

	body, _ := json.Marshal(gin.H{"claims": []gin.H{
		{"district": "Mandla", "status": "Flagged"},
	}})
	req := httptest.NewRequest(http.MethodPost, "/api/analytics/simulate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var report analytics.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, 2, report.Summary.TotalClaims)
	assert.Len(t, report.Districts, 2)
}

func TestAnalyticsSimulate_RequiresClaims(t *testing.T) {
	router := setupAnalyticsTestRouter(&stubSnapshot{})

	req := httptest.NewRequest(http.MethodPost, "/api/analytics/simulate", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp apierrors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, apierrors.ErrValidation, resp.Error.Code)
}
