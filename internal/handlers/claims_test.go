package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "github.com/vanachal/fra-api/internal/errors"
	"github.com/vanachal/fra-api/internal/logger"
	"github.com/vanachal/fra-api/internal/middleware"
	"github.com/vanachal/fra-api/internal/models"
	"github.com/vanachal/fra-api/internal/services"
)

// stubClaimService is a canned services.ClaimService for handler tests.
type stubClaimService struct {
	submitClaim  models.Claim
	submitErr    error
	listClaims   []models.Claim
	listDistrict string
	reviewClaim  models.Claim
	reviewErr    error
	zones        []models.RegionZone
	reserved     []models.ReservedZone
}

func (s *stubClaimService) SubmitClaim(ctx context.Context, input services.SubmitInput) (models.Claim, error) {
	return s.submitClaim, s.submitErr
}

func (s *stubClaimService) ListClaims(district string) []models.Claim {
	s.listDistrict = district
	return s.listClaims
}

func (s *stubClaimService) ReviewClaim(ctx context.Context, id uint, decision string) (models.Claim, error) {
	return s.reviewClaim, s.reviewErr
}

func (s *stubClaimService) GetZones(district string) []models.RegionZone {
	return s.zones
}

func (s *stubClaimService) GetReservedZones(district string) []models.ReservedZone {
	return s.reserved
}

// setupClaimsTestRouter creates a test router with middleware and claim routes.
func setupClaimsTestRouter(svc services.ClaimService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	log := logger.New("test")
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))

	handler := NewClaimsHandler(svc)
	api := router.Group("/api")
	{
		claims := api.Group("/claims")
		{
			claims.POST("", handler.Submit)
			claims.GET("", handler.List)
			claims.POST("/:id/review", handler.Review)
		}
	}

	return router
}

func postJSON(router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSubmitClaim_Created(t *testing.T) {
	svc := &stubClaimService{submitClaim: models.Claim{
		ID:               1,
		ApplicantName:    "Ram Singh",
		District:         "Balaghat",
		Status:           models.StatusUnderReview,
		ConflictSeverity: 0,
	}}
	router := setupClaimsTestRouter(svc)

	w := postJSON(router, "/api/claims", gin.H{
		"applicantName": "Ram Singh",
		"district":      "Balaghat",
		"areaRequested": 12.5,
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp ClaimResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, uint(1), resp.Claim.ID)
	assert.Equal(t, models.StatusUnderReview, resp.Claim.Status)
}

func TestSubmitClaim_MissingFields(t *testing.T) {
	router := setupClaimsTestRouter(&stubClaimService{})

	w := postJSON(router, "/api/claims", gin.H{"village": "Sonewani"})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp apierrors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, apierrors.ErrValidation, resp.Error.Code)
	assert.Contains(t, resp.Error.Details, "ApplicantName")
	assert.Contains(t, resp.Error.Details, "District")
	assert.NotEmpty(t, resp.Error.RequestID)
}

func TestSubmitClaim_ServiceValidationError(t *testing.T) {
	svc := &stubClaimService{submitErr: services.ErrValidation}
	router := setupClaimsTestRouter(svc)

	w := postJSON(router, "/api/claims", gin.H{
		"applicantName": "Ram Singh",
		"district":      "Balaghat",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp apierrors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, apierrors.ErrBadRequest, resp.Error.Code)
}

func TestSubmitClaim_InvalidJSON(t *testing.T) {
	router := setupClaimsTestRouter(&stubClaimService{})

	req := httptest.NewRequest(http.MethodPost, "/api/claims", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListClaims_PassesDistrictFilter(t *testing.T) {
	svc := &stubClaimService{listClaims: []models.Claim{
		{ID: 1, District: "Balaghat"},
		{ID: 3, District: "Balaghat"},
	}}
	router := setupClaimsTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/claims?district=Balaghat", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Balaghat", svc.listDistrict)

	var resp ClaimListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.Len(t, resp.Claims, 2)
}

func TestReviewClaim_Updated(t *testing.T) {
	svc := &stubClaimService{reviewClaim: models.Claim{
		ID:     2,
		Status: models.StatusApproved,
	}}
	router := setupClaimsTestRouter(svc)

	w := postJSON(router, "/api/claims/2/review", gin.H{"decision": "Approved"})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp ClaimResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.StatusApproved, resp.Claim.Status)
}

func TestReviewClaim_InvalidDecisionValue(t *testing.T) {
	router := setupClaimsTestRouter(&stubClaimService{})

	w := postJSON(router, "/api/claims/2/review", gin.H{"decision": "Maybe"})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp apierrors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, apierrors.ErrValidation, resp.Error.Code)
	assert.Contains(t, resp.Error.Details, "Decision")
}

func TestReviewClaim_NonNumericID(t *testing.T) {
	router := setupClaimsTestRouter(&stubClaimService{})

	w := postJSON(router, "/api/claims/abc/review", gin.H{"decision": "Approved"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReviewClaim_NotFound(t *testing.T) {
	svc := &stubClaimService{reviewErr: services.ErrClaimNotFound}
	router := setupClaimsTestRouter(svc)

	w := postJSON(router, "/api/claims/99/review", gin.H{"decision": "Approved"})

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp apierrors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, apierrors.ErrNotFound, resp.Error.Code)
}

func TestReviewClaim_StateConflict(t *testing.T) {
	svc := &stubClaimService{reviewErr: services.ErrStateConflict}
	router := setupClaimsTestRouter(svc)

	w := postJSON(router, "/api/claims/2/review", gin.H{"decision": "Rejected"})

	assert.Equal(t, http.StatusConflict, w.Code)

	var resp apierrors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, apierrors.ErrStateConflict, resp.Error.Code)
}
