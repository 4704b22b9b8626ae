package registry

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanachal/fra-api/internal/evaluator"
	"github.com/vanachal/fra-api/internal/logger"
	"github.com/vanachal/fra-api/internal/models"
)

// capacityStub approves submissions until the district's approved area
// plus the request exceeds the given capacity.
type capacityStub struct {
	capacity float64
}

func (s *capacityStub) Evaluate(district string, claimGeometry *models.Polygon, declaredArea float64, existing []models.Claim) evaluator.Evaluation {
	total := declaredArea
	for _, c := range existing {
		if c.Status == models.StatusApproved {
			total += c.AreaRequested
		}
	}
	if total > s.capacity {
		return evaluator.Evaluation{Status: models.StatusFlagged, Severity: 50, Reason: evaluator.ReasonExceedsCapacity}
	}
	return evaluator.Evaluation{Status: models.StatusApproved, Reason: evaluator.ReasonWithinCapacity}
}

// fixedStub always returns the same evaluation.
type fixedStub struct {
	result evaluator.Evaluation
}

func (s *fixedStub) Evaluate(string, *models.Polygon, float64, []models.Claim) evaluator.Evaluation {
	return s.result
}

func newTestRegistry(eval Evaluator) *Registry {
	return New(eval, logger.New("test"))
}

func TestCreate_AssignsSequentialIDs(t *testing.T) {
	reg := newTestRegistry(&fixedStub{result: evaluator.Evaluation{Status: models.StatusUnderReview}})

	first, err := reg.Create(CreateRequest{ApplicantName: "Ram Singh", District: "Balaghat"})
	require.NoError(t, err)
	second, err := reg.Create(CreateRequest{ApplicantName: "Sita Bai", District: "Mandla"})
	require.NoError(t, err)

	assert.Equal(t, uint(1), first.ID)
	assert.Equal(t, uint(2), second.ID)
	assert.Equal(t, 2, reg.Count())
}

func TestCreate_StoresEvaluationResult(t *testing.T) {
	reg := newTestRegistry(&fixedStub{result: evaluator.Evaluation{
		Status:   models.StatusModerateConflict,
		Severity: 7,
		Reason:   evaluator.ReasonMinorConflict,
	}})

	claim, err := reg.Create(CreateRequest{
		ApplicantName: "Ram Singh",
		District:      "Balaghat",
		Village:       "Sonewani",
		AreaRequested: 12,
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusModerateConflict, claim.Status)
	assert.Equal(t, 7, claim.ConflictSeverity)
	assert.Equal(t, evaluator.ReasonMinorConflict, claim.ConflictReason)
	assert.Equal(t, "Sonewani", claim.Village)
	assert.False(t, claim.SubmittedAt.IsZero())

	stored, err := reg.Get(claim.ID)
	require.NoError(t, err)
	assert.Equal(t, claim.Status, stored.Status)
}

func TestCreate_CopiesGeometry(t *testing.T) {
	reg := newTestRegistry(&fixedStub{result: evaluator.Evaluation{Status: models.StatusUnderReview}})

	poly := models.Polygon{
		Coordinates: [][][2]float64{{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}}},
		SRID:        4326,
	}
	claim, err := reg.Create(CreateRequest{ApplicantName: "Ram Singh", District: "Balaghat", Geometry: &poly})
	require.NoError(t, err)

	// Mutating the caller's polygon must not reach the stored record.
	poly.Coordinates[0][0] = [2]float64{99, 99}

	stored, err := reg.Get(claim.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Geometry)
	assert.Equal(t, [2]float64{0, 0}, stored.Geometry.Coordinates[0][0])
}

func TestReview_AppliesDecision(t *testing.T) {
	reg := newTestRegistry(&fixedStub{result: evaluator.Evaluation{Status: models.StatusFlagged, Severity: 80}})

	claim, err := reg.Create(CreateRequest{ApplicantName: "Ram Singh", District: "Balaghat"})
	require.NoError(t, err)

	updated, err := reg.Review(claim.ID, models.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, updated.Status)
	// Severity is preserved across review.
	assert.Equal(t, 80, updated.ConflictSeverity)
}

func TestReview_UnknownClaim(t *testing.T) {
	reg := newTestRegistry(&fixedStub{result: evaluator.Evaluation{Status: models.StatusUnderReview}})

	_, err := reg.Review(42, models.StatusApproved)
	assert.ErrorIs(t, err, ErrClaimNotFound)
}

func TestReview_InvalidDecision(t *testing.T) {
	reg := newTestRegistry(&fixedStub{result: evaluator.Evaluation{Status: models.StatusUnderReview}})

	claim, err := reg.Create(CreateRequest{ApplicantName: "Ram Singh", District: "Balaghat"})
	require.NoError(t, err)

	_, err = reg.Review(claim.ID, models.StatusUnderReview)
	assert.ErrorIs(t, err, ErrStateConflict)

	// The failed review must not have touched the record.
	stored, err := reg.Get(claim.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusUnderReview, stored.Status)
}

func TestReview_TerminalClaimRejectsSecondDecision(t *testing.T) {
	reg := newTestRegistry(&fixedStub{result: evaluator.Evaluation{Status: models.StatusUnderReview}})

	claim, err := reg.Create(CreateRequest{ApplicantName: "Ram Singh", District: "Balaghat"})
	require.NoError(t, err)

	_, err = reg.Review(claim.ID, models.StatusRejected)
	require.NoError(t, err)

	_, err = reg.Review(claim.ID, models.StatusApproved)
	assert.ErrorIs(t, err, ErrStateConflict)
}

func TestList_FiltersByDistrict(t *testing.T) {
	reg := newTestRegistry(&fixedStub{result: evaluator.Evaluation{Status: models.StatusUnderReview}})

	_, err := reg.Create(CreateRequest{ApplicantName: "Ram Singh", District: "Balaghat"})
	require.NoError(t, err)
	_, err = reg.Create(CreateRequest{ApplicantName: "Sita Bai", District: "Mandla"})
	require.NoError(t, err)
	_, err = reg.Create(CreateRequest{ApplicantName: "Mohan Lal", District: "Balaghat"})
	require.NoError(t, err)

	balaghat := reg.List("Balaghat")
	require.Len(t, balaghat, 2)
	assert.Equal(t, uint(1), balaghat[0].ID)
	assert.Equal(t, uint(3), balaghat[1].ID)

	all := reg.List("")
	assert.Len(t, all, 3)
}

func TestList_EmptyIsNonNil(t *testing.T) {
	reg := newTestRegistry(&fixedStub{result: evaluator.Evaluation{Status: models.StatusUnderReview}})

	out := reg.List("Nowhere")
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestSnapshot_IsIsolatedFromStore(t *testing.T) {
	reg := newTestRegistry(&fixedStub{result: evaluator.Evaluation{Status: models.StatusUnderReview}})

	claim, err := reg.Create(CreateRequest{ApplicantName: "Ram Singh", District: "Balaghat"})
	require.NoError(t, err)

	snap := reg.Snapshot()
	require.Len(t, snap, 1)
	snap[0].Status = models.StatusRejected
	snap[0].ApplicantName = "changed"

	stored, err := reg.Get(claim.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusUnderReview, stored.Status)
	assert.Equal(t, "Ram Singh", stored.ApplicantName)
}

func TestSeed_StoresWithoutEvaluation(t *testing.T) {
	// An evaluator that would flag everything; Seed must bypass it.
	reg := newTestRegistry(&fixedStub{result: evaluator.Evaluation{Status: models.StatusFlagged, Severity: 100}})

	reg.Seed([]models.Claim{
		{ApplicantName: "Historical A", District: "Balaghat", Status: models.StatusApproved},
		{ApplicantName: "Historical B", District: "Mandla", Status: ""},
	})

	first, err := reg.Get(1)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, first.Status)

	// Unrecognized status falls back to Submitted.
	second, err := reg.Get(2)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmitted, second.Status)

	// Identifiers keep counting past the seeds.
	claim, err := reg.Create(CreateRequest{ApplicantName: "New", District: "Balaghat"})
	require.NoError(t, err)
	assert.Equal(t, uint(3), claim.ID)
}

func TestCreate_ConcurrentSubmissionsSeeEachOther(t *testing.T) {
	reg := newTestRegistry(&capacityStub{capacity: 500})

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := reg.Create(CreateRequest{
				ApplicantName: "Applicant",
				District:      "Balaghat",
				AreaRequested: 300,
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// Whichever submission ran second must have observed the first one's
	// approved area; exactly one of the two can be approved.
	approved := 0
	for _, c := range reg.Snapshot() {
		if c.Status == models.StatusApproved {
			approved++
		}
	}
	assert.Equal(t, 1, approved)
}
