package registry

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/vanachal/fra-api/internal/evaluator"
	"github.com/vanachal/fra-api/internal/logger"
	"github.com/vanachal/fra-api/internal/models"
)

// Registry-level errors. Services wrap these; handlers translate them
// into the HTTP error envelope.
var (
	// ErrClaimNotFound means the claim identifier is unknown.
	ErrClaimNotFound = errors.New("claim not found")

	// ErrStateConflict means the requested review is not permitted by
	// the status transition table, or the decision value is not a legal
	// decision. Nothing is mutated.
	ErrStateConflict = errors.New("state conflict")
)

// Evaluator scores one submission against the district's existing
// claims. Implemented by evaluator.SpatialEvaluator.
type Evaluator interface {
	Evaluate(district string, claimGeometry *models.Polygon, declaredArea float64, existing []models.Claim) evaluator.Evaluation
}

// CreateRequest carries the validated fields of a new submission.
type CreateRequest struct {
	ApplicantName string
	District      string
	Village       string
	AreaRequested float64
	Geometry      *models.Polygon
}

// Registry owns the mutable claim collection: it assigns identifiers,
// runs the evaluator exactly once per submission, and enforces the
// review state machine.
//
// One mutex serializes the read-evaluate-write sequence so two
// concurrent submissions in the same district can never both observe
// the pre-submission approved-area sum. Readers get deep-copied
// snapshots and never see a half-written record.
type Registry struct {
	mu        sync.RWMutex
	claims    []models.Claim
	index     map[uint]int
	nextID    uint
	evaluator Evaluator
	log       *logger.Logger
}

// New creates an empty registry backed by the given evaluator.
func New(eval Evaluator, log *logger.Logger) *Registry {
	return &Registry{
		index:     make(map[uint]int),
		nextID:    1,
		evaluator: eval,
		log:       log,
	}
}

// Create evaluates and stores a new claim atomically: either a fully
// evaluated claim becomes visible, or nothing does. Returns a copy of
// the stored record.
func (r *Registry) Create(req CreateRequest) (models.Claim, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing := r.districtClaimsLocked(req.District)
	eval := r.evaluator.Evaluate(req.District, req.Geometry, req.AreaRequested, existing)

	claim := models.Claim{
		ID:               r.nextID,
		ApplicantName:    req.ApplicantName,
		District:         req.District,
		Village:          req.Village,
		AreaRequested:    req.AreaRequested,
		Status:           eval.Status,
		ConflictSeverity: eval.Severity,
		ConflictReason:   eval.Reason,
		SubmittedAt:      time.Now().UTC(),
	}
	if req.Geometry != nil {
		g := req.Geometry.Clone()
		claim.Geometry = &g
	}

	r.nextID++
	r.index[claim.ID] = len(r.claims)
	r.claims = append(r.claims, claim)

	r.log.Info("Claim created", map[string]interface{}{
		"claim_id": claim.ID,
		"district": claim.District,
		"status":   string(claim.Status),
		"severity": claim.ConflictSeverity,
	})

	return claim.Clone(), nil
}

// Review applies an admin decision to a claim. Only transitions in the
// status table are allowed; severity is never recomputed. Returns the
// updated claim.
func (r *Registry) Review(id uint, decision models.ClaimStatus) (models.Claim, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pos, ok := r.index[id]
	if !ok {
		return models.Claim{}, fmt.Errorf("%w: claim %d", ErrClaimNotFound, id)
	}

	if !decision.IsDecision() {
		return models.Claim{}, fmt.Errorf("%w: %q is not a valid decision", ErrStateConflict, decision)
	}

	current := r.claims[pos].Status
	if !current.CanTransitionTo(decision) {
		return models.Claim{}, fmt.Errorf("%w: cannot move claim %d from %s to %s",
			ErrStateConflict, id, current, decision)
	}

	r.claims[pos].Status = decision

	r.log.Info("Claim reviewed", map[string]interface{}{
		"claim_id": id,
		"from":     string(current),
		"decision": string(decision),
	})

	return r.claims[pos].Clone(), nil
}

// Get returns a copy of one claim.
func (r *Registry) Get(id uint) (models.Claim, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pos, ok := r.index[id]
	if !ok {
		return models.Claim{}, fmt.Errorf("%w: claim %d", ErrClaimNotFound, id)
	}
	return r.claims[pos].Clone(), nil
}

// List returns copies of claims in insertion order, optionally filtered
// by district. An empty result is a non-nil empty slice.
func (r *Registry) List(district string) []models.Claim {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Claim, 0, len(r.claims))
	for _, c := range r.claims {
		if district != "" && c.District != district {
			continue
		}
		out = append(out, c.Clone())
	}
	return out
}

// Snapshot returns a consistent deep copy of the whole population for
// aggregation.
func (r *Registry) Snapshot() []models.Claim {
	return r.List("")
}

// Count returns the current number of claims on record.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.claims)
}

// Seed stores historical claims as-is, assigning identifiers but
// skipping evaluation; their status and flags were decided upstream.
func (r *Registry) Seed(claims []models.Claim) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range claims {
		stored := c.Clone()
		stored.ID = r.nextID
		if !stored.Status.Valid() {
			stored.Status = models.StatusSubmitted
		}
		r.nextID++
		r.index[stored.ID] = len(r.claims)
		r.claims = append(r.claims, stored)
	}
}

// districtClaimsLocked copies the district's claims for the evaluator.
// Caller must hold the write lock.
func (r *Registry) districtClaimsLocked(district string) []models.Claim {
	out := make([]models.Claim, 0)
	for _, c := range r.claims {
		if c.District == district {
			out = append(out, c.Clone())
		}
	}
	return out
}
