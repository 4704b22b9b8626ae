package models

import (
	"testing"
)

func TestClaimStatusValid(t *testing.T) {
	valid := []ClaimStatus{
		StatusSubmitted, StatusUnderReview, StatusModerateConflict,
		StatusFlagged, StatusReservedViolation, StatusApproved, StatusRejected,
	}
	for _, s := range valid {
		if !s.Valid() {
			t.Errorf("Expected %s to be valid", s)
		}
	}

	for _, s := range []ClaimStatus{"", "Pending", "approved", "Unknown"} {
		if s.Valid() {
			t.Errorf("Expected %q to be invalid", s)
		}
	}
}

func TestClaimStatusIsTerminal(t *testing.T) {
	if !StatusApproved.IsTerminal() || !StatusRejected.IsTerminal() {
		t.Error("Expected Approved and Rejected to be terminal")
	}

	for _, s := range []ClaimStatus{StatusSubmitted, StatusUnderReview, StatusModerateConflict, StatusFlagged, StatusReservedViolation} {
		if s.IsTerminal() {
			t.Errorf("Expected %s to be non-terminal", s)
		}
	}
}

func TestClaimStatusClassification(t *testing.T) {
	if !StatusSubmitted.IsPending() || !StatusUnderReview.IsPending() {
		t.Error("Expected Submitted and UnderReview to be pending")
	}
	if StatusApproved.IsPending() || StatusFlagged.IsPending() {
		t.Error("Expected Approved and Flagged to not be pending")
	}

	for _, s := range []ClaimStatus{StatusModerateConflict, StatusFlagged, StatusReservedViolation} {
		if !s.IsConflict() {
			t.Errorf("Expected %s to be a conflict status", s)
		}
	}
	for _, s := range []ClaimStatus{StatusSubmitted, StatusUnderReview, StatusApproved, StatusRejected} {
		if s.IsConflict() {
			t.Errorf("Expected %s to not be a conflict status", s)
		}
	}
}

func TestClaimStatusTransitions(t *testing.T) {
	reviewable := []ClaimStatus{
		StatusSubmitted, StatusUnderReview, StatusModerateConflict,
		StatusFlagged, StatusReservedViolation,
	}
	for _, from := range reviewable {
		if !from.CanTransitionTo(StatusApproved) {
			t.Errorf("Expected %s -> Approved to be allowed", from)
		}
		if !from.CanTransitionTo(StatusRejected) {
			t.Errorf("Expected %s -> Rejected to be allowed", from)
		}
		// Only decisions are legal targets
		if from.CanTransitionTo(StatusFlagged) {
			t.Errorf("Expected %s -> Flagged to be rejected", from)
		}
	}

	// Terminal states allow nothing
	for _, from := range []ClaimStatus{StatusApproved, StatusRejected} {
		for _, to := range []ClaimStatus{StatusApproved, StatusRejected, StatusSubmitted} {
			if from.CanTransitionTo(to) {
				t.Errorf("Expected %s -> %s to be rejected", from, to)
			}
		}
	}
}

func TestClaimStatusIsDecision(t *testing.T) {
	if !StatusApproved.IsDecision() || !StatusRejected.IsDecision() {
		t.Error("Expected Approved and Rejected to be decisions")
	}
	if StatusFlagged.IsDecision() || ClaimStatus("Maybe").IsDecision() {
		t.Error("Expected non-terminal statuses to not be decisions")
	}
}

func TestClaimCloneDeepCopiesGeometry(t *testing.T) {
	original := Claim{
		ID:       1,
		District: "Balaghat",
		Geometry: &Polygon{
			Coordinates: [][][2]float64{{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}}},
			SRID:        4326,
		},
	}

	cloned := original.Clone()
	cloned.Geometry.Coordinates[0][0] = [2]float64{99, 99}

	if original.Geometry.Coordinates[0][0] != [2]float64{0, 0} {
		t.Error("Expected clone to not alias the original geometry")
	}
}

func TestClaimCloneNilGeometry(t *testing.T) {
	cloned := Claim{ID: 2, District: "Mandla"}.Clone()
	if cloned.Geometry != nil {
		t.Error("Expected nil geometry to stay nil")
	}
}
