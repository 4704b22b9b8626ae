package models

import (
	"time"
)

// ClaimStatus is the closed set of states a claim moves through.
// Submitted and the three evaluator-assigned states are reviewable;
// Approved and Rejected are terminal.
type ClaimStatus string

const (
	StatusSubmitted         ClaimStatus = "Submitted"
	StatusUnderReview       ClaimStatus = "UnderReview"
	StatusModerateConflict  ClaimStatus = "ModerateConflict"
	StatusFlagged           ClaimStatus = "Flagged"
	StatusReservedViolation ClaimStatus = "ReservedViolation"
	StatusApproved          ClaimStatus = "Approved"
	StatusRejected          ClaimStatus = "Rejected"
)

// reviewTransitions is the explicit transition table for admin review.
// ReservedViolation stays reviewable so an administrator can manually
// correct a bad reserved-zone hit; anything not listed is rejected.
var reviewTransitions = map[ClaimStatus][]ClaimStatus{
	StatusSubmitted:         {StatusApproved, StatusRejected},
	StatusUnderReview:       {StatusApproved, StatusRejected},
	StatusModerateConflict:  {StatusApproved, StatusRejected},
	StatusFlagged:           {StatusApproved, StatusRejected},
	StatusReservedViolation: {StatusApproved, StatusRejected},
}

// Valid reports whether s is one of the known statuses.
func (s ClaimStatus) Valid() bool {
	switch s {
	case StatusSubmitted, StatusUnderReview, StatusModerateConflict,
		StatusFlagged, StatusReservedViolation, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// IsTerminal reports whether no further review is possible.
func (s ClaimStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// IsDecision reports whether s is a legal review decision value.
func (s ClaimStatus) IsDecision() bool {
	return s == StatusApproved || s == StatusRejected
}

// IsPending reports whether the claim is still waiting on evaluation
// or review without a recorded conflict.
func (s ClaimStatus) IsPending() bool {
	return s == StatusSubmitted || s == StatusUnderReview
}

// IsConflict reports whether the status itself records a conflict.
func (s ClaimStatus) IsConflict() bool {
	return s == StatusModerateConflict || s == StatusFlagged || s == StatusReservedViolation
}

// CanTransitionTo reports whether an admin review may move a claim from
// s to target, per the transition table.
func (s ClaimStatus) CanTransitionTo(target ClaimStatus) bool {
	for _, allowed := range reviewTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// Claim represents a single land-claim request.
// Status is the only field that changes after creation; ConflictSeverity
// is computed exactly once at submission time and never recomputed.
type Claim struct {
	ID                uint        `json:"id"`
	ApplicantName     string      `json:"applicantName"`
	District          string      `json:"district"`
	Village           string      `json:"village,omitempty"`
	AreaRequested     float64     `json:"areaRequested"`
	Geometry          *Polygon    `json:"geometry,omitempty"`
	Status            ClaimStatus `json:"status"`
	ConflictSeverity  int         `json:"conflictSeverity"`
	ConflictReason    string      `json:"conflictReason,omitempty"`
	OverlapFlag       bool        `json:"overlapFlag,omitempty"`
	ProtectedZoneFlag bool        `json:"protectedZoneFlag,omitempty"`
	SubmittedAt       time.Time   `json:"submittedAt"`
}

// Clone returns a deep copy of the claim, including its geometry, so
// registry snapshots never alias stored records.
func (c Claim) Clone() Claim {
	out := c
	if c.Geometry != nil {
		g := c.Geometry.Clone()
		out.Geometry = &g
	}
	return out
}
