package analytics

import (
	"math"
	"sort"

	"github.com/vanachal/fra-api/internal/models"
)

// Risk classification thresholds and weights.
const (
	lowRiskCeiling      = 40.0
	moderateRiskCeiling = 70.0
	pendingWeight       = 0.5
	conflictWeight      = 0.5
)

// UnknownDistrict buckets claims that carry no district name.
const UnknownDistrict = "Unknown"

// RiskLevel classifies a district's risk score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskModerate RiskLevel = "Moderate"
	RiskHigh     RiskLevel = "High"
)

// Summary holds the global counts and percentages across the whole
// claim population.
type Summary struct {
	TotalClaims    int     `json:"total_claims"`
	ApprovedClaims int     `json:"approved_claims"`
	PendingClaims  int     `json:"pending_claims"`
	ConflictClaims int     `json:"conflict_claims"`
	ApprovedPct    float64 `json:"approved_pct"`
	PendingPct     float64 `json:"pending_pct"`
}

// DistrictRisk is the derived per-district risk record. It doubles as
// the read-only fact bundle handed to the reporting collaborator.
// Never persisted; recomputed from the claim population on every call.
type DistrictRisk struct {
	District    string    `json:"district"`
	TotalClaims int       `json:"total_claims"`
	Approved    int       `json:"approved"`
	Pending     int       `json:"pending"`
	Conflicts   int       `json:"conflicts"`
	RiskScore   float64   `json:"risk_score"`
	RiskLevel   RiskLevel `json:"risk_level"`
}

// Report is the full analytics view: global summary plus districts
// ranked by descending risk score.
type Report struct {
	Summary   Summary        `json:"summary"`
	Districts []DistrictRisk `json:"districts"`
}

// Aggregate computes the analytics report in a single pass over the
// claim snapshot. This is the only counting implementation; every
// analytics view, including simulation-merged ones, goes through it.
//
// A claim counts as a conflict when its status records one, or when its
// overlap or protected-zone flag is set, independent of whether it also
// counts as approved or pending.
func Aggregate(claims []models.Claim) Report {
	var summary Summary
	summary.TotalClaims = len(claims)

	perDistrict := make(map[string]*DistrictRisk)
	var order []string

	for _, c := range claims {
		approved := c.Status == models.StatusApproved
		pending := c.Status.IsPending()
		conflict := c.Status.IsConflict() || c.OverlapFlag || c.ProtectedZoneFlag

		if approved {
			summary.ApprovedClaims++
		}
		if pending {
			summary.PendingClaims++
		}
		if conflict {
			summary.ConflictClaims++
		}

		name := c.District
		if name == "" {
			name = UnknownDistrict
		}
		d, ok := perDistrict[name]
		if !ok {
			d = &DistrictRisk{District: name}
			perDistrict[name] = d
			order = append(order, name)
		}
		d.TotalClaims++
		if approved {
			d.Approved++
		}
		if pending {
			d.Pending++
		}
		if conflict {
			d.Conflicts++
		}
	}

	if summary.TotalClaims > 0 {
		total := float64(summary.TotalClaims)
		summary.ApprovedPct = round1(float64(summary.ApprovedClaims) / total * 100)
		summary.PendingPct = round1(float64(summary.PendingClaims) / total * 100)
	}

	districts := make([]DistrictRisk, 0, len(order))
	for _, name := range order {
		d := perDistrict[name]
		if d.TotalClaims == 0 {
			continue
		}
		total := float64(d.TotalClaims)
		pendingPct := float64(d.Pending) / total * 100
		conflictPct := float64(d.Conflicts) / total * 100
		d.RiskScore = round2(pendingWeight*pendingPct + conflictWeight*conflictPct)
		d.RiskLevel = classifyRisk(d.RiskScore)
		districts = append(districts, *d)
	}

	// Stable sort: equal scores keep first-seen district order.
	sort.SliceStable(districts, func(i, j int) bool {
		return districts[i].RiskScore > districts[j].RiskScore
	})

	return Report{Summary: summary, Districts: districts}
}

func classifyRisk(score float64) RiskLevel {
	switch {
	case score <= lowRiskCeiling:
		return RiskLow
	case score <= moderateRiskCeiling:
		return RiskModerate
	default:
		return RiskHigh
	}
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
