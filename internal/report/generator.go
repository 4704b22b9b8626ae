package report

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/vanachal/fra-api/internal/analytics"
	"github.com/vanachal/fra-api/internal/logger"
)

// DistrictReport is the cached, client-facing report payload.
type DistrictReport struct {
	District   string `json:"district"`
	ReportText string `json:"reportText"`
	Model      string `json:"model,omitempty"`
	Cached     bool   `json:"cached"`
}

// Generator produces district compliance reports through a Provider and
// caches them per district. Generation is slow and the underlying facts
// only change on claim mutation, so the claim service invalidates the
// cache on every create and review.
type Generator struct {
	provider Provider
	cache    *gocache.Cache
	ttl      time.Duration
	log      *logger.Logger
}

// NewGenerator creates a report generator with a per-district TTL cache.
func NewGenerator(provider Provider, ttl time.Duration, log *logger.Logger) *Generator {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Generator{
		provider: provider,
		cache:    gocache.New(ttl, 2*ttl),
		ttl:      ttl,
		log:      log,
	}
}

// Generate returns the compliance report for a district, serving from
// cache when a fresh copy exists.
func (g *Generator) Generate(ctx context.Context, facts analytics.DistrictRisk) (DistrictReport, error) {
	if cached, found := g.cache.Get(facts.District); found {
		if rep, ok := cached.(DistrictReport); ok {
			rep.Cached = true
			return rep, nil
		}
	}

	resp, err := g.provider.Generate(ctx, Request{Facts: facts})
	if err != nil {
		g.log.Error("Report generation failed", err, map[string]interface{}{
			"district": facts.District,
			"provider": g.provider.Name(),
		})
		return DistrictReport{}, fmt.Errorf("failed to generate report for %s: %w", facts.District, err)
	}

	rep := DistrictReport{
		District:   facts.District,
		ReportText: resp.Text,
		Model:      resp.Model,
	}
	g.cache.Set(facts.District, rep, g.ttl)

	g.log.Info("Report generated", map[string]interface{}{
		"district": facts.District,
		"model":    resp.Model,
		"tokens":   resp.TokensUsed,
	})

	return rep, nil
}

// Invalidate drops any cached report for the district.
func (g *Generator) Invalidate(district string) {
	g.cache.Delete(district)
}

// InvalidateAll drops every cached report.
func (g *Generator) InvalidateAll() {
	g.cache.Flush()
}
