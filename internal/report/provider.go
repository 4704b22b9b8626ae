package report

import (
	"context"
	"fmt"

	"github.com/vanachal/fra-api/internal/analytics"
)

// Provider defines the interface for language-model providers that turn
// a district fact bundle into a compliance narrative. The engine only
// supplies numbers and categories; all prose comes from the provider.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// Generate produces the compliance summary for the given request.
	Generate(ctx context.Context, req Request) (*Response, error)
}

// Request contains the input for report generation.
type Request struct {
	// Facts is the read-only per-district fact bundle.
	Facts analytics.DistrictRisk

	// Prompt overrides the default prompt when non-empty.
	Prompt string

	// Model is the specific model to use (provider-specific).
	Model string

	// MaxTokens limits the response length.
	MaxTokens int
}

// Response contains the generated report.
type Response struct {
	// Text is the generated compliance summary.
	Text string

	// Model is the model that produced it.
	Model string

	// TokensUsed tracks token consumption.
	TokensUsed int
}

// Config holds report provider configuration.
type Config struct {
	// APIKey for the hosted provider. Empty disables report generation.
	APIKey string

	// Model name (provider-specific).
	Model string

	// Timeout for generation requests, in seconds.
	Timeout int

	// MaxTokens for response generation.
	MaxTokens int
}

// BuildPrompt constructs the default compliance-report prompt from the
// district fact bundle. Only figures the aggregator computed appear;
// the model is not given raw claim data.
func BuildPrompt(facts analytics.DistrictRisk) string {
	return fmt.Sprintf(`You are an expert governance compliance analyst under the Forest Rights Act (FRA).
Generate a concise formal compliance summary using the following regional data:

District: %s
Total Claims: %d
Approved Claims: %d
Conflicts (Overlaps/Protected Zones): %d
Pending Claims: %d
Calculated Risk Level: %s (Score: %.2f)

Please provide:
1. A brief summary of the exact statistics above.
2. The severity of the conflict risk.
3. Actionable policy recommendations for administrative review.

Keep the output professional, objective, and no longer than 2-3 paragraphs.`,
		facts.District,
		facts.TotalClaims,
		facts.Approved,
		facts.Conflicts,
		facts.Pending,
		facts.RiskLevel,
		facts.RiskScore,
	)
}
