package ai

import (
	"context"

	"github.com/jawnty/li-analyzer/internal/leads"
)

// LeadAssessment is a provider's judgment of a single lead.
type LeadAssessment struct {
	Fit    bool
	Score  float64
	Reason string
	Note   string
	Raw    string
}

// Assessor gives a second opinion on leads that already passed the
// deterministic filters.
type Assessor interface {
	Evaluate(ctx context.Context, lead *leads.Lead) (*LeadAssessment, error)
}
