package filtering

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/jawnty/li-analyzer/internal/leads"
)

type completenessFilter struct{}

// NewCompleteness creates a filter that removes connections missing a
// company name or a position; neither can be matched or scored.
func NewCompleteness() Filter {
	return &completenessFilter{}
}

func (f *completenessFilter) Name() string { return "completeness" }

func (f *completenessFilter) Disable(string) {}

func (f *completenessFilter) IsEnabled() bool { return true }

func (f *completenessFilter) Validate(*Config) error { return nil }

func (f *completenessFilter) Apply(_ context.Context, deps Deps, l *leads.Leads) (*leads.Leads, Step, error) {
	initial := l.Len()
	kept := l.Keep(func(lead *leads.Lead) bool {
		return strings.TrimSpace(lead.Connection.Company) != "" &&
			strings.TrimSpace(lead.Connection.Position) != ""
	})

	dropped := initial - kept.Len()
	if deps.Logger != nil && dropped > 0 {
		deps.Logger.Debug("dropping connections with empty company or position",
			zap.Int("dropped", dropped),
		)
	}

	return kept, Step{Initial: initial, Dropped: dropped, Left: kept.Len()}, nil
}

type companyMatchFilter struct{}

// NewCompanyMatch creates the filter that resolves each connection's raw
// company name against the index and drops the ones with no match.
func NewCompanyMatch() Filter {
	return &companyMatchFilter{}
}

func (f *companyMatchFilter) Name() string { return "company_match" }

func (f *companyMatchFilter) Disable(string) {}

func (f *companyMatchFilter) IsEnabled() bool { return true }

func (f *companyMatchFilter) Validate(*Config) error { return nil }

func (f *companyMatchFilter) Apply(_ context.Context, deps Deps, l *leads.Leads) (*leads.Leads, Step, error) {
	initial := l.Len()
	if deps.Matcher == nil {
		return l, Step{}, fmt.Errorf("company matcher is required")
	}

	kept := l.Keep(func(lead *leads.Lead) bool {
		result := deps.Matcher.Match(lead.Connection.Company)
		lead.Similarity = result.Score
		if !result.Matched() {
			if deps.Logger != nil {
				deps.Logger.Debug("no company match",
					zap.String("company", lead.Connection.Company),
					zap.Int("best_score", result.Score),
				)
			}
			return false
		}

		lead.Company = result.Record
		return true
	})

	return kept, Step{Initial: initial, Dropped: initial - kept.Len(), Left: kept.Len()}, nil
}

type marketCapFilter struct {
	min float64
	max float64
}

// NewMarketCap creates the filter that keeps leads whose matched company has
// a market cap inside the configured inclusive range.
func NewMarketCap() Filter {
	return &marketCapFilter{}
}

func (f *marketCapFilter) Name() string { return "market_cap" }

func (f *marketCapFilter) Disable(string) {}

func (f *marketCapFilter) IsEnabled() bool { return true }

func (f *marketCapFilter) Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}
	if cfg.MinMarketCap > cfg.MaxMarketCap {
		return fmt.Errorf("market cap range is inverted: min %.0f > max %.0f", cfg.MinMarketCap, cfg.MaxMarketCap)
	}

	f.min = cfg.MinMarketCap
	f.max = cfg.MaxMarketCap
	return nil
}

func (f *marketCapFilter) Apply(_ context.Context, deps Deps, l *leads.Leads) (*leads.Leads, Step, error) {
	initial := l.Len()
	kept := l.Keep(func(lead *leads.Lead) bool {
		inRange := lead.Company != nil &&
			lead.Company.MarketCap >= f.min &&
			lead.Company.MarketCap <= f.max
		if !inRange && deps.Logger != nil && lead.Company != nil {
			deps.Logger.Debug("company outside market cap range",
				zap.String("company", lead.Company.Name),
				zap.Float64("market_cap", lead.Company.MarketCap),
			)
		}
		return inRange
	})

	return kept, Step{Initial: initial, Dropped: initial - kept.Len(), Left: kept.Len()}, nil
}

func (f *marketCapFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: true, Details: map[string]string{
		"min": leads.FormatUSD(f.min),
		"max": leads.FormatUSD(f.max),
	}}
}

type seniorityFilter struct {
	minScore int
}

// NewSeniority creates the filter that scores every position title and
// keeps leads at or above the configured minimum.
func NewSeniority() Filter {
	return &seniorityFilter{}
}

func (f *seniorityFilter) Name() string { return "seniority" }

func (f *seniorityFilter) Disable(string) {}

func (f *seniorityFilter) IsEnabled() bool { return true }

func (f *seniorityFilter) Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}
	f.minScore = cfg.MinSeniority
	return nil
}

func (f *seniorityFilter) Apply(_ context.Context, deps Deps, l *leads.Leads) (*leads.Leads, Step, error) {
	initial := l.Len()
	if deps.Scorer == nil {
		return l, Step{}, fmt.Errorf("seniority scorer is required")
	}

	kept := l.Keep(func(lead *leads.Lead) bool {
		lead.Seniority = deps.Scorer.Score(lead.Connection.Position)
		return lead.Seniority >= f.minScore
	})

	return kept, Step{Initial: initial, Dropped: initial - kept.Len(), Left: kept.Len()}, nil
}

func (f *seniorityFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: true, Details: map[string]string{
		"minimum_score": strconv.Itoa(f.minScore),
	}}
}

type aiFitFilter struct {
	disabled bool
	reason   string
	config   *AIConfig
}

// NewAIFit creates the AI-based filtering step.
func NewAIFit() Filter {
	return &aiFitFilter{}
}

func (f *aiFitFilter) Name() string { return "ai_fit" }

func (f *aiFitFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *aiFitFilter) IsEnabled() bool { return !f.disabled }

func (f *aiFitFilter) Validate(cfg *Config) error {
	f.config = nil
	if cfg != nil {
		f.config = cfg.AI
	}
	if !f.IsEnabled() {
		return nil
	}
	if f.config == nil || !f.config.Enabled {
		f.Disable("not enabled in config")
		return nil
	}
	if f.config.Gemini == nil {
		return fmt.Errorf("gemini configuration is required when ai filter is enabled")
	}
	if strings.TrimSpace(f.config.Gemini.Model) == "" {
		return fmt.Errorf("gemini model is required when ai filter is enabled")
	}
	return nil
}

func (f *aiFitFilter) Apply(ctx context.Context, deps Deps, l *leads.Leads) (*leads.Leads, Step, error) {
	initial := l.Len()
	if deps.Assessor == nil {
		if deps.Logger != nil {
			deps.Logger.Info("ai assessor is not configured; skipping ai_fit filter")
		}
		return l, Step{Initial: initial, Dropped: 0, Left: initial}, nil
	}

	kept := &leads.Leads{}
	for _, lead := range l.Items {
		assessment, err := deps.Assessor.Evaluate(ctx, lead)
		if err != nil {
			// Assessment failures never drop a lead: keep it with the
			// error recorded so a reviewer can follow up.
			if deps.Logger != nil {
				deps.Logger.Warn("AI evaluation failed",
					zap.String("company", lead.Connection.Company),
					zap.Error(err),
				)
			}
			lead.AI = &leads.AIAssessment{Error: err.Error()}
			kept.Items = append(kept.Items, lead)
			continue
		}

		lead.AI = &leads.AIAssessment{
			Fit:    assessment.Fit,
			Score:  assessment.Score,
			Reason: assessment.Reason,
			Note:   assessment.Note,
		}

		if !assessment.Fit {
			if deps.Logger != nil {
				deps.Logger.Info("lead rejected by AI provider",
					zap.String("company", lead.Connection.Company),
					zap.Float64("ai_score", assessment.Score),
					zap.String("reason", assessment.Reason),
				)
			}
			continue
		}

		kept.Items = append(kept.Items, lead)
	}

	return kept, Step{Initial: initial, Dropped: initial - kept.Len(), Left: kept.Len()}, nil
}

func (f *aiFitFilter) Status() Status {
	details := map[string]string{}
	if f.config != nil {
		details["minimum_fit_score"] = fmt.Sprintf("%.2f", f.config.MinimumFitScore)
		if f.config.Gemini != nil {
			details["model"] = f.config.Gemini.Model
			details["max_retries"] = strconv.Itoa(f.config.Gemini.MaxRetries)
			details["max_log_length"] = strconv.Itoa(f.config.Gemini.MaxLogLength)
		}
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
