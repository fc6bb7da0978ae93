// Package filtering narrows the candidate leads through an ordered chain of
// steps. The chain order is load-bearing: match before market cap before
// seniority guarantees every surviving lead satisfies all three gates.
package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jawnty/li-analyzer/internal/ai"
	"github.com/jawnty/li-analyzer/internal/leads"
	"github.com/jawnty/li-analyzer/internal/matching"
	"github.com/jawnty/li-analyzer/internal/scoring"
)

// Filter represents a single filtering step applied to the lead list.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate(cfg *Config) error
	Apply(ctx context.Context, deps Deps, l *leads.Leads) (*leads.Leads, Step, error)
}

// Deps aggregates dependencies shared across all filtering steps.
type Deps struct {
	Logger   *zap.Logger
	Matcher  *matching.Matcher
	Scorer   *scoring.Scorer
	Assessor ai.Assessor
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Config contains configuration settings consumed by the filters.
type Config struct {
	MinMarketCap float64
	MaxMarketCap float64
	MinSeniority int
	AI           *AIConfig
}

// AIConfig stores AI-related configuration used by the filters.
type AIConfig struct {
	Enabled         bool
	Provider        string
	MinimumFitScore float64
	Gemini          *GeminiConfig
}

// GeminiConfig stores Gemini provider configuration.
type GeminiConfig struct {
	Model        string
	MaxRetries   int
	MaxLogLength int
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

// statusProvider is implemented by filters that can supply detailed status information.
type statusProvider interface {
	Status() Status
}

// DisableByName marks a filter with the provided name as disabled while keeping it in the list.
func DisableByName(steps []Filter, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Run executes the supplied filters sequentially and returns the surviving
// leads. Validation of every enabled step happens before the first Apply so
// a misconfigured late step cannot waste a partial run.
func Run(ctx context.Context, cfg *Config, deps Deps, steps []Filter, l *leads.Leads) (*leads.Leads, error) {
	for _, step := range steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}
	}

	for _, step := range steps {
		if !step.IsEnabled() {
			if deps.Logger != nil {
				deps.Logger.Info("filter disabled", zap.String("name", step.Name()))
			}
			continue
		}

		next, info, err := step.Apply(ctx, deps, l)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		if deps.Logger != nil {
			deps.Logger.Info("filter step",
				zap.String("name", step.Name()),
				zap.Int("initial", info.Initial),
				zap.Int("dropped", info.Dropped),
				zap.Int("left", info.Left),
			)
		}

		l = next
	}

	return l, nil
}

// Describe returns status entries for the provided filters.
func Describe(steps []Filter) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}
