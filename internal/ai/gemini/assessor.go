package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/jawnty/li-analyzer/internal/ai"
	"github.com/jawnty/li-analyzer/internal/leads"
	"github.com/jawnty/li-analyzer/internal/logger"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Assessor sends each lead to Gemini and parses the fit judgment.
type Assessor struct {
	generator contentGenerator
	minScore  float64
	logger    *zap.Logger
	maxLogLen int
}

//go:embed prompt.md
var promptTemplate string

const defaultMaxLogLength = 200

func NewAssessor(generator contentGenerator, logger *zap.Logger, minScore float64, maxLogLength int) *Assessor {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Assessor{
		generator: generator,
		minScore:  minScore,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (a *Assessor) Evaluate(ctx context.Context, lead *leads.Lead) (*ai.LeadAssessment, error) {
	if lead == nil || lead.Connection == nil {
		return nil, fmt.Errorf("lead is required")
	}
	if lead.Company == nil {
		return nil, fmt.Errorf("lead has no matched company")
	}

	payload := map[string]any{
		"name":       fmt.Sprintf("%s %s", lead.Connection.FirstName, lead.Connection.LastName),
		"position":   lead.Connection.Position,
		"seniority":  lead.Seniority,
		"company":    lead.Company.Name,
		"market_cap": lead.Company.MarketCap,
		"sector":     lead.Company.Sector,
		"industry":   lead.Company.Industry,
	}

	leadJSON, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal lead payload: %w", err)
	}

	prompt := buildPrompt(string(leadJSON))

	a.logger.Debug("gemini generate content request",
		zap.String("company", lead.Company.Name),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, a.maxLogLen)),
	)

	raw, err := a.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("gemini generate content response",
		zap.String("company", lead.Company.Name),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, a.maxLogLen)),
	)

	assessment, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}

	if a.minScore > 0 && !math.IsNaN(assessment.Score) && assessment.Score < a.minScore {
		a.logger.Debug("set fit to false by score threshold",
			zap.String("company", lead.Company.Name),
			zap.Float64("score", assessment.Score),
			zap.Float64("threshold", a.minScore),
		)
		assessment.Fit = false
	}

	assessment.Raw = raw
	return assessment, nil
}

func buildPrompt(leadJSON string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Lead:\n{{LEAD_JSON}}\n\nJSON Response:"
	}
	return strings.ReplaceAll(template, "{{LEAD_JSON}}", leadJSON)
}

func parseResponse(raw string) (*ai.LeadAssessment, error) {
	cleaned := extractJSON(strings.TrimSpace(raw))

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	score := coerceFloat(data["score"])
	if math.IsNaN(score) {
		score = 0
	}

	return &ai.LeadAssessment{
		Fit:    coerceBool(data["fit"]),
		Score:  score,
		Reason: coerceString(data["reason"]),
		Note:   coerceString(data["note"]),
	}, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceBool(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		lower := strings.ToLower(strings.TrimSpace(val))
		return lower == "true" || lower == "yes"
	case float64:
		return val != 0
	default:
		return false
	}
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}
