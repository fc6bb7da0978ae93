package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/jawnty/li-analyzer/internal/company"
	"github.com/jawnty/li-analyzer/internal/leads"
	"github.com/jawnty/li-analyzer/internal/roster"
)

type stubGenerator struct {
	response   string
	err        error
	lastPrompt string
}

func (s *stubGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func testLead() *leads.Lead {
	return &leads.Lead{
		Connection: &roster.Connection{FirstName: "Jane", LastName: "Doe", Position: "VP of Engineering"},
		Company:    &company.Record{Name: "Acme Corporation", MarketCap: 5_000_000_000, Sector: "Industrials"},
		Seniority:  45,
	}
}

func TestAssessorEvaluate(t *testing.T) {
	stub := &stubGenerator{response: `{"fit": true, "score": 0.9, "reason": "senior decision maker", "note": "Hello"}`}
	assessor := NewAssessor(stub, zap.NewNop(), 0.5, 0)

	assessment, err := assessor.Evaluate(context.Background(), testLead())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !assessment.Fit {
		t.Fatalf("expected fit to be true")
	}

	if assessment.Score != 0.9 {
		t.Fatalf("expected score 0.9, got %v", assessment.Score)
	}

	if assessment.Note != "Hello" {
		t.Fatalf("unexpected note: %s", assessment.Note)
	}

	if assessment.Reason == "" {
		t.Fatalf("expected reason to be populated")
	}

	if !strings.Contains(stub.lastPrompt, "Acme Corporation") {
		t.Fatalf("expected lead payload in prompt, got: %s", stub.lastPrompt)
	}
}

func TestAssessorScoreBelowThreshold(t *testing.T) {
	stub := &stubGenerator{response: `{"fit": true, "score": 0.3, "reason": "junior"}`}
	assessor := NewAssessor(stub, zap.NewNop(), 0.5, 0)

	assessment, err := assessor.Evaluate(context.Background(), testLead())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if assessment.Fit {
		t.Fatalf("expected fit to be forced false by threshold")
	}
}

func TestAssessorHandlesFencedJSON(t *testing.T) {
	stub := &stubGenerator{response: "```json\n{\"fit\": true, \"score\": 0.8}\n```"}
	assessor := NewAssessor(stub, zap.NewNop(), 0, 0)

	assessment, err := assessor.Evaluate(context.Background(), testLead())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !assessment.Fit || assessment.Score != 0.8 {
		t.Fatalf("unexpected assessment: %+v", assessment)
	}
}

func TestAssessorCoercesLooseTypes(t *testing.T) {
	stub := &stubGenerator{response: `{"fit": "yes", "score": "0.7", "reason": "ok"}`}
	assessor := NewAssessor(stub, zap.NewNop(), 0, 0)

	assessment, err := assessor.Evaluate(context.Background(), testLead())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !assessment.Fit {
		t.Fatalf("expected coerced fit true")
	}
	if assessment.Score != 0.7 {
		t.Fatalf("expected coerced score 0.7, got %v", assessment.Score)
	}
}

func TestAssessorGeneratorError(t *testing.T) {
	stub := &stubGenerator{err: errors.New("quota exceeded")}
	assessor := NewAssessor(stub, zap.NewNop(), 0, 0)

	if _, err := assessor.Evaluate(context.Background(), testLead()); err == nil {
		t.Fatalf("expected error from generator")
	}
}

func TestAssessorRequiresMatchedCompany(t *testing.T) {
	stub := &stubGenerator{response: `{}`}
	assessor := NewAssessor(stub, zap.NewNop(), 0, 0)

	lead := testLead()
	lead.Company = nil

	if _, err := assessor.Evaluate(context.Background(), lead); err == nil {
		t.Fatalf("expected error for unmatched lead")
	}
}
