// Package leads holds the pipeline's working records: one candidate per
// connection, annotated and narrowed by the filter chain.
package leads

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jawnty/li-analyzer/internal/company"
	"github.com/jawnty/li-analyzer/internal/roster"
)

// Lead is a connection enriched with the pipeline's findings. Company stays
// nil until the match step resolves it; a lead that survives the whole chain
// always has a company, an in-range market cap and a qualifying seniority.
type Lead struct {
	Connection *roster.Connection `json:"connection"`
	Company    *company.Record    `json:"company,omitempty"`
	Similarity int                `json:"similarity,omitempty"`
	Seniority  int                `json:"seniority"`
	AI         *AIAssessment      `json:"ai,omitempty"`
}

// AIAssessment carries the optional model second-opinion on a lead.
type AIAssessment struct {
	Fit    bool    `json:"fit"`
	Score  float64 `json:"score"`
	Reason string  `json:"reason,omitempty"`
	Note   string  `json:"note,omitempty"`
	Error  string  `json:"error,omitempty"`
}

type Leads struct {
	Items []*Lead
}

// FromConnections creates one candidate lead per connection, in input order.
func FromConnections(connections *roster.Connections) *Leads {
	l := &Leads{Items: make([]*Lead, 0, connections.Len())}
	for _, conn := range connections.Items {
		l.Items = append(l.Items, &Lead{Connection: conn})
	}
	return l
}

func (l *Leads) Len() int {
	return len(l.Items)
}

// Keep returns a new collection holding only the leads the predicate
// accepts, preserving order. The receiver is not mutated; filters hand the
// result down the chain.
func (l *Leads) Keep(pred func(*Lead) bool) *Leads {
	kept := &Leads{Items: make([]*Lead, 0, len(l.Items))}
	for _, lead := range l.Items {
		if pred(lead) {
			kept.Items = append(kept.Items, lead)
		}
	}
	return kept
}

// ReportByCompany groups leads under "Company Name (market cap)" keys for
// the interactive report action.
func (l *Leads) ReportByCompany() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, lead := range l.Items {
		if lead.Company == nil {
			continue
		}

		key := fmt.Sprintf("%s (%s)", lead.Company.Name, FormatUSD(lead.Company.MarketCap))
		entry := map[string]string{
			"name":      fmt.Sprintf("%s %s", lead.Connection.FirstName, lead.Connection.LastName),
			"position":  lead.Connection.Position,
			"seniority": fmt.Sprintf("%d", lead.Seniority),
			"url":       lead.Connection.URL,
		}

		if lead.AI != nil {
			if lead.AI.Error != "" {
				entry["ai_error"] = lead.AI.Error
			} else {
				entry["ai_fit"] = fmt.Sprintf("%t", lead.AI.Fit)
				entry["ai_score"] = fmt.Sprintf("%g", lead.AI.Score)
				if lead.AI.Reason != "" {
					entry["ai_reason"] = lead.AI.Reason
				}
			}
		}

		report[key] = append(report[key], entry)
	}
	return report
}

// DumpToTmpFile writes the current leads as indented JSON to a temp file and
// returns its name.
func (l *Leads) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "leads_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// FormatUSD renders a dollar amount with thousands separators and no cents,
// e.g. 5500000 -> "$5,500,000".
func FormatUSD(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	digits := fmt.Sprintf("%.0f", amount)
	var out []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, d)
	}
	return sign + "$" + string(out)
}
