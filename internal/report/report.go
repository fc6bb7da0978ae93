// Package report orders qualified leads and serializes the output file.
package report

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/jawnty/li-analyzer/internal/leads"
	"github.com/jawnty/li-analyzer/internal/tabular"
)

// Columns is the output file contract, in order.
var Columns = []string{
	"First Name",
	"Last Name",
	"Position",
	"Seniority Score",
	"Company",
	"Matched Company Name",
	"Matched Market Cap (USD)",
	"URL",
	"Email Address",
	"Connected On",
}

// Sort returns the leads ordered by matched company name ascending, then
// seniority descending. The sort is stable, so equal pairs keep their input
// order and repeated runs produce identical files.
func Sort(l *leads.Leads) []*leads.Lead {
	sorted := append([]*leads.Lead(nil), l.Items...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := companyName(sorted[i]), companyName(sorted[j])
		if a != b {
			return a < b
		}
		return sorted[i].Seniority > sorted[j].Seniority
	})
	return sorted
}

// Write sorts the leads and writes the report to path. Failures surface with
// the destination attached; the caller treats them as fatal.
func Write(l *leads.Leads, path string) error {
	rows := make([][]string, 0, l.Len())
	for _, lead := range Sort(l) {
		rows = append(rows, row(lead))
	}

	if err := tabular.Write(path, Columns, rows); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	return nil
}

func row(lead *leads.Lead) []string {
	matchedName := ""
	matchedCap := ""
	if lead.Company != nil {
		matchedName = lead.Company.Name
		matchedCap = leads.FormatUSD(lead.Company.MarketCap)
	}

	return []string{
		lead.Connection.FirstName,
		lead.Connection.LastName,
		lead.Connection.Position,
		strconv.Itoa(lead.Seniority),
		lead.Connection.Company,
		matchedName,
		matchedCap,
		lead.Connection.URL,
		lead.Connection.Email,
		lead.Connection.ConnectedOn,
	}
}

func companyName(lead *leads.Lead) string {
	if lead.Company == nil {
		return ""
	}
	return lead.Company.Name
}
