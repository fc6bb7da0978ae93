// Package company loads the canonical public-companies dataset into an
// index queryable by the matcher.
package company

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/jawnty/li-analyzer/internal/tabular"
)

// Columns the companies file must carry. Remaining columns are optional
// enrichment and read as empty when absent.
var requiredColumns = []string{"Company Name", "Market Capitalization"}

// Record is one canonical company. Name keeps the original casing for
// display; matching runs against the normalized form held by the index.
type Record struct {
	Name         string
	MarketCap    float64
	Sector       string
	Industry     string
	SubIndustry  string
	Headquarters string
	RevenueTTM   float64
	Employees    int
}

type row struct {
	Name         string `mapstructure:"Company Name"`
	MarketCap    string `mapstructure:"Market Capitalization"`
	Sector       string `mapstructure:"Sector"`
	Industry     string `mapstructure:"Industry"`
	SubIndustry  string `mapstructure:"Sub-Industry"`
	Headquarters string `mapstructure:"Company Headquarters Location"`
	RevenueTTM   string `mapstructure:"Revenue (TTM)"`
	Employees    string `mapstructure:"Employees (Full Time)"`
}

// Index holds the loaded records in file order plus a normalized-name map.
// Read-only after Build; safe to share.
type Index struct {
	records []*Record
	keys    []string
	byKey   map[string]*Record
	skipped int
}

// Build constructs the index from a parsed companies table. Rows missing a
// name or carrying an unparseable market cap are skipped and counted, never
// fatal. Duplicate normalized names resolve first-occurrence-wins.
func Build(table *tabular.Table) (*Index, error) {
	if err := table.Require(requiredColumns...); err != nil {
		return nil, fmt.Errorf("companies file: %w", err)
	}

	idx := &Index{byKey: make(map[string]*Record)}

	for i := 0; i < table.Len(); i++ {
		var r row
		if err := mapstructure.Decode(table.RowMap(i), &r); err != nil {
			idx.skipped++
			continue
		}

		if strings.TrimSpace(r.Name) == "" {
			idx.skipped++
			continue
		}

		marketCap, err := ParseMarketCap(r.MarketCap)
		if err != nil {
			idx.skipped++
			continue
		}

		key := NormalizeName(r.Name)
		if key == "" {
			idx.skipped++
			continue
		}
		if _, dup := idx.byKey[key]; dup {
			idx.skipped++
			continue
		}

		revenue, err := ParseMarketCap(r.RevenueTTM)
		if err != nil {
			revenue = 0
		}

		record := &Record{
			Name:         strings.TrimSpace(r.Name),
			MarketCap:    marketCap,
			Sector:       r.Sector,
			Industry:     r.Industry,
			SubIndustry:  r.SubIndustry,
			Headquarters: r.Headquarters,
			RevenueTTM:   revenue,
			Employees:    parseCount(r.Employees),
		}

		idx.records = append(idx.records, record)
		idx.keys = append(idx.keys, key)
		idx.byKey[key] = record
	}

	return idx, nil
}

func (idx *Index) Len() int {
	return len(idx.records)
}

// Skipped reports how many rows were dropped during Build.
func (idx *Index) Skipped() int {
	return idx.skipped
}

// Walk visits every record with its normalized name, in file order. The
// stable order is what makes matcher tie-breaks deterministic.
func (idx *Index) Walk(fn func(key string, record *Record)) {
	for i, record := range idx.records {
		fn(idx.keys[i], record)
	}
}

// Lookup normalizes a raw name and returns its record, or nil.
func (idx *Index) Lookup(name string) *Record {
	return idx.byKey[NormalizeName(name)]
}

// LookupNormalized returns the record stored under an already normalized
// key, or nil. NormalizeName strips a single trailing legal suffix, so
// applying it twice can produce a different key; callers holding a
// normalized key must not go through Lookup.
func (idx *Index) LookupNormalized(key string) *Record {
	return idx.byKey[key]
}

var (
	legalSuffix = regexp.MustCompile(`\b(inc|llc|ltd|corp|corporation|plc|gmbh|ag|co)\b\.?$`)
	punctuation = regexp.MustCompile(`[^\w\s]`)
	whitespace  = regexp.MustCompile(`\s+`)
)

// NormalizeName prepares a company name for comparison: casefold, strip a
// trailing legal suffix, drop punctuation, collapse whitespace.
func NormalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.TrimSpace(legalSuffix.ReplaceAllString(name, ""))
	name = punctuation.ReplaceAllString(name, "")
	return strings.TrimSpace(whitespace.ReplaceAllString(name, " "))
}

// ParseMarketCap converts a money string such as "$55.3M", "98B" or a plain
// number into USD.
func ParseMarketCap(value string) (float64, error) {
	cleaned := strings.ToUpper(strings.TrimSpace(value))
	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return 0, fmt.Errorf("empty market cap value")
	}

	multiplier := 1.0
	switch {
	case strings.HasSuffix(cleaned, "B"):
		multiplier = 1_000_000_000
		cleaned = strings.TrimSuffix(cleaned, "B")
	case strings.HasSuffix(cleaned, "M"):
		multiplier = 1_000_000
		cleaned = strings.TrimSuffix(cleaned, "M")
	}

	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("parse market cap %q: %w", value, err)
	}

	return amount * multiplier, nil
}

func parseCount(value string) int {
	cleaned := strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	count, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0
	}
	return count
}
