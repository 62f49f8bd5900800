package ingest

import (
	"strconv"
	"strings"

	"github.com/grupoandino/reportes/internal/contracts"
)

// ParseNumber reads the numeric spellings these exports use: currency
// prefixes, thousands separators, and percent suffixes. Percentages
// come back as 0..1 ratios. Unreadable text stays absent.
func ParseNumber(raw string) contracts.Number {
	s := strings.TrimSpace(raw)
	if s == "" {
		return contracts.Number{}
	}

	pct := strings.Contains(s, "%")
	for _, drop := range []string{"$", "%", " ", "\u00a0", ","} {
		s = strings.ReplaceAll(s, drop, "")
	}
	if s == "" {
		return contracts.Number{}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return contracts.Number{}
	}
	if pct {
		v /= 100
	}
	return contracts.N(v)
}
