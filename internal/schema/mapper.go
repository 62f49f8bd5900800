// Package schema binds the raw columns of a decoded dataset to the
// canonical fields the pipeline works with, tolerating the header
// drift these exports exhibit between cuts.
package schema

import (
	"strings"

	"github.com/grupoandino/reportes/internal/contracts"
)

// tokenOverlapMin is the fraction of canonical header tokens that must
// appear in a raw header for a tier-three match.
const tokenOverlapMin = 0.8

// Map binds canonical field specs to raw columns. Tiers run in order
// of confidence; within a tier, specs bind in declaration order and
// each raw column is claimed at most once.
func Map(specs []contracts.FieldSpec, cols []contracts.RawColumn) contracts.MappingResult {
	bound := make(map[contracts.CanonicalField]bool, len(specs))
	claimed := make(map[int]bool, len(cols))
	var mappings []contracts.ColumnMapping

	bind := func(tier contracts.MatchTier, match func(spec contracts.FieldSpec, col contracts.RawColumn) bool) {
		for _, spec := range specs {
			if bound[spec.Field] {
				continue
			}
			for _, col := range cols {
				if claimed[col.Index] || col.Header == "" {
					continue
				}
				if match(spec, col) {
					mappings = append(mappings, contracts.ColumnMapping{
						Field:  spec.Field,
						Column: col,
						Tier:   tier,
					})
					bound[spec.Field] = true
					claimed[col.Index] = true
					break
				}
			}
		}
	}

	bind(contracts.MatchExact, func(spec contracts.FieldSpec, col contracts.RawColumn) bool {
		return strings.EqualFold(strings.TrimSpace(spec.Header), strings.TrimSpace(col.Header))
	})
	bind(contracts.MatchNormalized, func(spec contracts.FieldSpec, col contracts.RawColumn) bool {
		return Normalize(spec.Header) == Normalize(col.Header)
	})
	bind(contracts.MatchTokens, func(spec contracts.FieldSpec, col contracts.RawColumn) bool {
		return tokenOverlap(spec.Header, col.Header) >= tokenOverlapMin
	})

	result := contracts.MappingResult{Mappings: mappings, Usable: true}
	for _, spec := range specs {
		if bound[spec.Field] {
			continue
		}
		result.Unmapped = append(result.Unmapped, spec.Field)
		if spec.Required {
			result.Usable = false
		}
	}
	for _, col := range cols {
		if !claimed[col.Index] {
			result.Unused = append(result.Unused, col)
		}
	}
	return result
}

// tokenOverlap scores how many canonical header tokens appear as
// substrings of the raw header's tokens.
func tokenOverlap(canonical, raw string) float64 {
	want := Tokens(canonical)
	have := Tokens(raw)
	if len(want) == 0 || len(have) == 0 {
		return 0
	}
	hits := 0
	for _, w := range want {
		for _, h := range have {
			if strings.Contains(h, w) {
				hits++
				break
			}
		}
	}
	return float64(hits) / float64(len(want))
}
