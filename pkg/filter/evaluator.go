// Package filter reduces scored candidates to those satisfying a
// FilterSpec. The evaluator is pure, stateless, and order-preserving.
package filter

import "github.com/nestquery/nestquery/pkg/types"

// Apply returns the results whose attributes satisfy every set bound of the
// spec, preserving the relative order of the input. A nil or identity spec
// returns the input unchanged. Apply never mutates its input and is
// idempotent: applying the same spec twice yields the same list.
func Apply(results []*types.SearchResult, spec *types.FilterSpec) []*types.SearchResult {
	if spec.IsIdentity() {
		return results
	}

	filtered := make([]*types.SearchResult, 0, len(results))
	for _, r := range results {
		if spec.Matches(&r.Attributes) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// ApplyCandidates filters raw candidates before scoring, for callers that
// want to shrink the enrichment set early.
func ApplyCandidates(candidates []*types.SearchCandidate, spec *types.FilterSpec) []*types.SearchCandidate {
	if spec.IsIdentity() {
		return candidates
	}

	filtered := make([]*types.SearchCandidate, 0, len(candidates))
	for _, c := range candidates {
		if spec.Matches(&c.Attributes) {
			filtered = append(filtered, c)
		}
	}
	return filtered
}
