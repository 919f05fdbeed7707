package recommend

import "sort"

// Assemble produces the final, externally visible order: stable descending
// sort by AI score, truncated to the requested budget. Issues with equal
// scores keep their prior relative order.
func Assemble(issues []*Issue, budget int) []*Issue {
	sorted := make([]*Issue, len(issues))
	copy(sorted, issues)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].AIScore > sorted[j].AIScore
	})

	if budget >= 0 && len(sorted) > budget {
		sorted = sorted[:budget]
	}

	return sorted
}
