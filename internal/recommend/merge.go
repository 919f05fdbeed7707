package recommend

import "sort"

// Merge flattens the per-query batches, removes duplicates by URL keeping the
// first occurrence, and orders candidates descending by source score. Both
// the dedupe and the sort are stable: queries run in a fixed order, so equal
// scores keep their encounter order.
func Merge(batches ...[]*Issue) []*Issue {
	merged := make([]*Issue, 0)
	seen := make(map[string]struct{})

	for _, batch := range batches {
		for _, issue := range batch {
			if issue == nil {
				continue
			}
			if _, ok := seen[issue.URL]; ok {
				continue
			}
			seen[issue.URL] = struct{}{}
			merged = append(merged, issue)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].SourceScore > merged[j].SourceScore
	})

	return merged
}
