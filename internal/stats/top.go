package stats

import "sort"

// ContinueLearning returns up to n in-progress rows, furthest along first.
func ContinueLearning(rows []CourseRow, n int) []CourseRow {
	if n <= 0 || len(rows) == 0 {
		return nil
	}
	items := make([]CourseRow, len(rows))
	copy(items, rows)
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Percent == items[j].Percent {
			return items[i].Title < items[j].Title
		}
		return items[i].Percent > items[j].Percent
	})
	if n > len(items) {
		n = len(items)
	}
	return items[:n]
}
