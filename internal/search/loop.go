package search

// RemoveLoops implements distilled spec §4.7: scan left to right keeping
// the first index each node was seen at in the cleaned prefix; on a
// revisit, truncate back to that index instead of appending the
// duplicate. The result has no repeated node and is idempotent.
func RemoveLoops(path []int64) []int64 {
	firstIndex := make(map[int64]int, len(path))
	cleaned := make([]int64, 0, len(path))

	for _, n := range path {
		if idx, seen := firstIndex[n]; seen {
			for _, dropped := range cleaned[idx+1:] {
				delete(firstIndex, dropped)
			}
			cleaned = cleaned[:idx+1]
			continue
		}
		firstIndex[n] = len(cleaned)
		cleaned = append(cleaned, n)
	}
	return cleaned
}
