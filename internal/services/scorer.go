package services

import "sort"

// CountMatches intersects a ticket's chosen numbers with a contest's winning
// numbers. Pure set intersection: duplicates count once and input order is
// irrelevant. The matched numbers come back sorted ascending.
func CountMatches(chosen, winning []int) (int, []int) {
	if len(chosen) == 0 || len(winning) == 0 {
		return 0, nil
	}

	winningSet := make(map[int]struct{}, len(winning))
	for _, n := range winning {
		winningSet[n] = struct{}{}
	}

	seen := make(map[int]struct{}, len(chosen))
	var matched []int
	for _, n := range chosen {
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		if _, ok := winningSet[n]; ok {
			matched = append(matched, n)
		}
	}
	sort.Ints(matched)
	return len(matched), matched
}
