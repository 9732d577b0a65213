package rules

import "sort"

// TotalEntry pairs a player with a cumulative score for ranking.
type TotalEntry struct {
	PlayerID   string
	Name       string
	TotalScore int
}

// SortByTotalScore returns a copy sorted by total, highest first. The
// sort is stable so tied players keep their table order.
func SortByTotalScore(entries []TotalEntry) []TotalEntry {
	sorted := append([]TotalEntry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalScore > sorted[j].TotalScore
	})
	return sorted
}

// CompetitionRanks assigns ranks to a descending-sorted list. Tied
// players share a rank and the next distinct total resumes at its list
// index + 1, so totals 30,30,10 rank 1,1,3.
func CompetitionRanks(sorted []TotalEntry) []int {
	ranks := make([]int, len(sorted))
	rank := 1
	for i, e := range sorted {
		if i > 0 && e.TotalScore < sorted[i-1].TotalScore {
			rank = i + 1
		}
		ranks[i] = rank
	}
	return ranks
}

// Winners returns every player tied at the maximum total, in stable
// table order among themselves.
func Winners(entries []TotalEntry) []TotalEntry {
	sorted := SortByTotalScore(entries)
	if len(sorted) == 0 {
		return nil
	}
	top := sorted[0].TotalScore
	winners := make([]TotalEntry, 0, 1)
	for _, e := range sorted {
		if e.TotalScore != top {
			break
		}
		winners = append(winners, e)
	}
	return winners
}
