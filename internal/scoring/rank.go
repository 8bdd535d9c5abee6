package scoring

import (
	"StaffRankService/internal/models/domain"
	"sort"
)

// rankKeys are all keys that receive an independent dense rank.
var rankKeys = []domain.RankingKey{
	domain.RankByOverall,
	domain.RankByProductivity,
	domain.RankByEfficiency,
	domain.RankByQuality,
	domain.RankByActivity,
}

// Rank assigns five independent dense ranks (overall plus one per
// sub-score) and returns the records ordered by the primary key's rank.
// Ranks run 1..N with no gaps; ties keep the stable input order and
// receive distinct consecutive ranks. The input slice is not mutated.
func Rank(records []domain.ScoredStaffRecord, primary domain.RankingKey) []domain.ScoredStaffRecord {
	ranked := make([]domain.ScoredStaffRecord, len(records))
	copy(ranked, records)

	for _, key := range rankKeys {
		assignRanks(ranked, key)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].RankFor(primary) < ranked[j].RankFor(primary)
	})
	return ranked
}

// assignRanks sorts indices by the key's score descending, stable on the
// retrieval order, and writes rank position+1 into each record.
func assignRanks(records []domain.ScoredStaffRecord, key domain.RankingKey) {
	order := make([]int, len(records))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return records[order[a]].ScoreFor(key) > records[order[b]].ScoreFor(key)
	})

	for pos, idx := range order {
		rank := pos + 1
		switch key {
		case domain.RankByProductivity:
			records[idx].ProductivityRank = rank
		case domain.RankByEfficiency:
			records[idx].EfficiencyRank = rank
		case domain.RankByQuality:
			records[idx].QualityRank = rank
		case domain.RankByActivity:
			records[idx].ActivityRank = rank
		default:
			records[idx].OverallRank = rank
		}
	}
}
