package scoring

import "github.com/challenge-pot/backend/internal/models"

// PrizePool is the total pot: every participant's entry fee.
func PrizePool(entryFee int64, participantCount int) int64 {
	if entryFee < 0 || participantCount < 0 {
		return 0
	}
	return entryFee * int64(participantCount)
}

// AutoDistribution returns the default per-rank percentage split for a
// given participant count. Beyond five participants the remaining ranks
// win nothing.
func AutoDistribution(participants int) models.PrizeDistribution {
	var dist models.PrizeDistribution
	switch {
	case participants <= 0:
		return models.PrizeDistribution{}
	case participants == 1:
		dist = models.PrizeDistribution{100}
	case participants == 2:
		dist = models.PrizeDistribution{70, 30}
	case participants == 3:
		dist = models.PrizeDistribution{50, 30, 20}
	case participants == 4:
		dist = models.PrizeDistribution{40, 30, 20, 10}
	default:
		dist = models.PrizeDistribution{40, 25, 20, 10, 5}
		for len(dist) < participants {
			dist = append(dist, 0)
		}
	}
	return dist
}

// DistributePrizes assigns each ranked participant their share of the
// pool. Ranks beyond the distribution length receive nothing.
func DistributePrizes(rankings []models.ParticipantScore, distribution models.PrizeDistribution, pool int64) []models.PrizeAward {
	awards := make([]models.PrizeAward, 0, len(rankings))
	for i, s := range rankings {
		pct := 0
		if i < len(distribution) {
			pct = distribution[i]
		}
		awards = append(awards, models.PrizeAward{
			Rank:       i + 1,
			UserID:     s.UserID,
			Percentage: pct,
			Amount:     pool * int64(pct) / 100,
		})
	}
	return awards
}
