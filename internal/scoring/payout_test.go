package scoring

import (
	"reflect"
	"testing"

	"github.com/challenge-pot/backend/internal/models"
	"github.com/google/uuid"
)

func TestPrizePool(t *testing.T) {
	tests := []struct {
		entryFee     int64
		participants int
		want         int64
	}{
		{10000, 5, 50000},
		{10000, 0, 0},
		{0, 5, 0},
		{-100, 5, 0},
	}

	for _, tt := range tests {
		if got := PrizePool(tt.entryFee, tt.participants); got != tt.want {
			t.Errorf("PrizePool(%d, %d) = %d, want %d", tt.entryFee, tt.participants, got, tt.want)
		}
	}
}

func TestAutoDistribution(t *testing.T) {
	tests := []struct {
		participants int
		want         models.PrizeDistribution
	}{
		{0, models.PrizeDistribution{}},
		{1, models.PrizeDistribution{100}},
		{2, models.PrizeDistribution{70, 30}},
		{3, models.PrizeDistribution{50, 30, 20}},
		{4, models.PrizeDistribution{40, 30, 20, 10}},
		{5, models.PrizeDistribution{40, 25, 20, 10, 5}},
		{7, models.PrizeDistribution{40, 25, 20, 10, 5, 0, 0}},
	}

	for _, tt := range tests {
		got := AutoDistribution(tt.participants)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("AutoDistribution(%d) = %v, want %v", tt.participants, got, tt.want)
		}

		sum := 0
		for _, pct := range got {
			sum += pct
		}
		if tt.participants > 0 && sum != 100 {
			t.Errorf("AutoDistribution(%d) sums to %d, want 100", tt.participants, sum)
		}
	}
}

func TestDistributePrizes(t *testing.T) {
	first, second, third, fourth := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	rankings := []models.ParticipantScore{
		{UserID: first}, {UserID: second}, {UserID: third}, {UserID: fourth},
	}
	dist := models.PrizeDistribution{50, 30, 20}

	awards := DistributePrizes(rankings, dist, 100000)
	if len(awards) != 4 {
		t.Fatalf("got %d awards, want 4", len(awards))
	}

	wantAmounts := []int64{50000, 30000, 20000, 0}
	for i, a := range awards {
		if a.Rank != i+1 {
			t.Errorf("award %d rank = %d, want %d", i, a.Rank, i+1)
		}
		if a.Amount != wantAmounts[i] {
			t.Errorf("rank %d amount = %d, want %d", a.Rank, a.Amount, wantAmounts[i])
		}
	}
	// Rank beyond the distribution wins nothing.
	if awards[3].Percentage != 0 {
		t.Errorf("rank 4 percentage = %d, want 0", awards[3].Percentage)
	}
}
