package models

import "github.com/google/uuid"

// ParticipantScore is the scoring engine's per-participant output. It is
// computed fresh on every ranking request and never persisted.
// ConsistencyScore, VolumeScore and QualityScore are 0–100;
// StreakBonusScore is raw points; TotalScore is the rounded weighted sum
// used for ranking and payout.
type ParticipantScore struct {
	UserID              uuid.UUID      `json:"user_id"`
	ConsistencyScore    float64        `json:"consistency_score"`
	VolumeScore         float64        `json:"volume_score"`
	QualityScore        float64        `json:"quality_score"`
	StreakBonusScore    float64        `json:"streak_bonus_score"`
	TotalScore          int            `json:"total_score"`
	CurrentStreak       int            `json:"current_streak"`
	MaxStreak           int            `json:"max_streak"`
	TotalCompleted      int            `json:"total_completed"`
	CompletionRate      int            `json:"completion_rate"`
	LateSubmissions     int            `json:"late_submissions"`
	DailyCompletionRate map[string]int `json:"daily_completion_rate"`
}

// RankingEntry is a ParticipantScore enriched for display.
type RankingEntry struct {
	Rank int `json:"rank"`
	ParticipantScore
	Nickname      string `json:"nickname"`
	ProfileID     int    `json:"profile_id"`
	IsCurrentUser bool   `json:"is_current_user,omitempty"`
}

type RankingsResponse struct {
	ChallengeID uuid.UUID      `json:"challenge_id"`
	Status      string         `json:"status"`
	Entries     []RankingEntry `json:"entries"`
}

type PrizeAward struct {
	Rank       int       `json:"rank"`
	UserID     uuid.UUID `json:"user_id"`
	Nickname   string    `json:"nickname"`
	Percentage int       `json:"percentage"`
	Amount     int64     `json:"amount"`
}

type ChallengeStats struct {
	TotalDays         int     `json:"total_days"`
	TotalLogs         int     `json:"total_logs"`
	AvgCompletionRate float64 `json:"avg_completion_rate"`
	PrizePool         int64   `json:"prize_pool"`
}

type ResultsResponse struct {
	Challenge Challenge      `json:"challenge"`
	Entries   []RankingEntry `json:"entries"`
	Stats     ChallengeStats `json:"stats"`
	Prizes    []PrizeAward   `json:"prizes"`
}
