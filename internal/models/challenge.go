package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Challenge status lifecycle: planning → active → completed.
// Cancelled is a terminal state reachable from planning.
const (
	StatusPlanning  = "planning"
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// ScoringWeights is the challenge's scoring configuration.
// Consistency, Volume and Quality are percentage weights that callers must
// make sum to 100 (Quality only counts when EnableQuality is set).
// StreakBonus is a flat per-day point bonus, not a percentage.
type ScoringWeights struct {
	Consistency   float64 `json:"consistency"`
	Volume        float64 `json:"volume"`
	Quality       float64 `json:"quality"`
	StreakBonus   float64 `json:"streak_bonus"`
	EnableQuality bool    `json:"enable_quality"`
}

// Value implements driver.Valuer so weights round-trip through a JSONB column.
func (w ScoringWeights) Value() (driver.Value, error) {
	return json.Marshal(w)
}

func (w *ScoringWeights) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, w)
	case string:
		return json.Unmarshal([]byte(v), w)
	case nil:
		*w = ScoringWeights{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into ScoringWeights", src)
	}
}

// PrizeDistribution holds per-rank payout percentages (index 0 = 1st place).
type PrizeDistribution []int

func (d PrizeDistribution) Value() (driver.Value, error) {
	if d == nil {
		d = PrizeDistribution{}
	}
	return json.Marshal(d)
}

func (d *PrizeDistribution) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	case nil:
		*d = PrizeDistribution{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into PrizeDistribution", src)
	}
}

// Challenge dates are calendar dates ("2006-01-02") in the service's
// reference timezone. EndDate = StartDate + DurationDays - 1, inclusive.
type Challenge struct {
	ID                uuid.UUID         `json:"id"`
	Title             string            `json:"title"`
	Description       string            `json:"description,omitempty"`
	CreatorID         uuid.UUID         `json:"creator_id"`
	InviteCode        string            `json:"invite_code"`
	MaxParticipants   int               `json:"max_participants"`
	StartDate         string            `json:"start_date"`
	DurationDays      int               `json:"duration_days"`
	EndDate           string            `json:"end_date"`
	EntryFee          int64             `json:"entry_fee"`
	PrizeDistribution PrizeDistribution `json:"prize_distribution"`
	ScoringMethod     ScoringWeights    `json:"scoring_method"`
	Status            string            `json:"status"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

type Participant struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Nickname  string    `json:"nickname"`
	ProfileID int       `json:"profile_id"`
	JoinedAt  time.Time `json:"joined_at"`
}

// ChallengeDetail is a challenge plus its mission list, returned on
// creation so the client gets the generated mission IDs without a
// follow-up fetch.
type ChallengeDetail struct {
	Challenge
	Missions []Mission `json:"missions"`
}

// ChallengeSummary is a dashboard row: a challenge plus its member count.
type ChallengeSummary struct {
	Challenge
	ParticipantCount int `json:"participant_count"`
}

// ── Request Types ─────────────────────────────────────────

type CreateChallengeRequest struct {
	Title             string                 `json:"title"`
	Description       string                 `json:"description"`
	MaxParticipants   int                    `json:"max_participants"`
	StartDate         string                 `json:"start_date"`
	DurationDays      int                    `json:"duration_days"`
	EntryFee          int64                  `json:"entry_fee"`
	PrizeDistribution PrizeDistribution      `json:"prize_distribution"`
	ScoringMethod     ScoringWeights         `json:"scoring_method"`
	Missions          []CreateMissionRequest `json:"missions"`
}

type JoinChallengeRequest struct {
	InviteCode string `json:"invite_code"`
}
