package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	MissionBoolean = "boolean"
	MissionNumber  = "number"
)

const (
	RestrictionSameDayOnly = "same_day_only"
	RestrictionFlexible    = "flexible"
)

// Mission is one recurring daily task within a challenge. Missions are
// immutable once the challenge leaves planning.
type Mission struct {
	ID                uuid.UUID `json:"id"`
	ChallengeID       uuid.UUID `json:"challenge_id"`
	Title             string    `json:"title"`
	Description       string    `json:"description,omitempty"`
	MissionType       string    `json:"mission_type"`
	InputRestriction  string    `json:"input_restriction"`
	SuccessConditions string    `json:"success_conditions,omitempty"`
	OrderIndex        int       `json:"order_index"`
	CreatedAt         time.Time `json:"created_at"`
}

type CreateMissionRequest struct {
	Title             string `json:"title"`
	Description       string `json:"description"`
	MissionType       string `json:"mission_type"`
	InputRestriction  string `json:"input_restriction"`
	SuccessConditions string `json:"success_conditions"`
}

// LogValue is the payload of a mission log: {"completed":true} for boolean
// missions, {"count":n} for number missions. Readers must tolerate either
// field being absent.
type LogValue struct {
	Completed *bool    `json:"completed,omitempty"`
	Count     *float64 `json:"count,omitempty"`
}

// CountOrZero reads the numeric payload, treating a missing count as 0.
func (v LogValue) CountOrZero() float64 {
	if v.Count == nil {
		return 0
	}
	return *v.Count
}

func (v LogValue) IsCompleted() bool {
	return v.Completed != nil && *v.Completed
}

func (v LogValue) Value() (driver.Value, error) {
	return json.Marshal(v)
}

func (v *LogValue) Scan(src interface{}) error {
	switch s := src.(type) {
	case []byte:
		return json.Unmarshal(s, v)
	case string:
		return json.Unmarshal([]byte(s), v)
	case nil:
		*v = LogValue{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into LogValue", src)
	}
}

// MissionLog is one completion record. At most one row exists per
// (mission, user, log_date); re-logging the same day overwrites.
// IsLate is computed at write time, never by the scoring
// engine: it is true when the wall-clock date of the write (reference
// timezone) differs from the credited LogDate.
type MissionLog struct {
	ID          uuid.UUID `json:"id"`
	MissionID   uuid.UUID `json:"mission_id"`
	UserID      uuid.UUID `json:"user_id"`
	ChallengeID uuid.UUID `json:"challenge_id"`
	LogDate     string    `json:"log_date"`
	Value       LogValue  `json:"value"`
	IsLate      bool      `json:"is_late"`
	LoggedAt    time.Time `json:"logged_at"`
}

type LogMissionRequest struct {
	MissionID uuid.UUID `json:"mission_id"`
	LogDate   string    `json:"log_date"`
	Value     LogValue  `json:"value"`
}
