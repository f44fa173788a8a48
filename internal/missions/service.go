package missions

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/challenge-pot/backend/internal/models"
	"github.com/challenge-pot/backend/internal/scoring"
	"github.com/google/uuid"
)

type Service struct {
	store *Store
	loc   *time.Location
}

// NewService wires the mission store with the reference timezone used for
// every calendar-date comparison (lateness, same-day restrictions).
func NewService(store *Store, loc *time.Location) *Service {
	return &Service{store: store, loc: loc}
}

func (s *Service) today() string {
	return time.Now().In(s.loc).Format(scoring.DateLayout)
}

func (s *Service) ListMissions(challengeID uuid.UUID) ([]models.Mission, error) {
	return s.store.ListByChallenge(challengeID)
}

// LogMission validates and upserts one completion record. The is_late
// flag is computed here, at write time, by comparing today's date in the
// reference timezone against the credited log date.
func (s *Service) LogMission(userID, challengeID uuid.UUID, req models.LogMissionRequest) (*models.MissionLog, error) {
	if req.LogDate == "" {
		req.LogDate = s.today()
	}
	if _, err := time.Parse(scoring.DateLayout, req.LogDate); err != nil {
		return nil, fmt.Errorf("log_date must be YYYY-MM-DD")
	}

	member, err := s.store.isParticipant(challengeID, userID)
	if err != nil {
		return nil, fmt.Errorf("check participant: %w", err)
	}
	if !member {
		return nil, fmt.Errorf("not a participant of this challenge")
	}

	mission, err := s.store.GetMission(req.MissionID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("mission not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get mission: %w", err)
	}
	if mission.ChallengeID != challengeID {
		return nil, fmt.Errorf("mission not found")
	}

	window, err := s.store.getChallengeWindow(challengeID)
	if err != nil {
		return nil, fmt.Errorf("get challenge: %w", err)
	}
	if window.Status != models.StatusActive {
		return nil, fmt.Errorf("challenge is not active")
	}
	if req.LogDate < window.StartDate || req.LogDate > window.EndDate {
		return nil, fmt.Errorf("log date is outside the challenge period")
	}

	today := s.today()
	if req.LogDate > today {
		return nil, fmt.Errorf("cannot log a future date")
	}
	if mission.InputRestriction == models.RestrictionSameDayOnly && req.LogDate != today {
		return nil, fmt.Errorf("this mission can only be logged on the same day")
	}

	if err := validateValue(mission.MissionType, req.Value); err != nil {
		return nil, err
	}

	log := &models.MissionLog{
		MissionID:   mission.ID,
		UserID:      userID,
		ChallengeID: challengeID,
		LogDate:     req.LogDate,
		Value:       req.Value,
		IsLate:      req.LogDate != today,
	}
	if err := s.store.UpsertLog(log); err != nil {
		return nil, err
	}
	return log, nil
}

func validateValue(missionType string, v models.LogValue) error {
	switch missionType {
	case models.MissionBoolean:
		if !v.IsCompleted() {
			return fmt.Errorf("boolean missions require completed = true")
		}
	case models.MissionNumber:
		if v.CountOrZero() < 0 {
			return fmt.Errorf("count must not be negative")
		}
	}
	return nil
}

// DayLogs returns the caller's logs for one date, defaulting to today.
func (s *Service) DayLogs(userID, challengeID uuid.UUID, logDate string) ([]models.MissionLog, error) {
	if logDate == "" {
		logDate = s.today()
	}
	if _, err := time.Parse(scoring.DateLayout, logDate); err != nil {
		return nil, fmt.Errorf("date must be YYYY-MM-DD")
	}

	member, err := s.store.isParticipant(challengeID, userID)
	if err != nil {
		return nil, fmt.Errorf("check participant: %w", err)
	}
	if !member {
		return nil, fmt.Errorf("not a participant of this challenge")
	}

	return s.store.LogsForDay(challengeID, userID, logDate)
}
