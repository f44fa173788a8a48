package missions

import (
	"database/sql"
	"fmt"

	"github.com/challenge-pot/backend/internal/models"
	"github.com/google/uuid"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// ── Mission definitions ─────────────────────────────────

func (s *Store) ListByChallenge(challengeID uuid.UUID) ([]models.Mission, error) {
	rows, err := s.db.Query(
		`SELECT id, challenge_id, title, description, mission_type, input_restriction, success_conditions, order_index, created_at
		 FROM missions WHERE challenge_id = $1
		 ORDER BY order_index`,
		challengeID,
	)
	if err != nil {
		return nil, fmt.Errorf("list missions: %w", err)
	}
	defer rows.Close()

	var missions []models.Mission
	for rows.Next() {
		var m models.Mission
		if err := rows.Scan(&m.ID, &m.ChallengeID, &m.Title, &m.Description, &m.MissionType,
			&m.InputRestriction, &m.SuccessConditions, &m.OrderIndex, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan mission: %w", err)
		}
		missions = append(missions, m)
	}
	if missions == nil {
		missions = []models.Mission{}
	}
	return missions, rows.Err()
}

func (s *Store) GetMission(id uuid.UUID) (*models.Mission, error) {
	var m models.Mission
	err := s.db.QueryRow(
		`SELECT id, challenge_id, title, description, mission_type, input_restriction, success_conditions, order_index, created_at
		 FROM missions WHERE id = $1`,
		id,
	).Scan(&m.ID, &m.ChallengeID, &m.Title, &m.Description, &m.MissionType,
		&m.InputRestriction, &m.SuccessConditions, &m.OrderIndex, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ── Mission logs ────────────────────────────────────────

// UpsertLog writes one completion record. Re-logging the same
// (mission, user, date) replaces the previous value; IsLate must already
// be computed by the caller against the reference timezone.
func (s *Store) UpsertLog(l *models.MissionLog) error {
	err := s.db.QueryRow(
		`INSERT INTO mission_logs (mission_id, user_id, challenge_id, log_date, value, is_late)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (mission_id, user_id, log_date)
		 DO UPDATE SET value = EXCLUDED.value, is_late = EXCLUDED.is_late, logged_at = NOW()
		 RETURNING id, logged_at`,
		l.MissionID, l.UserID, l.ChallengeID, l.LogDate, l.Value, l.IsLate,
	).Scan(&l.ID, &l.LoggedAt)
	if err != nil {
		return fmt.Errorf("upsert log: %w", err)
	}
	return nil
}

func (s *Store) LogsForDay(challengeID, userID uuid.UUID, logDate string) ([]models.MissionLog, error) {
	rows, err := s.db.Query(
		`SELECT id, mission_id, user_id, challenge_id, to_char(log_date, 'YYYY-MM-DD'), value, is_late, logged_at
		 FROM mission_logs
		 WHERE challenge_id = $1 AND user_id = $2 AND log_date = $3`,
		challengeID, userID, logDate,
	)
	if err != nil {
		return nil, fmt.Errorf("get day logs: %w", err)
	}
	defer rows.Close()
	return scanLogs(rows)
}

// LogsForChallenge returns every participant's logs, the scoring engine's
// full input set.
func (s *Store) LogsForChallenge(challengeID uuid.UUID) ([]models.MissionLog, error) {
	rows, err := s.db.Query(
		`SELECT id, mission_id, user_id, challenge_id, to_char(log_date, 'YYYY-MM-DD'), value, is_late, logged_at
		 FROM mission_logs
		 WHERE challenge_id = $1
		 ORDER BY log_date, logged_at`,
		challengeID,
	)
	if err != nil {
		return nil, fmt.Errorf("get challenge logs: %w", err)
	}
	defer rows.Close()
	return scanLogs(rows)
}

func scanLogs(rows *sql.Rows) ([]models.MissionLog, error) {
	var logs []models.MissionLog
	for rows.Next() {
		var l models.MissionLog
		if err := rows.Scan(&l.ID, &l.MissionID, &l.UserID, &l.ChallengeID,
			&l.LogDate, &l.Value, &l.IsLate, &l.LoggedAt); err != nil {
			return nil, fmt.Errorf("scan log: %w", err)
		}
		logs = append(logs, l)
	}
	if logs == nil {
		logs = []models.MissionLog{}
	}
	return logs, rows.Err()
}

// ── Cross-table lookups ─────────────────────────────────

// challengeWindow is the slice of challenge state the log-submit path
// needs.
type challengeWindow struct {
	StartDate string
	EndDate   string
	Status    string
}

func (s *Store) getChallengeWindow(challengeID uuid.UUID) (*challengeWindow, error) {
	var w challengeWindow
	err := s.db.QueryRow(
		`SELECT to_char(start_date, 'YYYY-MM-DD'), to_char(end_date, 'YYYY-MM-DD'), status
		 FROM challenges WHERE id = $1`,
		challengeID,
	).Scan(&w.StartDate, &w.EndDate, &w.Status)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (s *Store) isParticipant(challengeID, userID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM challenge_participants WHERE challenge_id = $1 AND user_id = $2)`,
		challengeID, userID,
	).Scan(&exists)
	return exists, err
}
