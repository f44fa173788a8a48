package challenges

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

const challengeColumns = `id, title, description, creator_id, invite_code, max_participants,
	        to_char(start_date, 'YYYY-MM-DD'), duration_days, to_char(end_date, 'YYYY-MM-DD'),
	        entry_fee, prize_distribution, scoring_method, status, created_at, updated_at`

func scanChallenge(row *sql.Row) (*models.Challenge, error) {
	var c models.Challenge
	err := row.Scan(&c.ID, &c.Title, &c.Description, &c.CreatorID, &c.InviteCode, &c.MaxParticipants,
		&c.StartDate, &c.DurationDays, &c.EndDate,
		&c.EntryFee, &c.PrizeDistribution, &c.ScoringMethod, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ── Challenge CRUD ──────────────────────────────────────

// CreateWithMissions inserts the challenge and its mission list in one
// transaction. Missions get their order index from list position.
func (s *Store) CreateWithMissions(c *models.Challenge, missions []models.CreateMissionRequest) ([]models.Mission, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRow(
		`INSERT INTO challenges (title, description, creator_id, invite_code, max_participants,
		     start_date, duration_days, end_date, entry_fee, prize_distribution, scoring_method, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING id, created_at, updated_at`,
		c.Title, c.Description, c.CreatorID, c.InviteCode, c.MaxParticipants,
		c.StartDate, c.DurationDays, c.EndDate, c.EntryFee, c.PrizeDistribution, c.ScoringMethod, c.Status,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert challenge: %w", err)
	}

	created := make([]models.Mission, 0, len(missions))
	for i, m := range missions {
		var mission models.Mission
		mission.ChallengeID = c.ID
		mission.Title = m.Title
		mission.Description = m.Description
		mission.MissionType = m.MissionType
		mission.InputRestriction = m.InputRestriction
		mission.SuccessConditions = m.SuccessConditions
		mission.OrderIndex = i

		err = tx.QueryRow(
			`INSERT INTO missions (challenge_id, title, description, mission_type, input_restriction, success_conditions, order_index)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 RETURNING id, created_at`,
			c.ID, m.Title, m.Description, m.MissionType, m.InputRestriction, m.SuccessConditions, i,
		).Scan(&mission.ID, &mission.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("insert mission %d: %w", i, err)
		}
		created = append(created, mission)
	}

	// Creator joins their own challenge.
	_, err = tx.Exec(
		`INSERT INTO challenge_participants (challenge_id, user_id) VALUES ($1, $2)`,
		c.ID, c.CreatorID,
	)
	if err != nil {
		return nil, fmt.Errorf("add creator: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return created, nil
}

func (s *Store) GetByID(id uuid.UUID) (*models.Challenge, error) {
	return scanChallenge(s.db.QueryRow(
		`SELECT `+challengeColumns+` FROM challenges WHERE id = $1`, id,
	))
}

func (s *Store) GetByInviteCode(code string) (*models.Challenge, error) {
	return scanChallenge(s.db.QueryRow(
		`SELECT `+challengeColumns+` FROM challenges WHERE invite_code = $1`, code,
	))
}

func (s *Store) ListForUser(userID uuid.UUID) ([]models.ChallengeSummary, error) {
	rows, err := s.db.Query(
		`SELECT c.id, c.title, c.description, c.creator_id, c.invite_code, c.max_participants,
		        to_char(c.start_date, 'YYYY-MM-DD'), c.duration_days, to_char(c.end_date, 'YYYY-MM-DD'),
		        c.entry_fee, c.prize_distribution, c.scoring_method, c.status, c.created_at, c.updated_at,
		        (SELECT COUNT(*) FROM challenge_participants p2 WHERE p2.challenge_id = c.id)
		 FROM challenges c
		 JOIN challenge_participants p ON p.challenge_id = c.id
		 WHERE p.user_id = $1
		 ORDER BY c.start_date DESC, c.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list challenges: %w", err)
	}
	defer rows.Close()

	var list []models.ChallengeSummary
	for rows.Next() {
		var c models.ChallengeSummary
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.CreatorID, &c.InviteCode, &c.MaxParticipants,
			&c.StartDate, &c.DurationDays, &c.EndDate,
			&c.EntryFee, &c.PrizeDistribution, &c.ScoringMethod, &c.Status, &c.CreatedAt, &c.UpdatedAt,
			&c.ParticipantCount); err != nil {
			return nil, fmt.Errorf("scan challenge: %w", err)
		}
		list = append(list, c)
	}
	if list == nil {
		list = []models.ChallengeSummary{}
	}
	return list, rows.Err()
}

func (s *Store) UpdateStatus(id uuid.UUID, status string) error {
	_, err := s.db.Exec(
		`UPDATE challenges SET status = $2, updated_at = NOW() WHERE id = $1`,
		id, status,
	)
	return err
}

// statusSweepRow feeds the lifecycle worker.
type statusSweepRow struct {
	ID        uuid.UUID
	StartDate string
	EndDate   string
	Status    string
}

func (s *Store) listForStatusSweep() ([]statusSweepRow, error) {
	rows, err := s.db.Query(
		`SELECT id, to_char(start_date, 'YYYY-MM-DD'), to_char(end_date, 'YYYY-MM-DD'), status
		 FROM challenges WHERE status IN ('planning', 'active')`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []statusSweepRow
	for rows.Next() {
		var r statusSweepRow
		if err := rows.Scan(&r.ID, &r.StartDate, &r.EndDate, &r.Status); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ── Participants ────────────────────────────────────────

func (s *Store) AddParticipant(challengeID, userID uuid.UUID) error {
	_, err := s.db.Exec(
		`INSERT INTO challenge_participants (challenge_id, user_id) VALUES ($1, $2)`,
		challengeID, userID,
	)
	return err
}

func (s *Store) IsParticipant(challengeID, userID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM challenge_participants WHERE challenge_id = $1 AND user_id = $2)`,
		challengeID, userID,
	).Scan(&exists)
	return exists, err
}

func (s *Store) CountParticipants(challengeID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM challenge_participants WHERE challenge_id = $1`,
		challengeID,
	).Scan(&count)
	return count, err
}

func (s *Store) GetParticipants(challengeID uuid.UUID) ([]models.Participant, error) {
	rows, err := s.db.Query(
		`SELECT p.id, p.user_id, u.nickname, u.profile_id, p.joined_at
		 FROM challenge_participants p
		 JOIN users u ON u.id = p.user_id
		 WHERE p.challenge_id = $1
		 ORDER BY p.joined_at`,
		challengeID,
	)
	if err != nil {
		return nil, fmt.Errorf("get participants: %w", err)
	}
	defer rows.Close()

	var participants []models.Participant
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.UserID, &p.Nickname, &p.ProfileID, &p.JoinedAt); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	if participants == nil {
		participants = []models.Participant{}
	}
	return participants, rows.Err()
}
