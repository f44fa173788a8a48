package challenges

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/challenge-pot/backend/internal/database"
	"github.com/challenge-pot/backend/internal/missions"
	"github.com/challenge-pot/backend/internal/models"
	"github.com/challenge-pot/backend/internal/scoring"
	"github.com/google/uuid"
)

type Service struct {
	store    *Store
	missions *missions.Store
	loc      *time.Location
}

func NewService(store *Store, missionStore *missions.Store, loc *time.Location) *Service {
	return &Service{store: store, missions: missionStore, loc: loc}
}

func (s *Service) now() time.Time {
	return time.Now().In(s.loc)
}

func (s *Service) today() string {
	return s.now().Format(scoring.DateLayout)
}

// ── Creation ────────────────────────────────────────────

// Create validates the challenge-wizard aggregate and persists the
// challenge, its missions, and the creator's membership. Weight and prize
// validation lives here, at the boundary: the scoring engine itself is
// deliberately permissive. The response carries the created missions with
// their generated IDs.
func (s *Service) Create(creatorID uuid.UUID, req models.CreateChallengeRequest) (*models.ChallengeDetail, error) {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if req.MaxParticipants < 1 {
		return nil, fmt.Errorf("max_participants must be at least 1")
	}
	if req.DurationDays < 1 {
		return nil, fmt.Errorf("duration_days must be at least 1")
	}
	if req.EntryFee < 0 {
		return nil, fmt.Errorf("entry_fee must not be negative")
	}
	if len(req.Missions) == 0 {
		return nil, fmt.Errorf("at least one mission is required")
	}

	start, err := time.Parse(scoring.DateLayout, req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("start_date must be YYYY-MM-DD")
	}
	end := start.AddDate(0, 0, req.DurationDays-1)

	if err := validateWeights(req.ScoringMethod); err != nil {
		return nil, err
	}

	if len(req.PrizeDistribution) == 0 {
		req.PrizeDistribution = scoring.AutoDistribution(req.MaxParticipants)
	}
	if err := validateDistribution(req.PrizeDistribution, req.MaxParticipants); err != nil {
		return nil, err
	}

	for i, m := range req.Missions {
		if strings.TrimSpace(m.Title) == "" {
			return nil, fmt.Errorf("mission %d: title is required", i+1)
		}
		if m.MissionType != models.MissionBoolean && m.MissionType != models.MissionNumber {
			return nil, fmt.Errorf("mission %d: mission_type must be 'boolean' or 'number'", i+1)
		}
		if m.InputRestriction == "" {
			req.Missions[i].InputRestriction = models.RestrictionSameDayOnly
		} else if m.InputRestriction != models.RestrictionSameDayOnly && m.InputRestriction != models.RestrictionFlexible {
			return nil, fmt.Errorf("mission %d: input_restriction must be 'same_day_only' or 'flexible'", i+1)
		}
	}

	status := models.StatusPlanning
	if req.StartDate <= s.today() {
		status = models.StatusActive
	}

	challenge := &models.Challenge{
		Title:             req.Title,
		Description:       strings.TrimSpace(req.Description),
		CreatorID:         creatorID,
		MaxParticipants:   req.MaxParticipants,
		StartDate:         req.StartDate,
		DurationDays:      req.DurationDays,
		EndDate:           end.Format(scoring.DateLayout),
		EntryFee:          req.EntryFee,
		PrizeDistribution: req.PrizeDistribution,
		ScoringMethod:     req.ScoringMethod,
		Status:            status,
	}

	// Invite codes can collide; retry with a fresh code a few times.
	var createErr error
	for attempt := 0; attempt < 5; attempt++ {
		challenge.InviteCode = database.GenerateInviteCode()
		created, err := s.store.CreateWithMissions(challenge, req.Missions)
		if err == nil {
			return &models.ChallengeDetail{Challenge: *challenge, Missions: created}, nil
		}
		createErr = err
		if !strings.Contains(createErr.Error(), "challenges_invite_code_key") {
			break
		}
	}
	return nil, fmt.Errorf("create challenge: %w", createErr)
}

func validateWeights(w models.ScoringWeights) error {
	if w.Consistency < 0 || w.Volume < 0 || w.Quality < 0 || w.StreakBonus < 0 {
		return fmt.Errorf("scoring weights must not be negative")
	}
	sum := w.Consistency + w.Volume
	if w.EnableQuality {
		sum += w.Quality
	}
	if sum != 100 {
		return fmt.Errorf("scoring weights must sum to 100, got %.0f", sum)
	}
	return nil
}

func validateDistribution(dist models.PrizeDistribution, maxParticipants int) error {
	if len(dist) > maxParticipants {
		return fmt.Errorf("prize distribution has more ranks than participants")
	}
	sum := 0
	for _, pct := range dist {
		if pct < 0 {
			return fmt.Errorf("prize percentages must not be negative")
		}
		sum += pct
	}
	if sum != 100 {
		return fmt.Errorf("prize distribution must sum to 100, got %d", sum)
	}
	return nil
}

// ── Lookup and membership ───────────────────────────────

// Get resolves a challenge by id, falling back to invite-code lookup when
// the path segment is not a UUID (the web client passes either).
func (s *Service) Get(idOrCode string) (*models.Challenge, error) {
	if id, err := uuid.Parse(idOrCode); err == nil {
		c, err := s.store.GetByID(id)
		if err == nil {
			return c, nil
		}
		if err != sql.ErrNoRows {
			return nil, fmt.Errorf("get challenge: %w", err)
		}
	}

	c, err := s.store.GetByInviteCode(strings.ToUpper(idOrCode))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("challenge not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get challenge: %w", err)
	}
	return c, nil
}

func (s *Service) ListMine(userID uuid.UUID) ([]models.ChallengeSummary, error) {
	return s.store.ListForUser(userID)
}

func (s *Service) Participants(challengeID uuid.UUID) ([]models.Participant, error) {
	return s.store.GetParticipants(challengeID)
}

// Join adds the caller to a challenge found by invite code.
func (s *Service) Join(userID uuid.UUID, inviteCode string) (*models.Challenge, error) {
	inviteCode = strings.ToUpper(strings.TrimSpace(inviteCode))
	if len(inviteCode) != 6 {
		return nil, fmt.Errorf("invite code must be 6 characters")
	}

	challenge, err := s.store.GetByInviteCode(inviteCode)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("challenge not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get challenge: %w", err)
	}

	if challenge.Status != models.StatusPlanning && challenge.Status != models.StatusActive {
		return nil, fmt.Errorf("challenge is no longer open")
	}

	count, err := s.store.CountParticipants(challenge.ID)
	if err != nil {
		return nil, fmt.Errorf("count participants: %w", err)
	}
	if count >= challenge.MaxParticipants {
		return nil, fmt.Errorf("challenge is full")
	}

	if err := s.store.AddParticipant(challenge.ID, userID); err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return nil, fmt.Errorf("already joined this challenge")
		}
		return nil, fmt.Errorf("join challenge: %w", err)
	}
	return challenge, nil
}

// ── Rankings and results ────────────────────────────────

// Rankings runs the scoring engine over the challenge's full log set and
// returns the live leaderboard. Participant order is join order, which
// fixes the tie-break: equal scores keep it.
func (s *Service) Rankings(challengeID, callerID uuid.UUID) (*models.RankingsResponse, error) {
	challenge, _, entries, err := s.rank(challengeID, callerID)
	if err != nil {
		return nil, err
	}

	return &models.RankingsResponse{
		ChallengeID: challenge.ID,
		Status:      challenge.Status,
		Entries:     entries,
	}, nil
}

// Results returns the final standings with aggregate stats and the prize
// split. Only available once the challenge has completed.
func (s *Service) Results(challengeID, callerID uuid.UUID) (*models.ResultsResponse, error) {
	challenge, participants, entries, err := s.rank(challengeID, callerID)
	if err != nil {
		return nil, err
	}
	if challenge.Status != models.StatusCompleted {
		return nil, fmt.Errorf("challenge is not completed yet")
	}

	pool := scoring.PrizePool(challenge.EntryFee, len(participants))

	ranked := make([]models.ParticipantScore, len(entries))
	totalLogs := 0
	for i, e := range entries {
		ranked[i] = e.ParticipantScore
		totalLogs += e.TotalCompleted
	}

	awards := scoring.DistributePrizes(ranked, challenge.PrizeDistribution, pool)
	names := make(map[uuid.UUID]string, len(participants))
	for _, p := range participants {
		names[p.UserID] = p.Nickname
	}
	for i := range awards {
		awards[i].Nickname = names[awards[i].UserID]
	}

	missionList, err := s.missions.ListByChallenge(challengeID)
	if err != nil {
		return nil, fmt.Errorf("list missions: %w", err)
	}

	totalDays := challenge.DurationDays
	totalPossible := totalDays * len(missionList) * len(participants)
	avgRate := 0.0
	if totalPossible > 0 {
		avgRate = float64(totalLogs) / float64(totalPossible) * 100
	}

	return &models.ResultsResponse{
		Challenge: *challenge,
		Entries:   entries,
		Stats: models.ChallengeStats{
			TotalDays:         totalDays,
			TotalLogs:         totalLogs,
			AvgCompletionRate: avgRate,
			PrizePool:         pool,
		},
		Prizes: awards,
	}, nil
}

// rank loads everything the engine needs, runs it, and enriches the
// output with display fields.
func (s *Service) rank(challengeID, callerID uuid.UUID) (*models.Challenge, []models.Participant, []models.RankingEntry, error) {
	member, err := s.store.IsParticipant(challengeID, callerID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("check participant: %w", err)
	}
	if !member {
		return nil, nil, nil, fmt.Errorf("not a participant of this challenge")
	}

	challenge, err := s.store.GetByID(challengeID)
	if err == sql.ErrNoRows {
		return nil, nil, nil, fmt.Errorf("challenge not found")
	}
	if err != nil {
		return nil, nil, nil, fmt.Errorf("get challenge: %w", err)
	}

	missionList, err := s.missions.ListByChallenge(challengeID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("list missions: %w", err)
	}
	participants, err := s.store.GetParticipants(challengeID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("get participants: %w", err)
	}
	logs, err := s.missions.LogsForChallenge(challengeID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("get logs: %w", err)
	}

	start, err := time.Parse(scoring.DateLayout, challenge.StartDate)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("bad start date %q: %w", challenge.StartDate, err)
	}
	end, err := time.Parse(scoring.DateLayout, challenge.EndDate)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("bad end date %q: %w", challenge.EndDate, err)
	}

	ids := make([]uuid.UUID, len(participants))
	byID := make(map[uuid.UUID]models.Participant, len(participants))
	for i, p := range participants {
		ids[i] = p.UserID
		byID[p.UserID] = p
	}

	engine := scoring.NewEngine(missionList, challenge.ScoringMethod, start, end)
	scores := engine.ComputeRankings(logs, ids, s.now())

	entries := make([]models.RankingEntry, len(scores))
	for i, sc := range scores {
		p := byID[sc.UserID]
		entries[i] = models.RankingEntry{
			Rank:             i + 1,
			ParticipantScore: sc,
			Nickname:         p.Nickname,
			ProfileID:        p.ProfileID,
			IsCurrentUser:    sc.UserID == callerID,
		}
	}
	return challenge, participants, entries, nil
}

// ── Lifecycle worker ────────────────────────────────────

// StartStatusWorker sweeps challenge statuses hourly: planning becomes
// active on the start date, active becomes completed after the end date.
func (s *Service) StartStatusWorker(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	log.Println("[challenges] Status worker started")
	s.runStatusSweep()

	for {
		select {
		case <-ctx.Done():
			log.Println("[challenges] Status worker shutting down")
			return
		case <-ticker.C:
			s.runStatusSweep()
		}
	}
}

func (s *Service) runStatusSweep() {
	rows, err := s.store.listForStatusSweep()
	if err != nil {
		log.Printf("[challenges] status sweep: %v", err)
		return
	}

	today := s.today()
	for _, r := range rows {
		switch {
		case r.Status == models.StatusPlanning && r.StartDate <= today:
			if err := s.store.UpdateStatus(r.ID, models.StatusActive); err != nil {
				log.Printf("[challenges] activate %s: %v", r.ID, err)
			} else {
				log.Printf("[challenges] challenge %s is now active", r.ID)
			}
		case r.Status == models.StatusActive && r.EndDate < today:
			if err := s.store.UpdateStatus(r.ID, models.StatusCompleted); err != nil {
				log.Printf("[challenges] complete %s: %v", r.ID, err)
			} else {
				log.Printf("[challenges] challenge %s is now completed", r.ID)
			}
		}
	}
}
