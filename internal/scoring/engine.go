// Package scoring converts raw daily mission logs into per-participant
// scores, streaks and a final ranking. It is a pure computation: no I/O,
// no clock reads ("today" is an explicit parameter), no shared state.
package scoring

import (
	"math"
	"sort"
	"time"

	"github.com/challenge-pot/backend/internal/models"
	"github.com/google/uuid"
)

// DateLayout is the calendar-date format used for log dates, range
// boundaries and map keys throughout the engine. Dates in this format
// compare correctly as plain strings.
const DateLayout = "2006-01-02"

// Engine scores one challenge: a fixed mission list, weight configuration
// and inclusive date range. It is safe for concurrent use.
//
// The engine does not validate its configuration. Weights that do not sum
// to 100 or a start date after the end date are caller errors; the
// arithmetic stays permissive and every division by zero degrades to 0.
type Engine struct {
	missions []models.Mission
	weights  models.ScoringWeights
	dates    []string
}

func NewEngine(missions []models.Mission, weights models.ScoringWeights, startDate, endDate time.Time) *Engine {
	return &Engine{
		missions: missions,
		weights:  weights,
		dates:    challengeDates(startDate, endDate),
	}
}

// challengeDates generates every calendar date from start to end inclusive.
// An inverted range yields no dates.
func challengeDates(start, end time.Time) []string {
	var dates []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(DateLayout))
	}
	return dates
}

// ComputeRankings scores every participant independently and returns the
// list sorted descending by total score. Ties keep the relative order of
// participantIDs, so equal scores never reorder arbitrarily.
//
// today anchors the streak calculation; it is snapshotted once here so a
// day rollover mid-computation cannot split a streak. Logs for users not
// in participantIDs are ignored.
func (e *Engine) ComputeRankings(logs []models.MissionLog, participantIDs []uuid.UUID, today time.Time) []models.ParticipantScore {
	todayKey := today.Format(DateLayout)

	byUser := make(map[uuid.UUID][]models.MissionLog)
	for _, l := range logs {
		byUser[l.UserID] = append(byUser[l.UserID], l)
	}

	scores := make([]models.ParticipantScore, 0, len(participantIDs))
	for _, id := range participantIDs {
		scores = append(scores, e.scoreParticipant(id, byUser[id], todayKey))
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].TotalScore > scores[j].TotalScore
	})
	return scores
}

func (e *Engine) scoreParticipant(userID uuid.UUID, logs []models.MissionLog, todayKey string) models.ParticipantScore {
	logs = dedupeLatest(logs)

	totalDays := len(e.dates)
	totalPossible := totalDays * len(e.missions)

	// Out-of-range logs count toward the raw totals but never enter the
	// fixed day-range iteration below.
	totalCompleted := len(logs)
	lateSubmissions := 0
	for _, l := range logs {
		if l.IsLate {
			lateSubmissions++
		}
	}

	perDay := make(map[string]int)
	for _, l := range logs {
		perDay[l.LogDate]++
	}

	completionRate := 0
	if totalPossible > 0 {
		completionRate = int(math.Round(float64(totalCompleted) / float64(totalPossible) * 100))
	}

	currentStreak, maxStreak := e.streaks(perDay, todayKey)

	consistencyScore := e.consistencyScore(currentStreak, maxStreak, totalDays)
	volumeScore := volumeScore(totalCompleted, totalPossible)
	qualityScore := e.qualityScore(totalCompleted, lateSubmissions)
	streakBonusScore := float64(currentStreak) * e.weights.StreakBonus

	total := consistencyScore*e.weights.Consistency/100 +
		volumeScore*e.weights.Volume/100 +
		streakBonusScore
	if e.weights.EnableQuality {
		total += qualityScore * e.weights.Quality / 100
	}

	return models.ParticipantScore{
		UserID:              userID,
		ConsistencyScore:    consistencyScore,
		VolumeScore:         volumeScore,
		QualityScore:        qualityScore,
		StreakBonusScore:    streakBonusScore,
		TotalScore:          int(math.Round(total)),
		CurrentStreak:       currentStreak,
		MaxStreak:           maxStreak,
		TotalCompleted:      totalCompleted,
		CompletionRate:      completionRate,
		LateSubmissions:     lateSubmissions,
		DailyCompletionRate: e.dailyCompletionRates(perDay),
	}
}

// dedupeLatest keeps only the newest log per (mission, date). Storage
// already enforces this uniqueness; the engine resolves leftovers by
// latest logged_at rather than trusting the precondition.
func dedupeLatest(logs []models.MissionLog) []models.MissionLog {
	if len(logs) < 2 {
		return logs
	}

	type key struct {
		mission uuid.UUID
		date    string
	}
	latest := make(map[key]models.MissionLog, len(logs))
	order := make([]key, 0, len(logs))
	for _, l := range logs {
		k := key{l.MissionID, l.LogDate}
		prev, seen := latest[k]
		if !seen {
			order = append(order, k)
			latest[k] = l
			continue
		}
		if l.LoggedAt.After(prev.LoggedAt) {
			latest[k] = l
		}
	}

	if len(order) == len(logs) {
		return logs
	}
	out := make([]models.MissionLog, 0, len(order))
	for _, k := range order {
		out = append(out, latest[k])
	}
	return out
}

// streaks computes the current and best run of "complete" days. A day is
// complete only when every mission was logged that day. Dates after today
// are skipped; the current streak counts back from the most recent
// eligible date and stops at the first incomplete day.
func (e *Engine) streaks(perDay map[string]int, todayKey string) (current, max int) {
	if len(e.missions) == 0 {
		return 0, 0
	}

	for i := len(e.dates) - 1; i >= 0; i-- {
		date := e.dates[i]
		if date > todayKey {
			continue
		}
		if perDay[date] != len(e.missions) {
			break
		}
		current++
	}

	run := 0
	for _, date := range e.dates {
		if date > todayKey {
			continue
		}
		if perDay[date] == len(e.missions) {
			run++
			if run > max {
				max = run
			}
		} else {
			run = 0
		}
	}
	return current, max
}

// consistencyScore blends recent momentum (70%) with the historical best
// run (30%), normalized by challenge length and capped at 100.
func (e *Engine) consistencyScore(currentStreak, maxStreak, totalDays int) float64 {
	if totalDays == 0 {
		return 0
	}
	days := float64(totalDays)
	score := (float64(currentStreak)/days*70 + float64(maxStreak)/days*30) * 100
	return math.Min(100, score)
}

// volumeScore is pure throughput relative to the maximum achievable.
func volumeScore(completed, totalPossible int) float64 {
	if totalPossible == 0 {
		return 0
	}
	return math.Min(100, float64(completed)/float64(totalPossible)*100)
}

// qualityScore is the on-time submission rate, a proxy for same-day
// diligence. Always 0 while quality scoring is disabled.
func (e *Engine) qualityScore(totalCompleted, lateSubmissions int) float64 {
	if !e.weights.EnableQuality || totalCompleted == 0 {
		return 0
	}
	onTime := float64(totalCompleted - lateSubmissions)
	return math.Min(100, onTime/float64(totalCompleted)*100)
}

// dailyCompletionRates is a per-day diagnostic series: the percentage of
// missions logged on each date of the range. Not used in scoring.
func (e *Engine) dailyCompletionRates(perDay map[string]int) map[string]int {
	rates := make(map[string]int, len(e.dates))
	for _, date := range e.dates {
		if len(e.missions) == 0 {
			rates[date] = 0
			continue
		}
		rates[date] = int(math.Round(float64(perDay[date]) / float64(len(e.missions)) * 100))
	}
	return rates
}

// ── Score analysis ──────────────────────────────────────

// ComponentBreakdown shows how one weighted component contributed to the
// total score.
type ComponentBreakdown struct {
	Score        float64 `json:"score"`
	Weight       float64 `json:"weight"`
	Contribution int     `json:"contribution"`
}

type ScoreBreakdown struct {
	Consistency ComponentBreakdown `json:"consistency"`
	Volume      ComponentBreakdown `json:"volume"`
	Quality     ComponentBreakdown `json:"quality"`
	StreakBonus struct {
		Streak       int     `json:"streak"`
		Contribution float64 `json:"contribution"`
	} `json:"streak_bonus"`
}

// Breakdown splits a participant's total into per-component contributions.
func (e *Engine) Breakdown(score models.ParticipantScore) ScoreBreakdown {
	var b ScoreBreakdown
	b.Consistency = ComponentBreakdown{
		Score:        score.ConsistencyScore,
		Weight:       e.weights.Consistency,
		Contribution: int(math.Round(score.ConsistencyScore * e.weights.Consistency / 100)),
	}
	b.Volume = ComponentBreakdown{
		Score:        score.VolumeScore,
		Weight:       e.weights.Volume,
		Contribution: int(math.Round(score.VolumeScore * e.weights.Volume / 100)),
	}
	b.Quality = ComponentBreakdown{
		Score:  score.QualityScore,
		Weight: e.weights.Quality,
	}
	if e.weights.EnableQuality {
		b.Quality.Contribution = int(math.Round(score.QualityScore * e.weights.Quality / 100))
	}
	b.StreakBonus.Streak = score.CurrentStreak
	b.StreakBonus.Contribution = score.StreakBonusScore
	return b
}

// RankChange describes a participant's rank movement between two ranking
// snapshots. Change is positive when the participant moved up.
type RankChange struct {
	Previous int `json:"previous"`
	Current  int `json:"current"`
	Change   int `json:"change"`
}

// RankingChanges compares two ranked lists. Participants absent from the
// previous snapshot are treated as holding their current rank.
func RankingChanges(previous, current []models.ParticipantScore) map[uuid.UUID]RankChange {
	prevRank := make(map[uuid.UUID]int, len(previous))
	for i, s := range previous {
		prevRank[s.UserID] = i + 1
	}

	changes := make(map[uuid.UUID]RankChange, len(current))
	for i, s := range current {
		rank := i + 1
		prev, ok := prevRank[s.UserID]
		if !ok {
			prev = rank
		}
		changes[s.UserID] = RankChange{
			Previous: prev,
			Current:  rank,
			Change:   prev - rank,
		}
	}
	return changes
}
