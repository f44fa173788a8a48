package missions

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/challenge-pot/backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var missionCols = []string{
	"id", "challenge_id", "title", "description", "mission_type",
	"input_restriction", "success_conditions", "order_index", "created_at",
}

func TestListByChallenge(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewStore(db)
	challengeID := uuid.New()
	now := time.Now()

	rows := sqlmock.NewRows(missionCols).
		AddRow(uuid.New().String(), challengeID.String(), "Push-ups", "", "number", "flexible", "", 0, now).
		AddRow(uuid.New().String(), challengeID.String(), "No sugar", "", "boolean", "same_day_only", "", 1, now)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM missions WHERE challenge_id = $1`)).
		WithArgs(challengeID).
		WillReturnRows(rows)

	missions, err := store.ListByChallenge(challengeID)
	require.NoError(t, err)
	require.Len(t, missions, 2)
	assert.Equal(t, "Push-ups", missions[0].Title)
	assert.Equal(t, models.MissionBoolean, missions[1].MissionType)
	assert.Equal(t, 1, missions[1].OrderIndex)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertLog(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewStore(db)
	logID := uuid.New()
	now := time.Now()
	completed := true

	l := &models.MissionLog{
		MissionID:   uuid.New(),
		UserID:      uuid.New(),
		ChallengeID: uuid.New(),
		LogDate:     "2026-09-01",
		Value:       models.LogValue{Completed: &completed},
		IsLate:      false,
	}

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO mission_logs`)).
		WithArgs(l.MissionID, l.UserID, l.ChallengeID, l.LogDate, sqlmock.AnyArg(), l.IsLate).
		WillReturnRows(sqlmock.NewRows([]string{"id", "logged_at"}).AddRow(logID.String(), now))

	require.NoError(t, store.UpsertLog(l))
	assert.Equal(t, logID, l.ID)
	assert.WithinDuration(t, now, l.LoggedAt, time.Second)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogsForChallenge(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewStore(db)
	challengeID := uuid.New()
	userID := uuid.New()
	now := time.Now()

	cols := []string{"id", "mission_id", "user_id", "challenge_id", "to_char", "value", "is_late", "logged_at"}
	rows := sqlmock.NewRows(cols).
		AddRow(uuid.New().String(), uuid.New().String(), userID.String(), challengeID.String(),
			"2026-09-01", []byte(`{"completed":true}`), false, now).
		AddRow(uuid.New().String(), uuid.New().String(), userID.String(), challengeID.String(),
			"2026-09-02", []byte(`{"count":42}`), true, now)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM mission_logs`)).
		WithArgs(challengeID).
		WillReturnRows(rows)

	logs, err := store.LogsForChallenge(challengeID)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.True(t, logs[0].Value.IsCompleted())
	assert.False(t, logs[0].IsLate)
	assert.Equal(t, 42.0, logs[1].Value.CountOrZero())
	assert.True(t, logs[1].IsLate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogsForDayEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewStore(db)
	challengeID := uuid.New()
	userID := uuid.New()

	cols := []string{"id", "mission_id", "user_id", "challenge_id", "to_char", "value", "is_late", "logged_at"}
	mock.ExpectQuery(regexp.QuoteMeta(`FROM mission_logs`)).
		WithArgs(challengeID, userID, "2026-09-01").
		WillReturnRows(sqlmock.NewRows(cols))

	logs, err := store.LogsForDay(challengeID, userID, "2026-09-01")
	require.NoError(t, err)
	assert.NotNil(t, logs)
	assert.Empty(t, logs)
}

func TestGetChallengeWindow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewStore(db)
	challengeID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM challenges WHERE id = $1`)).
		WithArgs(challengeID).
		WillReturnRows(sqlmock.NewRows([]string{"start", "end", "status"}).
			AddRow("2026-09-01", "2026-09-30", "active"))

	w, err := store.getChallengeWindow(challengeID)
	require.NoError(t, err)
	assert.Equal(t, "2026-09-01", w.StartDate)
	assert.Equal(t, "2026-09-30", w.EndDate)
	assert.Equal(t, "active", w.Status)
}
