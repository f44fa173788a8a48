package missions

import (
	"testing"
	"time"

	"github.com/challenge-pot/backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestLogMissionRejectsBadDate(t *testing.T) {
	s := NewService(nil, time.UTC)

	_, err := s.LogMission(uuid.New(), uuid.New(), models.LogMissionRequest{
		MissionID: uuid.New(),
		LogDate:   "Sept 1, 2026",
	})
	assert.EqualError(t, err, "log_date must be YYYY-MM-DD")
}

func TestValidateValue(t *testing.T) {
	yes := true
	no := false
	ten := 10.0
	negative := -1.0

	tests := []struct {
		name        string
		missionType string
		value       models.LogValue
		wantErr     bool
	}{
		{"boolean completed", models.MissionBoolean, models.LogValue{Completed: &yes}, false},
		{"boolean not completed", models.MissionBoolean, models.LogValue{Completed: &no}, true},
		{"boolean missing flag", models.MissionBoolean, models.LogValue{}, true},
		{"number with count", models.MissionNumber, models.LogValue{Count: &ten}, false},
		{"number zero count", models.MissionNumber, models.LogValue{}, false},
		{"number negative count", models.MissionNumber, models.LogValue{Count: &negative}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateValue(tt.missionType, tt.value)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
