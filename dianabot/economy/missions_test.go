package economy

import (
	"testing"
	"time"

	"github.com/dianabot/dianabot/dianabot/database/models"
)

func Test_WindowStart(t *testing.T) {
	// 2025-06-04 is a Wednesday.
	wednesday := time.Date(2025, 6, 4, 15, 30, 0, 0, time.UTC)
	sunday := time.Date(2025, 6, 8, 23, 59, 0, 0, time.UTC)
	monday := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		missionType string
		now         time.Time
		want        time.Time
	}{
		{
			"daily truncates to utc midnight",
			models.MissionDaily, wednesday,
			time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC),
		},
		{
			"weekly snaps to monday",
			models.MissionWeekly, wednesday,
			monday,
		},
		{
			"sunday belongs to the week started the previous monday",
			models.MissionWeekly, sunday,
			monday,
		},
		{
			"monday midnight is its own week start",
			models.MissionWeekly, monday,
			monday,
		},
		{
			"one-time missions have no window",
			models.MissionOneTime, wednesday,
			time.Time{},
		},
		{
			"streak missions have no window",
			models.MissionStreak, wednesday,
			time.Time{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WindowStart(tt.missionType, tt.now); !got.Equal(tt.want) {
				t.Errorf("WindowStart(%s, %v) = %v, want %v", tt.missionType, tt.now, got, tt.want)
			}
		})
	}
}
