package economy

import (
	"context"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/dianabot/dianabot/dianabot/database/models"
	"github.com/dianabot/dianabot/dianabot/database/repositories/mock"
)

func Test_StreakService_Touch(t *testing.T) {
	now := time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)
	day := func(offset int) time.Time {
		return time.Date(2025, 6, 10+offset, 0, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name        string
		stored      *models.UserStreak
		wantCurrent int
		wantLongest int
		wantCounted bool
	}{
		{
			"first reaction starts at one",
			&models.UserStreak{UserID: 7},
			1, 1, true,
		},
		{
			"same day is a no-op",
			&models.UserStreak{UserID: 7, CurrentStreak: 4, LongestStreak: 6, LastReactionDate: day(0)},
			4, 6, false,
		},
		{
			"next day extends",
			&models.UserStreak{UserID: 7, CurrentStreak: 4, LongestStreak: 6, LastReactionDate: day(-1)},
			5, 6, true,
		},
		{
			"extension can set a new record",
			&models.UserStreak{UserID: 7, CurrentStreak: 6, LongestStreak: 6, LastReactionDate: day(-1)},
			7, 7, true,
		},
		{
			"a missed day resets to one",
			&models.UserStreak{UserID: 7, CurrentStreak: 9, LongestStreak: 9, LastReactionDate: day(-3)},
			1, 9, true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			streaks := mock.NewMockStreakRepository(gomock.NewController(t))
			streaks.EXPECT().GetOrCreate(gomock.Any(), int64(7)).Return(tt.stored, nil)
			if tt.wantCounted {
				streaks.EXPECT().Update(gomock.Any(), tt.stored).Return(nil)
			}

			s := &StreakService{streaks: streaks}
			got, counted, err := s.Touch(context.Background(), 7, now)
			if err != nil {
				t.Fatal(err)
			}
			if counted != tt.wantCounted {
				t.Errorf("counted = %v, want %v", counted, tt.wantCounted)
			}
			if got.CurrentStreak != tt.wantCurrent || got.LongestStreak != tt.wantLongest {
				t.Errorf("streak = %d/%d, want %d/%d",
					got.CurrentStreak, got.LongestStreak, tt.wantCurrent, tt.wantLongest)
			}
			if tt.wantCounted && !got.LastReactionDate.Equal(day(0)) {
				t.Errorf("LastReactionDate = %v, want %v", got.LastReactionDate, day(0))
			}
		})
	}
}
