package economy

import (
	"context"
	"time"

	"github.com/dianabot/dianabot/dianabot/database/models"
	"github.com/dianabot/dianabot/dianabot/database/repositories"
	"github.com/uptrace/bun"
)

// StreakService tracks consecutive daily reactions.
type StreakService struct {
	streaks repositories.StreakRepository
}

func NewStreakService(db bun.IDB) *StreakService {
	return &StreakService{
		streaks: repositories.NewStreakRepository(db),
	}
}

// Touch registers today's reaction. Same-day repeats are no-ops; a reaction
// the day after the last one extends the streak; anything later resets to 1.
func (s *StreakService) Touch(ctx context.Context, userID int64, now time.Time) (*models.UserStreak, bool, error) {
	streak, err := s.streaks.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, false, err
	}

	today := utcMidnight(now)
	last := utcMidnight(streak.LastReactionDate)

	switch {
	case !streak.LastReactionDate.IsZero() && last.Equal(today):
		return streak, false, nil
	case !streak.LastReactionDate.IsZero() && last.Equal(today.AddDate(0, 0, -1)):
		streak.CurrentStreak++
	default:
		streak.CurrentStreak = 1
	}

	if streak.CurrentStreak > streak.LongestStreak {
		streak.LongestStreak = streak.CurrentStreak
	}
	streak.LastReactionDate = today

	if err := s.streaks.Update(ctx, streak); err != nil {
		return nil, false, err
	}
	return streak, true, nil
}

func (s *StreakService) Get(ctx context.Context, userID int64) (*models.UserStreak, error) {
	return s.streaks.GetOrCreate(ctx, userID)
}

func utcMidnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
