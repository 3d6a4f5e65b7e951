package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dianabot/dianabot/dianabot/database/models"
	"github.com/uptrace/bun"
)

type StreakRepository interface {
	GetOrCreate(ctx context.Context, userID int64) (*models.UserStreak, error)
	Update(ctx context.Context, streak *models.UserStreak) error
	// GetBroken returns users whose streak was positive but whose last
	// reaction is older than a day, for risk scoring.
	GetBroken(ctx context.Context, before time.Time) ([]*models.UserStreak, error)
}

type streakRepository struct {
	db bun.IDB
}

func NewStreakRepository(db bun.IDB) StreakRepository {
	return &streakRepository{db: db}
}

func (r *streakRepository) GetOrCreate(ctx context.Context, userID int64) (*models.UserStreak, error) {
	streak := new(models.UserStreak)
	err := r.db.NewSelect().
		Model(streak).
		Where("user_id = ?", userID).
		Scan(ctx)
	if err == nil {
		return streak, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	streak = &models.UserStreak{
		UserID:    userID,
		UpdatedAt: time.Now(),
	}
	if _, err := r.db.NewInsert().
		Model(streak).
		On("CONFLICT (user_id) DO NOTHING").
		Exec(ctx); err != nil {
		return nil, err
	}
	err = r.db.NewSelect().
		Model(streak).
		Where("user_id = ?", userID).
		Scan(ctx)
	return streak, err
}

func (r *streakRepository) Update(ctx context.Context, streak *models.UserStreak) error {
	streak.UpdatedAt = time.Now()
	_, err := r.db.NewUpdate().
		Model(streak).
		WherePK().
		Exec(ctx)
	return err
}

func (r *streakRepository) GetBroken(ctx context.Context, before time.Time) ([]*models.UserStreak, error) {
	var streaks []*models.UserStreak
	err := r.db.NewSelect().
		Model(&streaks).
		Where("current_streak > 0").
		Where("last_reaction_date < ?", before).
		Scan(ctx)
	return streaks, err
}
