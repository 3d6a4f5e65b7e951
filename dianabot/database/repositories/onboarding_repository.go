package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dianabot/dianabot/dianabot/database/models"
	"github.com/uptrace/bun"
)

type OnboardingRepository interface {
	GetOrCreate(ctx context.Context, userID int64) (*models.UserOnboardingProgress, error)
	Update(ctx context.Context, progress *models.UserOnboardingProgress) error
	GetFragment(ctx context.Context, step int) (*models.OnboardingFragment, error)
}

type onboardingRepository struct {
	db bun.IDB
}

func NewOnboardingRepository(db bun.IDB) OnboardingRepository {
	return &onboardingRepository{db: db}
}

func (r *onboardingRepository) GetOrCreate(ctx context.Context, userID int64) (*models.UserOnboardingProgress, error) {
	progress := new(models.UserOnboardingProgress)
	err := r.db.NewSelect().
		Model(progress).
		Where("user_id = ?", userID).
		Scan(ctx)
	if err == nil {
		return progress, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	progress = &models.UserOnboardingProgress{
		UserID:          userID,
		ArchetypeScores: map[string]int{},
		DecisionsMade:   map[string]string{},
		UpdatedAt:       time.Now(),
	}
	if _, err := r.db.NewInsert().
		Model(progress).
		On("CONFLICT (user_id) DO NOTHING").
		Exec(ctx); err != nil {
		return nil, err
	}
	err = r.db.NewSelect().
		Model(progress).
		Where("user_id = ?", userID).
		Scan(ctx)
	return progress, err
}

func (r *onboardingRepository) Update(ctx context.Context, progress *models.UserOnboardingProgress) error {
	progress.UpdatedAt = time.Now()
	_, err := r.db.NewUpdate().
		Model(progress).
		WherePK().
		Exec(ctx)
	return err
}

func (r *onboardingRepository) GetFragment(ctx context.Context, step int) (*models.OnboardingFragment, error) {
	fragment := new(models.OnboardingFragment)
	err := r.db.NewSelect().
		Model(fragment).
		Where("step = ?", step).
		Where("is_active = ?", true).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "onboarding_fragment", ID: step}
		}
		return nil, err
	}
	return fragment, nil
}
