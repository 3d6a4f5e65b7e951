package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dianabot/dianabot/dianabot/database/models"
	"github.com/uptrace/bun"
)

type EngagementRepository interface {
	// Visits
	GetVisit(ctx context.Context, userID int64, fragmentKey string) (*models.UserFragmentVisit, error)
	RecordVisit(ctx context.Context, userID int64, fragmentKey string, now time.Time) (*models.UserFragmentVisit, error)
	UpdateVisit(ctx context.Context, visit *models.UserFragmentVisit) error
	CountVisitedInChapter(ctx context.Context, userID, chapterID int64) (int, error)
	SumChapterTime(ctx context.Context, userID, chapterID int64) (int, error)
	AvgVisitsPerFragment(ctx context.Context, userID int64) (float64, error)
	CountDistinctFragments(ctx context.Context, userID int64) (int, error)
	SumTotalTime(ctx context.Context, userID int64) (int, error)

	// Cooldowns
	GetActiveCooldown(ctx context.Context, userID int64, cooldownType, targetKey string, now time.Time) (*models.NarrativeCooldown, error)
	SetCooldown(ctx context.Context, cd *models.NarrativeCooldown) error
	DeleteExpiredCooldowns(ctx context.Context, now time.Time) (int64, error)

	// Daily limits
	GetOrCreateDailyLimit(ctx context.Context, userID int64, day time.Time) (*models.DailyNarrativeLimit, error)
	UpdateDailyLimit(ctx context.Context, limit *models.DailyNarrativeLimit) error
	ResetDailyLimits(ctx context.Context, day time.Time) (int64, error)
}

type engagementRepository struct {
	db bun.IDB
}

func NewEngagementRepository(db bun.IDB) EngagementRepository {
	return &engagementRepository{db: db}
}

func (r *engagementRepository) GetVisit(ctx context.Context, userID int64, fragmentKey string) (*models.UserFragmentVisit, error) {
	visit := new(models.UserFragmentVisit)
	err := r.db.NewSelect().
		Model(visit).
		Where("user_id = ?", userID).
		Where("fragment_key = ?", fragmentKey).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "user_fragment_visit", ID: fragmentKey}
		}
		return nil, err
	}
	return visit, nil
}

// RecordVisit upserts the (user, fragment) visit row, bumping the counter on
// revisits. The returned row reflects the state after the bump.
func (r *engagementRepository) RecordVisit(ctx context.Context, userID int64, fragmentKey string, now time.Time) (*models.UserFragmentVisit, error) {
	visit := &models.UserFragmentVisit{
		UserID:      userID,
		FragmentKey: fragmentKey,
		VisitCount:  1,
		FirstVisit:  now,
		LastVisit:   now,
	}
	_, err := r.db.NewInsert().
		Model(visit).
		On("CONFLICT (user_id, fragment_key) DO UPDATE").
		Set("visit_count = ufv.visit_count + 1").
		Set("last_visit = EXCLUDED.last_visit").
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return r.GetVisit(ctx, userID, fragmentKey)
}

func (r *engagementRepository) UpdateVisit(ctx context.Context, visit *models.UserFragmentVisit) error {
	_, err := r.db.NewUpdate().
		Model(visit).
		WherePK().
		Exec(ctx)
	return err
}

func (r *engagementRepository) CountVisitedInChapter(ctx context.Context, userID, chapterID int64) (int, error) {
	return r.db.NewSelect().
		Model((*models.UserFragmentVisit)(nil)).
		Join("JOIN narrative_fragments AS nf ON nf.fragment_key = ufv.fragment_key").
		Where("ufv.user_id = ?", userID).
		Where("nf.chapter_id = ?", chapterID).
		Count(ctx)
}

func (r *engagementRepository) SumChapterTime(ctx context.Context, userID, chapterID int64) (int, error) {
	var sum sql.NullInt64
	err := r.db.NewSelect().
		Model((*models.UserFragmentVisit)(nil)).
		ColumnExpr("COALESCE(SUM(ufv.total_time_seconds), 0)").
		Join("JOIN narrative_fragments AS nf ON nf.fragment_key = ufv.fragment_key").
		Where("ufv.user_id = ?", userID).
		Where("nf.chapter_id = ?", chapterID).
		Scan(ctx, &sum)
	return int(sum.Int64), err
}

func (r *engagementRepository) AvgVisitsPerFragment(ctx context.Context, userID int64) (float64, error) {
	var avg sql.NullFloat64
	err := r.db.NewSelect().
		Model((*models.UserFragmentVisit)(nil)).
		ColumnExpr("COALESCE(AVG(visit_count), 0)").
		Where("user_id = ?", userID).
		Scan(ctx, &avg)
	return avg.Float64, err
}

func (r *engagementRepository) CountDistinctFragments(ctx context.Context, userID int64) (int, error) {
	return r.db.NewSelect().
		Model((*models.UserFragmentVisit)(nil)).
		Where("user_id = ?", userID).
		Count(ctx)
}

func (r *engagementRepository) SumTotalTime(ctx context.Context, userID int64) (int, error) {
	var sum sql.NullInt64
	err := r.db.NewSelect().
		Model((*models.UserFragmentVisit)(nil)).
		ColumnExpr("COALESCE(SUM(total_time_seconds), 0)").
		Where("user_id = ?", userID).
		Scan(ctx, &sum)
	return int(sum.Int64), err
}

func (r *engagementRepository) GetActiveCooldown(ctx context.Context, userID int64, cooldownType, targetKey string, now time.Time) (*models.NarrativeCooldown, error) {
	cd := new(models.NarrativeCooldown)
	err := r.db.NewSelect().
		Model(cd).
		Where("user_id = ?", userID).
		Where("cooldown_type = ?", cooldownType).
		Where("target_key = ?", targetKey).
		Where("expires_at > ?", now).
		Order("expires_at DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return cd, nil
}

func (r *engagementRepository) SetCooldown(ctx context.Context, cd *models.NarrativeCooldown) error {
	_, err := r.db.NewInsert().
		Model(cd).
		On("CONFLICT (user_id, cooldown_type, target_key) DO UPDATE").
		Set("started_at = EXCLUDED.started_at").
		Set("expires_at = EXCLUDED.expires_at").
		Set("narrative_message = EXCLUDED.narrative_message").
		Exec(ctx)
	return err
}

func (r *engagementRepository) DeleteExpiredCooldowns(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.NewDelete().
		Model((*models.NarrativeCooldown)(nil)).
		Where("expires_at <= ?", now).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// GetOrCreateDailyLimit returns the user's counter row for the given UTC day,
// rolling it over in place when the stored day is stale. Per-user Max*
// overrides survive the rollover.
func (r *engagementRepository) GetOrCreateDailyLimit(ctx context.Context, userID int64, day time.Time) (*models.DailyNarrativeLimit, error) {
	limit := new(models.DailyNarrativeLimit)
	err := r.db.NewSelect().
		Model(limit).
		Where("user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		limit = &models.DailyNarrativeLimit{
			UserID:    userID,
			LimitDate: day,
		}
		if _, err := r.db.NewInsert().
			Model(limit).
			On("CONFLICT (user_id) DO NOTHING").
			Exec(ctx); err != nil {
			return nil, err
		}
		err = r.db.NewSelect().
			Model(limit).
			Where("user_id = ?", userID).
			Scan(ctx)
		if err != nil {
			return nil, err
		}
	}

	if !limit.LimitDate.Equal(day) {
		limit.LimitDate = day
		limit.FragmentsViewed = 0
		limit.DecisionsMade = 0
		limit.ChallengesAttempted = 0
		if err := r.UpdateDailyLimit(ctx, limit); err != nil {
			return nil, err
		}
	}
	return limit, nil
}

func (r *engagementRepository) UpdateDailyLimit(ctx context.Context, limit *models.DailyNarrativeLimit) error {
	_, err := r.db.NewUpdate().
		Model(limit).
		WherePK().
		Exec(ctx)
	return err
}

func (r *engagementRepository) ResetDailyLimits(ctx context.Context, day time.Time) (int64, error) {
	res, err := r.db.NewUpdate().
		Model((*models.DailyNarrativeLimit)(nil)).
		Set("limit_date = ?", day).
		Set("fragments_viewed = 0").
		Set("decisions_made = 0").
		Set("challenges_attempted = 0").
		Where("limit_date < ?", day).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
