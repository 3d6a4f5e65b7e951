package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dianabot/dianabot/dianabot/database/models"
	"github.com/uptrace/bun"
)

type ProgressRepository interface {
	GetOrCreate(ctx context.Context, userID int64) (*models.UserNarrativeProgress, error)
	Update(ctx context.Context, progress *models.UserNarrativeProgress) error

	InsertDecision(ctx context.Context, entry *models.UserDecisionHistory) error
	GetDecisions(ctx context.Context, userID int64, limit int) ([]*models.UserDecisionHistory, error)
	CountDecisions(ctx context.Context, userID int64) (int, error)
	CountDecisionsInChapter(ctx context.Context, userID, chapterID int64) (int, error)
	AvgResponseTime(ctx context.Context, userID int64) (float64, error)
	CountRapidDecisions(ctx context.Context, userID int64, underSeconds float64) (int, error)
	CountDistinctDecisions(ctx context.Context, userID int64) (int, error)
	CountDecisionsBetween(ctx context.Context, userID int64, from, to time.Time) (int, error)

	InsertChapterCompletion(ctx context.Context, completion *models.ChapterCompletion) error
	HasCompletedChapter(ctx context.Context, userID int64, chapterSlug string) (bool, error)
	GetChapterCompletions(ctx context.Context, userID int64) ([]*models.ChapterCompletion, error)
}

type progressRepository struct {
	db bun.IDB
}

func NewProgressRepository(db bun.IDB) ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) GetOrCreate(ctx context.Context, userID int64) (*models.UserNarrativeProgress, error) {
	progress := new(models.UserNarrativeProgress)
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

	now := time.Now()
	progress = &models.UserNarrativeProgress{
		UserID:            userID,
		DetectedArchetype: models.ArchetypeUnknown,
		LastInteraction:   now,
		UpdatedAt:         now,
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

func (r *progressRepository) Update(ctx context.Context, progress *models.UserNarrativeProgress) error {
	progress.UpdatedAt = time.Now()
	_, err := r.db.NewUpdate().
		Model(progress).
		WherePK().
		Exec(ctx)
	return err
}

func (r *progressRepository) InsertDecision(ctx context.Context, entry *models.UserDecisionHistory) error {
	if entry.DecidedAt.IsZero() {
		entry.DecidedAt = time.Now()
	}
	_, err := r.db.NewInsert().Model(entry).Exec(ctx)
	return err
}

func (r *progressRepository) GetDecisions(ctx context.Context, userID int64, limit int) ([]*models.UserDecisionHistory, error) {
	var entries []*models.UserDecisionHistory
	q := r.db.NewSelect().
		Model(&entries).
		Where("user_id = ?", userID).
		Order("decided_at DESC", "id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Scan(ctx)
	return entries, err
}

func (r *progressRepository) CountDecisions(ctx context.Context, userID int64) (int, error) {
	return r.db.NewSelect().
		Model((*models.UserDecisionHistory)(nil)).
		Where("user_id = ?", userID).
		Count(ctx)
}

func (r *progressRepository) CountDecisionsInChapter(ctx context.Context, userID, chapterID int64) (int, error) {
	return r.db.NewSelect().
		Model((*models.UserDecisionHistory)(nil)).
		Join("JOIN narrative_fragments AS nf ON nf.fragment_key = udh.fragment_key").
		Where("udh.user_id = ?", userID).
		Where("nf.chapter_id = ?", chapterID).
		Count(ctx)
}

func (r *progressRepository) AvgResponseTime(ctx context.Context, userID int64) (float64, error) {
	var avg sql.NullFloat64
	err := r.db.NewSelect().
		Model((*models.UserDecisionHistory)(nil)).
		ColumnExpr("COALESCE(AVG(response_time_seconds), 0)").
		Where("user_id = ?", userID).
		Where("response_time_seconds > 0").
		Scan(ctx, &avg)
	return avg.Float64, err
}

func (r *progressRepository) CountRapidDecisions(ctx context.Context, userID int64, underSeconds float64) (int, error) {
	return r.db.NewSelect().
		Model((*models.UserDecisionHistory)(nil)).
		Where("user_id = ?", userID).
		Where("response_time_seconds > 0").
		Where("response_time_seconds < ?", underSeconds).
		Count(ctx)
}

func (r *progressRepository) CountDistinctDecisions(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.db.NewSelect().
		Model((*models.UserDecisionHistory)(nil)).
		ColumnExpr("COUNT(DISTINCT decision_id)").
		Where("user_id = ?", userID).
		Scan(ctx, &n)
	return n, err
}

func (r *progressRepository) CountDecisionsBetween(ctx context.Context, userID int64, from, to time.Time) (int, error) {
	return r.db.NewSelect().
		Model((*models.UserDecisionHistory)(nil)).
		Where("user_id = ?", userID).
		Where("decided_at >= ?", from).
		Where("decided_at < ?", to).
		Count(ctx)
}

func (r *progressRepository) InsertChapterCompletion(ctx context.Context, completion *models.ChapterCompletion) error {
	if completion.CompletedAt.IsZero() {
		completion.CompletedAt = time.Now()
	}
	_, err := r.db.NewInsert().
		Model(completion).
		On("CONFLICT (user_id, chapter_slug) DO NOTHING").
		Exec(ctx)
	return err
}

func (r *progressRepository) HasCompletedChapter(ctx context.Context, userID int64, chapterSlug string) (bool, error) {
	return r.db.NewSelect().
		Model((*models.ChapterCompletion)(nil)).
		Where("user_id = ?", userID).
		Where("chapter_slug = ?", chapterSlug).
		Exists(ctx)
}

func (r *progressRepository) GetChapterCompletions(ctx context.Context, userID int64) ([]*models.ChapterCompletion, error) {
	var completions []*models.ChapterCompletion
	err := r.db.NewSelect().
		Model(&completions).
		Where("user_id = ?", userID).
		Order("completed_at ASC").
		Scan(ctx)
	return completions, err
}
