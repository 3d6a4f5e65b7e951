package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dianabot/dianabot/dianabot/database/models"
	"github.com/uptrace/bun"
)

type NarrativeRepository interface {
	// Chapters
	GetChapter(ctx context.Context, chapterID int64) (*models.NarrativeChapter, error)
	GetChapterBySlug(ctx context.Context, slug string) (*models.NarrativeChapter, error)
	GetChapterAfter(ctx context.Context, order int) (*models.NarrativeChapter, error)

	// Fragments
	GetFragmentByKey(ctx context.Context, fragmentKey string) (*models.NarrativeFragment, error)
	GetFragmentByID(ctx context.Context, fragmentID int64) (*models.NarrativeFragment, error)
	GetEntryFragment(ctx context.Context, chapterID int64) (*models.NarrativeFragment, error)
	GetFirstEntryFragment(ctx context.Context) (*models.NarrativeFragment, error)
	GetDecision(ctx context.Context, decisionID int64) (*models.FragmentDecision, error)
	CountChapterFragments(ctx context.Context, chapterID int64) (int, error)
	CountActiveFragments(ctx context.Context) (int, error)

	// Variants
	GetActiveVariants(ctx context.Context, fragmentKey string) ([]*models.FragmentVariant, error)

	// Challenges
	GetChallenge(ctx context.Context, fragmentKey string) (*models.FragmentChallenge, error)
	InsertAttempt(ctx context.Context, attempt *models.ChallengeAttempt) error
	CountAttempts(ctx context.Context, userID, challengeID int64) (int, error)
	CountCorrectAttempts(ctx context.Context, userID int64) (int, int, error)

	// Time windows
	GetTimeWindow(ctx context.Context, fragmentKey string) (*models.FragmentTimeWindow, error)
}

type narrativeRepository struct {
	db bun.IDB
}

func NewNarrativeRepository(db bun.IDB) NarrativeRepository {
	return &narrativeRepository{db: db}
}

func (r *narrativeRepository) GetChapter(ctx context.Context, chapterID int64) (*models.NarrativeChapter, error) {
	chapter := new(models.NarrativeChapter)
	err := r.db.NewSelect().
		Model(chapter).
		Where("id = ?", chapterID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "narrative_chapter", ID: chapterID}
		}
		return nil, err
	}
	return chapter, nil
}

func (r *narrativeRepository) GetChapterBySlug(ctx context.Context, slug string) (*models.NarrativeChapter, error) {
	chapter := new(models.NarrativeChapter)
	err := r.db.NewSelect().
		Model(chapter).
		Where("slug = ?", slug).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "narrative_chapter", ID: slug}
		}
		return nil, err
	}
	return chapter, nil
}

func (r *narrativeRepository) GetChapterAfter(ctx context.Context, order int) (*models.NarrativeChapter, error) {
	chapter := new(models.NarrativeChapter)
	err := r.db.NewSelect().
		Model(chapter).
		Where("chapter_order > ?", order).
		Where("is_active = ?", true).
		Order("chapter_order ASC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "narrative_chapter", ID: order}
		}
		return nil, err
	}
	return chapter, nil
}

func (r *narrativeRepository) GetFragmentByKey(ctx context.Context, fragmentKey string) (*models.NarrativeFragment, error) {
	fragment := new(models.NarrativeFragment)
	err := r.db.NewSelect().
		Model(fragment).
		Relation("Chapter").
		Relation("Decisions", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("decision_order ASC")
		}).
		Relation("Requirements").
		Where("nf.fragment_key = ?", fragmentKey).
		Where("nf.is_active = ?", true).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "narrative_fragment", ID: fragmentKey}
		}
		return nil, err
	}
	return fragment, nil
}

func (r *narrativeRepository) GetFragmentByID(ctx context.Context, fragmentID int64) (*models.NarrativeFragment, error) {
	fragment := new(models.NarrativeFragment)
	err := r.db.NewSelect().
		Model(fragment).
		Relation("Chapter").
		Where("nf.id = ?", fragmentID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "narrative_fragment", ID: fragmentID}
		}
		return nil, err
	}
	return fragment, nil
}

func (r *narrativeRepository) GetEntryFragment(ctx context.Context, chapterID int64) (*models.NarrativeFragment, error) {
	fragment := new(models.NarrativeFragment)
	err := r.db.NewSelect().
		Model(fragment).
		Where("chapter_id = ?", chapterID).
		Where("is_entry_point = ?", true).
		Where("is_active = ?", true).
		Order("fragment_order ASC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "narrative_fragment", ID: chapterID}
		}
		return nil, err
	}
	return r.GetFragmentByKey(ctx, fragment.FragmentKey)
}

func (r *narrativeRepository) GetFirstEntryFragment(ctx context.Context) (*models.NarrativeFragment, error) {
	chapter := new(models.NarrativeChapter)
	err := r.db.NewSelect().
		Model(chapter).
		Where("is_active = ?", true).
		Order("chapter_order ASC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "narrative_chapter", ID: "first"}
		}
		return nil, err
	}
	return r.GetEntryFragment(ctx, chapter.ID)
}

func (r *narrativeRepository) GetDecision(ctx context.Context, decisionID int64) (*models.FragmentDecision, error) {
	decision := new(models.FragmentDecision)
	err := r.db.NewSelect().
		Model(decision).
		Where("id = ?", decisionID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "fragment_decision", ID: decisionID}
		}
		return nil, err
	}
	return decision, nil
}

func (r *narrativeRepository) CountChapterFragments(ctx context.Context, chapterID int64) (int, error) {
	return r.db.NewSelect().
		Model((*models.NarrativeFragment)(nil)).
		Where("chapter_id = ?", chapterID).
		Where("is_active = ?", true).
		Count(ctx)
}

func (r *narrativeRepository) CountActiveFragments(ctx context.Context) (int, error) {
	return r.db.NewSelect().
		Model((*models.NarrativeFragment)(nil)).
		Where("is_active = ?", true).
		Count(ctx)
}

func (r *narrativeRepository) GetActiveVariants(ctx context.Context, fragmentKey string) ([]*models.FragmentVariant, error) {
	var variants []*models.FragmentVariant
	err := r.db.NewSelect().
		Model(&variants).
		Where("fragment_key = ?", fragmentKey).
		Where("is_active = ?", true).
		Order("priority DESC", "id ASC").
		Scan(ctx)
	return variants, err
}

func (r *narrativeRepository) GetChallenge(ctx context.Context, fragmentKey string) (*models.FragmentChallenge, error) {
	challenge := new(models.FragmentChallenge)
	err := r.db.NewSelect().
		Model(challenge).
		Where("fragment_key = ?", fragmentKey).
		Where("is_active = ?", true).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "fragment_challenge", ID: fragmentKey}
		}
		return nil, err
	}
	return challenge, nil
}

func (r *narrativeRepository) InsertAttempt(ctx context.Context, attempt *models.ChallengeAttempt) error {
	attempt.AttemptedAt = time.Now()
	_, err := r.db.NewInsert().Model(attempt).Exec(ctx)
	return err
}

func (r *narrativeRepository) CountAttempts(ctx context.Context, userID, challengeID int64) (int, error) {
	return r.db.NewSelect().
		Model((*models.ChallengeAttempt)(nil)).
		Where("user_id = ?", userID).
		Where("challenge_id = ?", challengeID).
		Count(ctx)
}

// CountCorrectAttempts returns (correct, total) across all challenges, for
// archetype metric collection.
func (r *narrativeRepository) CountCorrectAttempts(ctx context.Context, userID int64) (int, int, error) {
	total, err := r.db.NewSelect().
		Model((*models.ChallengeAttempt)(nil)).
		Where("user_id = ?", userID).
		Count(ctx)
	if err != nil {
		return 0, 0, err
	}
	correct, err := r.db.NewSelect().
		Model((*models.ChallengeAttempt)(nil)).
		Where("user_id = ?", userID).
		Where("is_correct = ?", true).
		Count(ctx)
	return correct, total, err
}

func (r *narrativeRepository) GetTimeWindow(ctx context.Context, fragmentKey string) (*models.FragmentTimeWindow, error) {
	window := new(models.FragmentTimeWindow)
	err := r.db.NewSelect().
		Model(window).
		Where("fragment_key = ?", fragmentKey).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return window, nil
}
