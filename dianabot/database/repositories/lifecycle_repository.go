package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dianabot/dianabot/dianabot/database/models"
	"github.com/uptrace/bun"
)

type LifecycleRepository interface {
	GetOrCreate(ctx context.Context, userID int64) (*models.UserLifecycle, error)
	Update(ctx context.Context, lc *models.UserLifecycle) error
	GetByState(ctx context.Context, state string) ([]*models.UserLifecycle, error)
	// GetInactiveSince returns non-lost users whose last activity predates the
	// cutoff, candidates for state demotion or re-engagement.
	GetInactiveSince(ctx context.Context, cutoff time.Time) ([]*models.UserLifecycle, error)

	InsertReengagement(ctx context.Context, entry *models.ReengagementLog) error
	MarkResponded(ctx context.Context, userID int64, at time.Time) error
	CountMessagesSince(ctx context.Context, userID int64, since time.Time) (int, error)
	GetLastMessage(ctx context.Context, userID int64) (*models.ReengagementLog, error)
}

type lifecycleRepository struct {
	db bun.IDB
}

func NewLifecycleRepository(db bun.IDB) LifecycleRepository {
	return &lifecycleRepository{db: db}
}

func (r *lifecycleRepository) GetOrCreate(ctx context.Context, userID int64) (*models.UserLifecycle, error) {
	lc := new(models.UserLifecycle)
	err := r.db.NewSelect().
		Model(lc).
		Where("user_id = ?", userID).
		Scan(ctx)
	if err == nil {
		return lc, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	now := time.Now()
	lc = &models.UserLifecycle{
		UserID:         userID,
		CurrentState:   models.StateNew,
		LastActivity:   now,
		StateChangedAt: now,
		UpdatedAt:      now,
	}
	if _, err := r.db.NewInsert().
		Model(lc).
		On("CONFLICT (user_id) DO NOTHING").
		Exec(ctx); err != nil {
		return nil, err
	}
	err = r.db.NewSelect().
		Model(lc).
		Where("user_id = ?", userID).
		Scan(ctx)
	return lc, err
}

func (r *lifecycleRepository) Update(ctx context.Context, lc *models.UserLifecycle) error {
	lc.UpdatedAt = time.Now()
	_, err := r.db.NewUpdate().
		Model(lc).
		WherePK().
		Exec(ctx)
	return err
}

func (r *lifecycleRepository) GetByState(ctx context.Context, state string) ([]*models.UserLifecycle, error) {
	var lcs []*models.UserLifecycle
	err := r.db.NewSelect().
		Model(&lcs).
		Where("current_state = ?", state).
		Order("last_activity ASC").
		Scan(ctx)
	return lcs, err
}

func (r *lifecycleRepository) GetInactiveSince(ctx context.Context, cutoff time.Time) ([]*models.UserLifecycle, error) {
	var lcs []*models.UserLifecycle
	err := r.db.NewSelect().
		Model(&lcs).
		Where("last_activity < ?", cutoff).
		Where("current_state != ?", models.StateLost).
		Order("last_activity ASC").
		Scan(ctx)
	return lcs, err
}

func (r *lifecycleRepository) InsertReengagement(ctx context.Context, entry *models.ReengagementLog) error {
	if entry.SentAt.IsZero() {
		entry.SentAt = time.Now()
	}
	_, err := r.db.NewInsert().Model(entry).Exec(ctx)
	return err
}

// MarkResponded flags the user's latest unanswered re-engagement message, used
// to measure which message tiers actually bring people back.
func (r *lifecycleRepository) MarkResponded(ctx context.Context, userID int64, at time.Time) error {
	_, err := r.db.NewUpdate().
		Model((*models.ReengagementLog)(nil)).
		Set("user_responded = TRUE").
		Set("response_at = ?", at).
		Where("id = (SELECT id FROM reengagement_logs WHERE user_id = ? AND user_responded = FALSE ORDER BY sent_at DESC LIMIT 1)", userID).
		Exec(ctx)
	return err
}

func (r *lifecycleRepository) CountMessagesSince(ctx context.Context, userID int64, since time.Time) (int, error) {
	return r.db.NewSelect().
		Model((*models.ReengagementLog)(nil)).
		Where("user_id = ?", userID).
		Where("sent_at >= ?", since).
		Count(ctx)
}

func (r *lifecycleRepository) GetLastMessage(ctx context.Context, userID int64) (*models.ReengagementLog, error) {
	entry := new(models.ReengagementLog)
	err := r.db.NewSelect().
		Model(entry).
		Where("user_id = ?", userID).
		Order("sent_at DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return entry, nil
}
