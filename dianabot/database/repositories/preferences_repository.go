package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dianabot/dianabot/dianabot/database/models"
	"github.com/uptrace/bun"
)

type PreferencesRepository interface {
	// GetOrDefault returns the stored preferences, or the defaults when the
	// user never changed anything. Defaults are not persisted.
	GetOrDefault(ctx context.Context, userID int64) (*models.NotificationPreferences, error)
	Upsert(ctx context.Context, prefs *models.NotificationPreferences) error
}

type preferencesRepository struct {
	db bun.IDB
}

func NewPreferencesRepository(db bun.IDB) PreferencesRepository {
	return &preferencesRepository{db: db}
}

func DefaultPreferences(userID int64) *models.NotificationPreferences {
	return &models.NotificationPreferences{
		UserID:              userID,
		ContentEnabled:      true,
		StreakEnabled:       true,
		OfferEnabled:        true,
		ReengagementEnabled: true,
		QuietHoursStart:     23,
		QuietHoursEnd:       9,
		MaxMessagesPerDay:   3,
		Timezone:            "UTC",
	}
}

func (r *preferencesRepository) GetOrDefault(ctx context.Context, userID int64) (*models.NotificationPreferences, error) {
	prefs := new(models.NotificationPreferences)
	err := r.db.NewSelect().
		Model(prefs).
		Where("user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return DefaultPreferences(userID), nil
		}
		return nil, err
	}
	return prefs, nil
}

func (r *preferencesRepository) Upsert(ctx context.Context, prefs *models.NotificationPreferences) error {
	prefs.UpdatedAt = time.Now()
	_, err := r.db.NewInsert().
		Model(prefs).
		On("CONFLICT (user_id) DO UPDATE").
		Set("content_enabled = EXCLUDED.content_enabled").
		Set("streak_enabled = EXCLUDED.streak_enabled").
		Set("offer_enabled = EXCLUDED.offer_enabled").
		Set("reengagement_enabled = EXCLUDED.reengagement_enabled").
		Set("quiet_hours_start = EXCLUDED.quiet_hours_start").
		Set("quiet_hours_end = EXCLUDED.quiet_hours_end").
		Set("max_messages_per_day = EXCLUDED.max_messages_per_day").
		Set("timezone = EXCLUDED.timezone").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}
