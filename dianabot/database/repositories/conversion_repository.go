package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dianabot/dianabot/dianabot/database/models"
	"github.com/uptrace/bun"
)

type ConversionRepository interface {
	Insert(ctx context.Context, event *models.ConversionEvent) error
	// GetLastEvent returns the latest event of the given type for the user, or
	// nil when none exists. Dignity windows are computed from it.
	GetLastEvent(ctx context.Context, userID int64, eventType string) (*models.ConversionEvent, error)
	// GetLastOfferEvent narrows to one (offer_type, event_type) pair, the unit
	// the suppression windows apply to.
	GetLastOfferEvent(ctx context.Context, userID int64, offerType, eventType string) (*models.ConversionEvent, error)
	CountShownSince(ctx context.Context, userID int64, since time.Time) (int, error)
	GetEvents(ctx context.Context, userID int64, limit int) ([]*models.ConversionEvent, error)
}

type conversionRepository struct {
	db bun.IDB
}

func NewConversionRepository(db bun.IDB) ConversionRepository {
	return &conversionRepository{db: db}
}

func (r *conversionRepository) Insert(ctx context.Context, event *models.ConversionEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	_, err := r.db.NewInsert().Model(event).Exec(ctx)
	return err
}

func (r *conversionRepository) GetLastEvent(ctx context.Context, userID int64, eventType string) (*models.ConversionEvent, error) {
	event := new(models.ConversionEvent)
	err := r.db.NewSelect().
		Model(event).
		Where("user_id = ?", userID).
		Where("event_type = ?", eventType).
		Order("created_at DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return event, nil
}

func (r *conversionRepository) GetLastOfferEvent(ctx context.Context, userID int64, offerType, eventType string) (*models.ConversionEvent, error) {
	event := new(models.ConversionEvent)
	err := r.db.NewSelect().
		Model(event).
		Where("user_id = ?", userID).
		Where("event_type = ?", eventType).
		Where("offer_type = ?", offerType).
		Order("created_at DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return event, nil
}

func (r *conversionRepository) CountShownSince(ctx context.Context, userID int64, since time.Time) (int, error) {
	return r.db.NewSelect().
		Model((*models.ConversionEvent)(nil)).
		Where("user_id = ?", userID).
		Where("event_type = ?", models.OfferShown).
		Where("created_at >= ?", since).
		Count(ctx)
}

func (r *conversionRepository) GetEvents(ctx context.Context, userID int64, limit int) ([]*models.ConversionEvent, error) {
	var events []*models.ConversionEvent
	q := r.db.NewSelect().
		Model(&events).
		Where("user_id = ?", userID).
		Order("created_at DESC", "id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Scan(ctx)
	return events, err
}
