package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dianabot/dianabot/dianabot/database/models"
	"github.com/uptrace/bun"
)

type ContentSetRepository interface {
	GetByID(ctx context.Context, contentSetID int64) (*models.ContentSet, error)
	GetBySlug(ctx context.Context, slug string) (*models.ContentSet, error)
	GetByTier(ctx context.Context, tier string) ([]*models.ContentSet, error)
	Create(ctx context.Context, set *models.ContentSet) error
	Update(ctx context.Context, set *models.ContentSet) error

	RecordAccess(ctx context.Context, access *models.UserContentAccess) error
	HasAccess(ctx context.Context, userID, contentSetID int64) (bool, error)
	GetAccessHistory(ctx context.Context, userID int64) ([]*models.UserContentAccess, error)
}

type contentSetRepository struct {
	db bun.IDB
}

func NewContentSetRepository(db bun.IDB) ContentSetRepository {
	return &contentSetRepository{db: db}
}

func (r *contentSetRepository) GetByID(ctx context.Context, contentSetID int64) (*models.ContentSet, error) {
	set := new(models.ContentSet)
	err := r.db.NewSelect().
		Model(set).
		Where("id = ?", contentSetID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "content_set", ID: contentSetID}
		}
		return nil, err
	}
	return set, nil
}

func (r *contentSetRepository) GetBySlug(ctx context.Context, slug string) (*models.ContentSet, error) {
	set := new(models.ContentSet)
	err := r.db.NewSelect().
		Model(set).
		Where("slug = ?", slug).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "content_set", ID: slug}
		}
		return nil, err
	}
	return set, nil
}

func (r *contentSetRepository) GetByTier(ctx context.Context, tier string) ([]*models.ContentSet, error) {
	var sets []*models.ContentSet
	err := r.db.NewSelect().
		Model(&sets).
		Where("tier = ?", tier).
		Where("is_active = ?", true).
		Order("id ASC").
		Scan(ctx)
	return sets, err
}

func (r *contentSetRepository) Create(ctx context.Context, set *models.ContentSet) error {
	now := time.Now()
	set.CreatedAt = now
	set.UpdatedAt = now
	_, err := r.db.NewInsert().Model(set).Exec(ctx)
	return err
}

func (r *contentSetRepository) Update(ctx context.Context, set *models.ContentSet) error {
	set.UpdatedAt = time.Now()
	_, err := r.db.NewUpdate().
		Model(set).
		WherePK().
		Exec(ctx)
	return err
}

func (r *contentSetRepository) RecordAccess(ctx context.Context, access *models.UserContentAccess) error {
	if access.DeliveredAt.IsZero() {
		access.DeliveredAt = time.Now()
	}
	_, err := r.db.NewInsert().Model(access).Exec(ctx)
	return err
}

func (r *contentSetRepository) HasAccess(ctx context.Context, userID, contentSetID int64) (bool, error) {
	return r.db.NewSelect().
		Model((*models.UserContentAccess)(nil)).
		Where("user_id = ?", userID).
		Where("content_set_id = ?", contentSetID).
		Exists(ctx)
}

func (r *contentSetRepository) GetAccessHistory(ctx context.Context, userID int64) ([]*models.UserContentAccess, error) {
	var history []*models.UserContentAccess
	err := r.db.NewSelect().
		Model(&history).
		Where("user_id = ?", userID).
		Order("delivered_at DESC").
		Scan(ctx)
	return history, err
}
