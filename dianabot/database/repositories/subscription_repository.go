package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dianabot/dianabot/dianabot/database/models"
	"github.com/uptrace/bun"
)

type SubscriptionRepository interface {
	// Plans
	GetPlan(ctx context.Context, planID int64) (*models.SubscriptionPlan, error)
	GetActivePlans(ctx context.Context) ([]*models.SubscriptionPlan, error)
	CreatePlan(ctx context.Context, plan *models.SubscriptionPlan) error

	// Tokens
	CreateToken(ctx context.Context, token *models.InvitationToken) error
	// GetTokenForUpdate loads the token row under a row lock so concurrent
	// redemptions resolve to exactly one success.
	GetTokenForUpdate(ctx context.Context, token string) (*models.InvitationToken, error)
	MarkTokenUsed(ctx context.Context, tokenID int64, usedBy int64) error

	// Subscribers
	GetSubscriber(ctx context.Context, userID int64) (*models.VIPSubscriber, error)
	UpsertSubscriber(ctx context.Context, sub *models.VIPSubscriber) error
	GetExpiredActive(ctx context.Context, now time.Time) ([]*models.VIPSubscriber, error)
	SetStatus(ctx context.Context, subscriberID int64, status string) error
}

type subscriptionRepository struct {
	db bun.IDB
}

func NewSubscriptionRepository(db bun.IDB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) GetPlan(ctx context.Context, planID int64) (*models.SubscriptionPlan, error) {
	plan := new(models.SubscriptionPlan)
	err := r.db.NewSelect().
		Model(plan).
		Where("id = ?", planID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "subscription_plan", ID: planID}
		}
		return nil, err
	}
	return plan, nil
}

func (r *subscriptionRepository) GetActivePlans(ctx context.Context) ([]*models.SubscriptionPlan, error) {
	var plans []*models.SubscriptionPlan
	err := r.db.NewSelect().
		Model(&plans).
		Where("active = ?", true).
		Order("duration_days ASC").
		Scan(ctx)
	return plans, err
}

func (r *subscriptionRepository) CreatePlan(ctx context.Context, plan *models.SubscriptionPlan) error {
	plan.CreatedAt = time.Now()
	_, err := r.db.NewInsert().Model(plan).Exec(ctx)
	return err
}

func (r *subscriptionRepository) CreateToken(ctx context.Context, token *models.InvitationToken) error {
	token.CreatedAt = time.Now()
	_, err := r.db.NewInsert().Model(token).Exec(ctx)
	return err
}

func (r *subscriptionRepository) GetTokenForUpdate(ctx context.Context, token string) (*models.InvitationToken, error) {
	t := new(models.InvitationToken)
	err := r.db.NewSelect().
		Model(t).
		Where("token = ?", token).
		For("UPDATE").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "invitation_token", ID: token}
		}
		return nil, err
	}
	return t, nil
}

func (r *subscriptionRepository) MarkTokenUsed(ctx context.Context, tokenID int64, usedBy int64) error {
	now := time.Now()
	res, err := r.db.NewUpdate().
		Model((*models.InvitationToken)(nil)).
		Set("used = ?", true).
		Set("used_by = ?", usedBy).
		Set("used_at = ?", now).
		Where("id = ?", tokenID).
		Where("used = ?", false).
		Exec(ctx)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &ConflictError{Entity: "invitation_token", Field: "used", Value: tokenID}
	}
	return nil
}

func (r *subscriptionRepository) GetSubscriber(ctx context.Context, userID int64) (*models.VIPSubscriber, error) {
	sub := new(models.VIPSubscriber)
	err := r.db.NewSelect().
		Model(sub).
		Where("user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "vip_subscriber", ID: userID}
		}
		return nil, err
	}
	return sub, nil
}

func (r *subscriptionRepository) UpsertSubscriber(ctx context.Context, sub *models.VIPSubscriber) error {
	sub.UpdatedAt = time.Now()
	_, err := r.db.NewInsert().
		Model(sub).
		On("CONFLICT (user_id) DO UPDATE").
		Set("expiry_date = EXCLUDED.expiry_date").
		Set("status = EXCLUDED.status").
		Set("token_id = EXCLUDED.token_id").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

func (r *subscriptionRepository) GetExpiredActive(ctx context.Context, now time.Time) ([]*models.VIPSubscriber, error) {
	var subs []*models.VIPSubscriber
	err := r.db.NewSelect().
		Model(&subs).
		Where("status = ?", models.SubscriptionActive).
		Where("expiry_date < ?", now).
		Scan(ctx)
	return subs, err
}

func (r *subscriptionRepository) SetStatus(ctx context.Context, subscriberID int64, status string) error {
	_, err := r.db.NewUpdate().
		Model((*models.VIPSubscriber)(nil)).
		Set("status = ?", status).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", subscriberID).
		Exec(ctx)
	return err
}
