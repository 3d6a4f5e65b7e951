package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dianabot/dianabot/dianabot/database/models"
	"github.com/uptrace/bun"
)

type RewardRepository interface {
	GetByID(ctx context.Context, rewardID int64) (*models.Reward, error)
	GetAutoUnlockable(ctx context.Context, levelID int64) ([]*models.Reward, error)
	GrantUserReward(ctx context.Context, grant *models.UserReward) error
	GetUserRewards(ctx context.Context, userID int64) ([]*models.UserReward, error)
	HasReward(ctx context.Context, userID, rewardID int64) (bool, error)
}

type rewardRepository struct {
	db bun.IDB
}

func NewRewardRepository(db bun.IDB) RewardRepository {
	return &rewardRepository{db: db}
}

func (r *rewardRepository) GetByID(ctx context.Context, rewardID int64) (*models.Reward, error) {
	reward := new(models.Reward)
	err := r.db.NewSelect().
		Model(reward).
		Where("id = ?", rewardID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "reward", ID: rewardID}
		}
		return nil, err
	}
	return reward, nil
}

func (r *rewardRepository) GetAutoUnlockable(ctx context.Context, levelID int64) ([]*models.Reward, error) {
	var rewards []*models.Reward
	err := r.db.NewSelect().
		Model(&rewards).
		Where("active = ?", true).
		Where("unlock_level_id = ?", levelID).
		Scan(ctx)
	return rewards, err
}

func (r *rewardRepository) GrantUserReward(ctx context.Context, grant *models.UserReward) error {
	grant.ObtainedAt = time.Now()
	_, err := r.db.NewInsert().Model(grant).Exec(ctx)
	return err
}

func (r *rewardRepository) GetUserRewards(ctx context.Context, userID int64) ([]*models.UserReward, error) {
	var grants []*models.UserReward
	err := r.db.NewSelect().
		Model(&grants).
		Relation("Reward").
		Where("ur.user_id = ?", userID).
		Order("ur.obtained_at DESC").
		Scan(ctx)
	return grants, err
}

func (r *rewardRepository) HasReward(ctx context.Context, userID, rewardID int64) (bool, error) {
	return r.db.NewSelect().
		Model((*models.UserReward)(nil)).
		Where("user_id = ?", userID).
		Where("reward_id = ?", rewardID).
		Exists(ctx)
}
