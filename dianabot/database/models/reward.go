package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Reward struct {
	bun.BaseModel `bun:"table:rewards,alias:rw"`

	ID          int64                  `bun:"id,pk,autoincrement"`
	Name        string                 `bun:"name,notnull"`
	Description string                 `bun:"description"`
	Type        string                 `bun:"type,notnull"`
	Metadata    map[string]interface{} `bun:"metadata,type:jsonb"`
	// UnlockLevelID gates auto-unlock on level-up when set.
	UnlockLevelID *int64    `bun:"unlock_level_id"`
	Active        bool      `bun:"active,notnull,default:true"`
	CreatedAt     time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// Reward type constants
const (
	RewardBesitos         = "BESITOS"
	RewardBadge           = "BADGE"
	RewardItem            = "ITEM"
	RewardShopItem        = "SHOP_ITEM"
	RewardNarrativeUnlock = "NARRATIVE_UNLOCK"
	RewardVIPDays         = "VIP_DAYS"
)

type UserReward struct {
	bun.BaseModel `bun:"table:user_rewards,alias:ur"`

	ID          int64     `bun:"id,pk,autoincrement"`
	UserID      int64     `bun:"user_id,notnull"`
	RewardID    int64     `bun:"reward_id,notnull"`
	ObtainedVia string    `bun:"obtained_via,notnull"`
	ObtainedAt  time.Time `bun:"obtained_at,notnull,default:current_timestamp"`

	Reward *Reward `bun:"rel:belongs-to,join:reward_id=id"`
}

// ObtainedVia constants, the single mapping used by the reward dispatcher.
const (
	ViaMissionReward = "mission_reward"
	ViaAdminGrant    = "admin_grant"
	ViaEvent         = "event"
	ViaLevelUp       = "level_up"
	ViaPurchase      = "purchase"
	ViaAutoUnlock    = "auto_unlock"
	ViaStreakBonus   = "streak_bonus"
	ViaDailyGift     = "daily_gift"
	ViaChallenge     = "challenge"
	ViaOnboarding    = "onboarding"
)
