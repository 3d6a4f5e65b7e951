package models

import (
	"time"

	"github.com/uptrace/bun"
)

// UserBesitos is the per-user ledger aggregate. The transaction log is the
// canonical history; this row is a materialized view over it.
type UserBesitos struct {
	bun.BaseModel `bun:"table:user_besitos,alias:ub"`

	UserID         int64     `bun:"user_id,pk"`
	TotalBesitos   int64     `bun:"total_besitos,notnull,default:0"`
	BesitosEarned  int64     `bun:"besitos_earned,notnull,default:0"`
	BesitosSpent   int64     `bun:"besitos_spent,notnull,default:0"`
	CurrentLevelID *int64    `bun:"current_level_id"`
	CreatedAt      time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt      time.Time `bun:"updated_at,notnull"`
}

type BesitoTransaction struct {
	bun.BaseModel `bun:"table:besito_transactions,alias:bt"`

	ID          int64     `bun:"id,pk,autoincrement"`
	UserID      int64     `bun:"user_id,notnull"`
	Amount      int64     `bun:"amount,notnull"`
	Type        string    `bun:"type,notnull"`
	Description string    `bun:"description"`
	ReferenceID string    `bun:"reference_id"`
	// BalanceAfter equals the aggregate total at the commit of this row.
	BalanceAfter int64     `bun:"balance_after,notnull"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// Transaction type constants
const (
	TxnMissionReward  = "MISSION_REWARD"
	TxnAdminGrant     = "ADMIN_GRANT"
	TxnEventReward    = "EVENT_REWARD"
	TxnLevelUpBonus   = "LEVEL_UP_BONUS"
	TxnPurchase       = "PURCHASE"
	TxnAutoUnlock     = "AUTO_UNLOCK"
	TxnStreakBonus    = "STREAK_BONUS"
	TxnDailyGift      = "DAILY_GIFT"
	TxnDecisionCost   = "DECISION_COST"
	TxnChallengePrize = "CHALLENGE_PRIZE"
	TxnOnboarding     = "ONBOARDING_BONUS"
	TxnWelcomeBack    = "WELCOME_BACK"
	TxnItemEffect     = "ITEM_EFFECT"
	TxnLegacyImport   = "LEGACY_IMPORT"
)

type Level struct {
	bun.BaseModel `bun:"table:levels,alias:lv"`

	ID         int64  `bun:"id,pk,autoincrement"`
	Name       string `bun:"name,notnull"`
	MinBesitos int64  `bun:"min_besitos,notnull"`
	Order      int    `bun:"level_order,notnull"`
}
