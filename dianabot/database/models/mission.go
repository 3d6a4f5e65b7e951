package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Mission struct {
	bun.BaseModel `bun:"table:missions,alias:m"`

	ID            int64           `bun:"id,pk,autoincrement"`
	MissionKey    string          `bun:"mission_key,notnull,unique"`
	Name          string          `bun:"name,notnull"`
	Description   string          `bun:"description"`
	Type          string          `bun:"type,notnull"`
	Criteria      MissionCriteria `bun:"criteria,type:jsonb"`
	BesitosReward int64           `bun:"besitos_reward,notnull,default:0"`
	Active        bool            `bun:"active,notnull,default:true"`
	CreatedAt     time.Time       `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt     time.Time       `bun:"updated_at,notnull"`
}

// MissionCriteria is a structured predicate over user events. EventType names
// the event class; Count is the threshold; StreakDays applies to STREAK
// missions only.
type MissionCriteria struct {
	EventType  string `json:"event_type"`
	Count      int    `json:"count"`
	StreakDays int    `json:"streak_days,omitempty"`
}

// Mission type constants
const (
	MissionOneTime = "ONE_TIME"
	MissionDaily   = "DAILY"
	MissionWeekly  = "WEEKLY"
	MissionStreak  = "STREAK"
)

// Mission event type constants
const (
	EventDecisionTaken     = "decision_taken"
	EventFragmentVisited   = "fragment_visited"
	EventChapterCompleted  = "chapter_completed"
	EventChallengeSolved   = "challenge_solved"
	EventDailyGiftClaimed  = "daily_gift_claimed"
	EventItemPurchased     = "item_purchased"
	EventReactionStreak    = "reaction_streak"
	EventOnboardingDone    = "onboarding_completed"
)

type UserMission struct {
	bun.BaseModel `bun:"table:user_missions,alias:um"`

	ID        int64 `bun:"id,pk,autoincrement"`
	UserID    int64 `bun:"user_id,notnull"`
	MissionID int64 `bun:"mission_id,notnull"`
	Status    string `bun:"status,notnull,default:'IN_PROGRESS'"`
	Progress  int    `bun:"progress,notnull,default:0"`
	// WindowStart plus the mission type determines the reset boundary for
	// DAILY and WEEKLY missions. ONE_TIME and STREAK use the zero value.
	WindowStart time.Time  `bun:"window_start,notnull"`
	CompletedAt *time.Time `bun:"completed_at"`
	ClaimedAt   *time.Time `bun:"claimed_at"`
	CreatedAt   time.Time  `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt   time.Time  `bun:"updated_at,notnull"`

	Mission *Mission `bun:"rel:belongs-to,join:mission_id=id"`
}

// UserMission status constants
const (
	MissionInProgress = "IN_PROGRESS"
	MissionCompleted  = "COMPLETED"
	MissionClaimed    = "CLAIMED"
)
