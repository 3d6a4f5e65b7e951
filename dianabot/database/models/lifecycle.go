package models

import (
	"time"

	"github.com/uptrace/bun"
)

type UserLifecycle struct {
	bun.BaseModel `bun:"table:user_lifecycles,alias:ul"`

	UserID       int64     `bun:"user_id,pk"`
	CurrentState string    `bun:"current_state,notnull,default:'new'"`
	LastActivity time.Time `bun:"last_activity,notnull"`
	RiskScore    int       `bun:"risk_score,notnull,default:0"`
	// MessagesSentCount counts re-engagement messages since the last return.
	MessagesSentCount int        `bun:"messages_sent_count,notnull,default:0"`
	LastMessageSent   *time.Time `bun:"last_message_sent"`
	DoNotDisturb      bool       `bun:"do_not_disturb,notnull,default:false"`
	StateChangedAt    time.Time  `bun:"state_changed_at,notnull"`
	UpdatedAt         time.Time  `bun:"updated_at,notnull"`
}

// Lifecycle state constants
const (
	StateNew     = "new"
	StateActive  = "active"
	StateAtRisk  = "at_risk"
	StateDormant = "dormant"
	StateLost    = "lost"
)

type NotificationPreferences struct {
	bun.BaseModel `bun:"table:notification_preferences,alias:np"`

	UserID int64 `bun:"user_id,pk"`

	ContentEnabled      bool `bun:"content_enabled,notnull,default:true"`
	StreakEnabled       bool `bun:"streak_enabled,notnull,default:true"`
	OfferEnabled        bool `bun:"offer_enabled,notnull,default:true"`
	ReengagementEnabled bool `bun:"reengagement_enabled,notnull,default:true"`

	// Quiet hours are a half-open local interval [start, end) that may cross
	// midnight. Equal values disable quiet hours.
	QuietHoursStart int    `bun:"quiet_hours_start,notnull,default:23"`
	QuietHoursEnd   int    `bun:"quiet_hours_end,notnull,default:9"`
	MaxMessagesPerDay int  `bun:"max_messages_per_day,notnull,default:3"`
	Timezone          string `bun:"timezone,notnull,default:'UTC'"`

	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

type ReengagementLog struct {
	bun.BaseModel `bun:"table:reengagement_logs,alias:rl"`

	ID            int64      `bun:"id,pk,autoincrement"`
	UserID        int64      `bun:"user_id,notnull"`
	MessageType   string     `bun:"message_type,notnull"`
	SentAt        time.Time  `bun:"sent_at,notnull,default:current_timestamp"`
	UserResponded bool       `bun:"user_responded,notnull,default:false"`
	ResponseAt    *time.Time `bun:"response_at"`
}
