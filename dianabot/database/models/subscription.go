package models

import (
	"time"

	"github.com/uptrace/bun"
)

type SubscriptionPlan struct {
	bun.BaseModel `bun:"table:subscription_plans,alias:sp"`

	ID           int64     `bun:"id,pk,autoincrement"`
	Name         string    `bun:"name,notnull"`
	DurationDays int       `bun:"duration_days,notnull"`
	Price        float64   `bun:"price,notnull"`
	Currency     string    `bun:"currency,notnull,default:'EUR'"`
	Active       bool      `bun:"active,notnull,default:true"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

type InvitationToken struct {
	bun.BaseModel `bun:"table:invitation_tokens,alias:it"`

	ID            int64      `bun:"id,pk,autoincrement"`
	Token         string     `bun:"token,notnull,unique"`
	GeneratedBy   int64      `bun:"generated_by,notnull"`
	CreatedAt     time.Time  `bun:"created_at,notnull,default:current_timestamp"`
	DurationHours int        `bun:"duration_hours,notnull"`
	Used          bool       `bun:"used,notnull,default:false"`
	UsedBy        *int64     `bun:"used_by"`
	UsedAt        *time.Time `bun:"used_at"`
	PlanID        *int64     `bun:"plan_id"`

	Plan *SubscriptionPlan `bun:"rel:belongs-to,join:plan_id=id"`
}

// IsValid reports whether the token can still be redeemed at the given instant.
func (t *InvitationToken) IsValid(now time.Time) bool {
	if t.Used {
		return false
	}
	return now.Before(t.CreatedAt.Add(time.Duration(t.DurationHours) * time.Hour))
}

type VIPSubscriber struct {
	bun.BaseModel `bun:"table:vip_subscribers,alias:vs"`

	ID         int64     `bun:"id,pk,autoincrement"`
	UserID     int64     `bun:"user_id,notnull,unique"`
	JoinDate   time.Time `bun:"join_date,notnull"`
	ExpiryDate time.Time `bun:"expiry_date,notnull"`
	Status     string    `bun:"status,notnull,default:'active'"`
	// TokenID is null when the subscription was granted by a reward.
	TokenID   *int64    `bun:"token_id"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// Subscription status constants
const (
	SubscriptionActive  = "active"
	SubscriptionExpired = "expired"
)

func (s *VIPSubscriber) IsActive(now time.Time) bool {
	return s.Status == SubscriptionActive && !now.After(s.ExpiryDate)
}
