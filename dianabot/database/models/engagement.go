package models

import (
	"time"

	"github.com/uptrace/bun"
)

type UserFragmentVisit struct {
	bun.BaseModel `bun:"table:user_fragment_visits,alias:ufv"`

	ID          int64  `bun:"id,pk,autoincrement"`
	UserID      int64  `bun:"user_id,notnull"`
	FragmentKey string `bun:"fragment_key,notnull"`
	VisitCount  int    `bun:"visit_count,notnull,default:1"`
	FirstVisit  time.Time `bun:"first_visit,notnull"`
	LastVisit   time.Time `bun:"last_visit,notnull"`
	// TotalTimeSeconds accumulates clamped reading intervals only.
	TotalTimeSeconds int        `bun:"total_time_seconds,notnull,default:0"`
	ReadingStartedAt *time.Time `bun:"reading_started_at"`
}

type NarrativeCooldown struct {
	bun.BaseModel `bun:"table:narrative_cooldowns,alias:ncd"`

	ID           int64     `bun:"id,pk,autoincrement"`
	UserID       int64     `bun:"user_id,notnull"`
	CooldownType string    `bun:"cooldown_type,notnull"`
	TargetKey    string    `bun:"target_key,notnull"`
	StartedAt    time.Time `bun:"started_at,notnull"`
	ExpiresAt    time.Time `bun:"expires_at,notnull"`
	// NarrativeMessage is shown instead of a bare "wait" error.
	NarrativeMessage string `bun:"narrative_message"`
}

// Cooldown type constants
const (
	CooldownFragment  = "FRAGMENT"
	CooldownChapter   = "CHAPTER"
	CooldownDecision  = "DECISION"
	CooldownChallenge = "CHALLENGE"
)

func (c *NarrativeCooldown) Remaining(now time.Time) time.Duration {
	if now.After(c.ExpiresAt) {
		return 0
	}
	return c.ExpiresAt.Sub(now)
}

// FragmentTimeWindow restricts when a fragment is available. A fragment is
// available iff all present filters admit the current UTC instant.
type FragmentTimeWindow struct {
	bun.BaseModel `bun:"table:fragment_time_windows,alias:ftw"`

	ID          int64  `bun:"id,pk,autoincrement"`
	FragmentKey string `bun:"fragment_key,notnull,unique"`
	// AvailableHours are UTC hours 0..23; empty means any hour.
	AvailableHours []int `bun:"available_hours,type:jsonb"`
	// AvailableDays are weekdays 0=Sunday..6=Saturday; empty means any day.
	AvailableDays []int `bun:"available_days,type:jsonb"`
	// SpecialDates are "MM-DD" strings; inclusive adds them to the window,
	// exclusive removes them from it.
	SpecialDates          []string `bun:"special_dates,type:jsonb"`
	SpecialDatesInclusive bool     `bun:"special_dates_inclusive,notnull,default:true"`
	UnavailableMessage    string   `bun:"unavailable_message"`
}

type DailyNarrativeLimit struct {
	bun.BaseModel `bun:"table:daily_narrative_limits,alias:dnl"`

	ID                  int64     `bun:"id,pk,autoincrement"`
	UserID              int64     `bun:"user_id,notnull,unique"`
	LimitDate           time.Time `bun:"limit_date,notnull"`
	FragmentsViewed     int       `bun:"fragments_viewed,notnull,default:0"`
	DecisionsMade       int       `bun:"decisions_made,notnull,default:0"`
	ChallengesAttempted int       `bun:"challenges_attempted,notnull,default:0"`
	// Per-user overrides; 0 falls back to the configured defaults.
	MaxFragments  int `bun:"max_fragments,notnull,default:0"`
	MaxDecisions  int `bun:"max_decisions,notnull,default:0"`
	MaxChallenges int `bun:"max_challenges,notnull,default:0"`
}
