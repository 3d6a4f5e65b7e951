package models

import (
	"time"

	"github.com/uptrace/bun"
)

type UserStreak struct {
	bun.BaseModel `bun:"table:user_streaks,alias:us"`

	UserID        int64     `bun:"user_id,pk"`
	CurrentStreak int       `bun:"current_streak,notnull,default:0"`
	LongestStreak int       `bun:"longest_streak,notnull,default:0"`
	// LastReactionDate is stored at UTC midnight of the reaction day.
	LastReactionDate time.Time `bun:"last_reaction_date"`
	UpdatedAt        time.Time `bun:"updated_at,notnull"`
}
