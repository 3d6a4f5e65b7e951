package models

import (
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	// TelegramID is the external 64-bit identity and the primary key.
	TelegramID int64  `bun:"telegram_id,pk"`
	Username   string `bun:"username"`
	FirstName  string `bun:"first_name"`
	LastName   string `bun:"last_name"`

	// Role is the currently observable tier. The authoritative VIP lifetime
	// lives on VIPSubscriber.
	Role string `bun:"role,notnull,default:'FREE'"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// Role constants
const (
	RoleFree  = "FREE"
	RoleVIP   = "VIP"
	RoleAdmin = "ADMIN"
)

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) DisplayName() string {
	if u.Username != "" {
		return "@" + u.Username
	}
	return u.FirstName
}
