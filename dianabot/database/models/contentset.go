package models

import (
	"time"

	"github.com/uptrace/bun"
)

type ContentSet struct {
	bun.BaseModel `bun:"table:content_sets,alias:cs"`

	ID          int64                  `bun:"id,pk,autoincrement"`
	Slug        string                 `bun:"slug,notnull,unique"`
	Name        string                 `bun:"name,notnull"`
	ContentType string                 `bun:"content_type,notnull"`
	Tier        string                 `bun:"tier,notnull,default:'FREE'"`
	// FileIDs are transport-side stored media identifiers, sent as-is.
	FileIDs      []string               `bun:"file_ids,type:jsonb"`
	FileMetadata map[string]interface{} `bun:"file_metadata,type:jsonb"`
	RequiresVIP  bool                   `bun:"requires_vip,notnull,default:false"`
	IsActive     bool                   `bun:"is_active,notnull,default:true"`
	CreatedAt    time.Time              `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt    time.Time              `bun:"updated_at,notnull"`
}

// Content type constants
const (
	ContentPhotoSet = "PHOTO_SET"
	ContentVideo    = "VIDEO"
	ContentAudio    = "AUDIO"
	ContentMixed    = "MIXED"
)

// Content tier constants
const (
	TierFree    = "FREE"
	TierVIP     = "VIP"
	TierPremium = "PREMIUM"
	TierGift    = "GIFT"
)

// Access context constants
const (
	AccessNarrative = "narrative"
	AccessPurchase  = "purchase"
	AccessAdmin     = "admin_push"
)

type UserContentAccess struct {
	bun.BaseModel `bun:"table:user_content_access,alias:uca"`

	ID           int64     `bun:"id,pk,autoincrement"`
	UserID       int64     `bun:"user_id,notnull"`
	ContentSetID int64     `bun:"content_set_id,notnull"`
	Context      string    `bun:"context"`
	DeliveredAt  time.Time `bun:"delivered_at,notnull,default:current_timestamp"`
}
