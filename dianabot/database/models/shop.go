package models

import (
	"time"

	"github.com/uptrace/bun"
)

type ItemCategory struct {
	bun.BaseModel `bun:"table:item_categories,alias:ic"`

	ID        int64     `bun:"id,pk,autoincrement"`
	Slug      string    `bun:"slug,notnull,unique"`
	Name      string    `bun:"name,notnull"`
	Order     int       `bun:"category_order,notnull,default:0"`
	IsActive  bool      `bun:"is_active,notnull,default:true"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

type ShopItem struct {
	bun.BaseModel `bun:"table:shop_items,alias:si"`

	ID           int64                  `bun:"id,pk,autoincrement"`
	Slug         string                 `bun:"slug,notnull,unique"`
	CategoryID   int64                  `bun:"category_id,notnull"`
	Name         string                 `bun:"name,notnull"`
	Description  string                 `bun:"description"`
	Type         string                 `bun:"type,notnull"`
	Rarity       string                 `bun:"rarity,notnull,default:'common'"`
	PriceBesitos int64                  `bun:"price_besitos,notnull"`
	Icon         string                 `bun:"icon"`
	Metadata     map[string]interface{} `bun:"metadata,type:jsonb"`
	ContentSetID *int64                 `bun:"content_set_id"`
	// Stock of nil means unlimited; limited editions use LimitedStock rows.
	Stock       *int  `bun:"stock"`
	MaxPerUser  *int  `bun:"max_per_user"`
	RequiresVIP bool  `bun:"requires_vip,notnull,default:false"`
	IsFeatured  bool  `bun:"is_featured,notnull,default:false"`
	IsActive    bool  `bun:"is_active,notnull,default:true"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`

	Category *ItemCategory `bun:"rel:belongs-to,join:category_id=id"`
}

// Shop item type constants
const (
	ItemEquippable = "equippable"
	ItemConsumable = "consumable"
	ItemNarrative  = "narrative"
	ItemCosmetic   = "cosmetic"
)

// Rarity constants
const (
	RarityCommon    = "common"
	RarityRare      = "rare"
	RarityEpic      = "epic"
	RarityLegendary = "legendary"
)

// IsClue reports whether the item's metadata carries the is_clue flag. Clues
// are narrative items used as requirement predicates.
func (i *ShopItem) IsClue() bool {
	if i.Metadata == nil {
		return false
	}
	v, ok := i.Metadata["is_clue"].(bool)
	return ok && v
}

type UserInventory struct {
	bun.BaseModel `bun:"table:user_inventories,alias:uinv"`

	UserID         int64     `bun:"user_id,pk"`
	TotalItems     int       `bun:"total_items,notnull,default:0"`
	TotalSpent     int64     `bun:"total_spent,notnull,default:0"`
	FavoriteItemID *int64    `bun:"favorite_item_id"`
	UpdatedAt      time.Time `bun:"updated_at,notnull"`
}

type UserInventoryItem struct {
	bun.BaseModel `bun:"table:user_inventory_items,alias:uii"`

	ID          int64      `bun:"id,pk,autoincrement"`
	UserID      int64      `bun:"user_id,notnull"`
	ItemID      int64      `bun:"item_id,notnull"`
	Quantity    int        `bun:"quantity,notnull,default:1"`
	ObtainedAt  time.Time  `bun:"obtained_at,notnull"`
	ObtainedVia string     `bun:"obtained_via,notnull"`
	IsEquipped  bool       `bun:"is_equipped,notnull,default:false"`
	IsUsed      bool       `bun:"is_used,notnull,default:false"`
	UsedAt      *time.Time `bun:"used_at"`

	Item *ShopItem `bun:"rel:belongs-to,join:item_id=id"`
}

// ItemPurchase is append-only.
type ItemPurchase struct {
	bun.BaseModel `bun:"table:item_purchases,alias:ip"`

	ID          int64     `bun:"id,pk,autoincrement"`
	UserID      int64     `bun:"user_id,notnull"`
	ItemID      int64     `bun:"item_id,notnull"`
	Quantity    int       `bun:"quantity,notnull,default:1"`
	PricePaid   int64     `bun:"price_paid,notnull"`
	ReferenceID string    `bun:"reference_id,notnull"`
	PurchasedAt time.Time `bun:"purchased_at,notnull,default:current_timestamp"`
}

type LimitedStock struct {
	bun.BaseModel `bun:"table:limited_stocks,alias:ls"`

	ID                int64      `bun:"id,pk,autoincrement"`
	ItemID            int64      `bun:"item_id,notnull,unique"`
	InitialQuantity   int        `bun:"initial_quantity,notnull"`
	RemainingQuantity int        `bun:"remaining_quantity,notnull"`
	StartDate         time.Time  `bun:"start_date,notnull"`
	EndDate           *time.Time `bun:"end_date"`
}

// IsLive reports whether the limited run admits purchases at the instant.
func (s *LimitedStock) IsLive(now time.Time) bool {
	if now.Before(s.StartDate) {
		return false
	}
	return s.EndDate == nil || now.Before(*s.EndDate)
}
