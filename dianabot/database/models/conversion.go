package models

import (
	"time"

	"github.com/uptrace/bun"
)

// ConversionEvent is append-only.
type ConversionEvent struct {
	bun.BaseModel `bun:"table:conversion_events,alias:ce"`

	ID              int64     `bun:"id,pk,autoincrement"`
	UserID          int64     `bun:"user_id,notnull"`
	EventType       string    `bun:"event_type,notnull"`
	OfferType       string    `bun:"offer_type,notnull"`
	OfferDetails    string    `bun:"offer_details"`
	DiscountApplied float64   `bun:"discount_applied,notnull,default:0"`
	CreatedAt       time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// Conversion event type constants
const (
	OfferShown    = "offer_shown"
	OfferAccepted = "offer_accepted"
	OfferDeclined = "offer_declined"
)

// Offer type constants
const (
	OfferFreeToVIP         = "free_to_vip"
	OfferVIPRenewal        = "vip_renewal"
	OfferFreeToVIPDiscount = "free_to_vip_discount"
	OfferNarrativeKeys     = "narrative_keys"
	OfferNarrativeRelics   = "narrative_relics"
	OfferExclusiveBadge    = "exclusive_badge"
)
