package conversion

import (
	"context"
	"time"

	"github.com/dianabot/dianabot/dianabot/config"
	"github.com/dianabot/dianabot/dianabot/database/models"
	"github.com/dianabot/dianabot/dianabot/database/repositories"
	"github.com/uptrace/bun"
)

// Offer is one surfaced monetization trigger. Priority 1 is highest; the
// transport shows only the first admissible offer per check.
type Offer struct {
	Type     string
	Priority int
	// Discount is a fixed percentage baked into the trigger, zero for most.
	Discount float64
}

// Engine evaluates the ordered trigger list against a user snapshot and
// enforces the per-(user, offer_type) suppression windows.
type Engine struct {
	events   repositories.ConversionRepository
	progress repositories.ProgressRepository
	subs     repositories.SubscriptionRepository
	streaks  repositories.StreakRepository
	shop     repositories.ShopRepository
	besitos  repositories.BesitosRepository
}

func NewEngine(db bun.IDB) *Engine {
	return &Engine{
		events:   repositories.NewConversionRepository(db),
		progress: repositories.NewProgressRepository(db),
		subs:     repositories.NewSubscriptionRepository(db),
		streaks:  repositories.NewStreakRepository(db),
		shop:     repositories.NewShopRepository(db),
		besitos:  repositories.NewBesitosRepository(db),
	}
}

const vipRenewalWindow = 3 * 24 * time.Hour

// Evaluate returns every trigger the user currently matches, highest priority
// first, with suppressed offer types already filtered out.
func (e *Engine) Evaluate(ctx context.Context, userID int64, now time.Time) ([]Offer, error) {
	progress, err := e.progress.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	streak, err := e.streaks.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	sub, err := e.subs.GetSubscriber(ctx, userID)
	if err != nil && !repositories.IsNotFound(err) {
		return nil, err
	}
	isVIP := sub != nil && sub.IsActive(now)

	var candidates []Offer
	if progress.ChaptersCompleted >= 3 && !isVIP {
		candidates = append(candidates, Offer{Type: models.OfferFreeToVIP, Priority: 1})
	}
	if isVIP && sub.ExpiryDate.Sub(now) <= vipRenewalWindow {
		candidates = append(candidates, Offer{Type: models.OfferVIPRenewal, Priority: 2})
	}
	if !isVIP && streak.CurrentStreak >= 5 && progress.TotalDecisions >= 20 {
		candidates = append(candidates, Offer{Type: models.OfferFreeToVIPDiscount, Priority: 3, Discount: 15})
	}
	if progress.DetectedArchetype == models.ArchetypeRomantic && progress.ArchetypeConfidence >= 0.7 {
		candidates = append(candidates, Offer{Type: models.OfferNarrativeKeys, Priority: 4})
	}
	if progress.DetectedArchetype == models.ArchetypeExplorer && progress.ArchetypeConfidence >= 0.7 {
		candidates = append(candidates, Offer{Type: models.OfferNarrativeRelics, Priority: 5})
	}
	if streak.CurrentStreak >= 14 {
		candidates = append(candidates, Offer{Type: models.OfferExclusiveBadge, Priority: 6})
	}

	offers := make([]Offer, 0, len(candidates))
	for _, offer := range candidates {
		suppressed, err := e.Suppressed(ctx, userID, offer.Type, now)
		if err != nil {
			return nil, err
		}
		if !suppressed {
			offers = append(offers, offer)
		}
	}
	return offers, nil
}

// Next returns the single offer the transport should surface, or nil.
func (e *Engine) Next(ctx context.Context, userID int64, now time.Time) (*Offer, error) {
	offers, err := e.Evaluate(ctx, userID, now)
	if err != nil || len(offers) == 0 {
		return nil, err
	}
	return &offers[0], nil
}

// Suppressed applies the dignity windows: a recent accept quiets the offer
// type for 30 days, a recent decline for 7.
func (e *Engine) Suppressed(ctx context.Context, userID int64, offerType string, now time.Time) (bool, error) {
	accepted, err := e.events.GetLastOfferEvent(ctx, userID, offerType, models.OfferAccepted)
	if err != nil {
		return false, err
	}
	if accepted != nil && now.Sub(accepted.CreatedAt) < config.AcceptedSuppressWindow {
		return true, nil
	}
	declined, err := e.events.GetLastOfferEvent(ctx, userID, offerType, models.OfferDeclined)
	if err != nil {
		return false, err
	}
	if declined != nil && now.Sub(declined.CreatedAt) < config.DeclinedSuppressWindow {
		return true, nil
	}
	return false, nil
}

// RecordShown, RecordAccepted and RecordDecline append to the event log; the
// log itself is what future suppression decisions read.

func (e *Engine) RecordShown(ctx context.Context, userID int64, offer Offer, details string, now time.Time) error {
	return e.record(ctx, userID, models.OfferShown, offer.Type, details, offer.Discount, now)
}

func (e *Engine) RecordAccepted(ctx context.Context, userID int64, offerType, details string, discount float64, now time.Time) error {
	return e.record(ctx, userID, models.OfferAccepted, offerType, details, discount, now)
}

func (e *Engine) RecordDeclined(ctx context.Context, userID int64, offerType string, now time.Time) error {
	return e.record(ctx, userID, models.OfferDeclined, offerType, "", 0, now)
}

func (e *Engine) record(ctx context.Context, userID int64, eventType, offerType, details string, discount float64, now time.Time) error {
	return e.events.Insert(ctx, &models.ConversionEvent{
		UserID:          userID,
		EventType:       eventType,
		OfferType:       offerType,
		OfferDetails:    details,
		DiscountApplied: discount,
		CreatedAt:       now,
	})
}
