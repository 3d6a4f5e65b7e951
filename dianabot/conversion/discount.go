package conversion

import (
	"context"
	"time"

	"github.com/dianabot/dianabot/dianabot/config"
	"github.com/dianabot/dianabot/dianabot/database/models"
)

// archetypeAffinity maps each archetype to the shop category it gravitates
// toward. A confident match earns the small affinity discount.
var archetypeAffinity = map[string]string{
	models.ArchetypeExplorer:   "narrative",
	models.ArchetypeRomantic:   "narrative",
	models.ArchetypeAnalytical: "consumable",
	models.ArchetypePersistent: "cosmetic",
	models.ArchetypePatient:    "cosmetic",
	models.ArchetypeDirect:     "consumable",
}

// DiscountComponent is one additive slice of the final percentage with its
// display reason.
type DiscountComponent struct {
	Percent float64
	Reason  string
}

// DiscountQuote is the stacked, capped result.
type DiscountQuote struct {
	Percent    float64
	Components []DiscountComponent
}

// ComputeDiscount stacks the component percentages and caps the sum. Pure; the
// caller gathers the inputs.
func ComputeDiscount(levelOrder, currentStreak int, firstPurchase bool, archetype string, confidence float64, categorySlug string) DiscountQuote {
	var quote DiscountQuote

	add := func(pct float64, reason string) {
		if pct <= 0 {
			return
		}
		quote.Components = append(quote.Components, DiscountComponent{Percent: pct, Reason: reason})
		quote.Percent += pct
	}

	// One point per level, capped.
	add(capFloat(float64(levelOrder), config.MaxLevelDiscount), "nivel")
	// One point per streak day, capped.
	add(capFloat(float64(currentStreak), config.MaxStreakDiscount), "racha")
	if firstPurchase {
		add(config.FirstPurchaseDiscount, "primera compra")
	}
	if confidence >= config.ArchetypeDiscountMinConfidence && archetypeAffinity[archetype] == categorySlug {
		add(config.MaxArchetypeDiscount, "afinidad")
	}

	if quote.Percent > config.MaxDiscountPercent {
		quote.Percent = config.MaxDiscountPercent
	}
	return quote
}

// QuoteFor assembles the inputs from storage and returns the stacked discount
// for an item in the given category.
func (e *Engine) QuoteFor(ctx context.Context, userID int64, categorySlug string, now time.Time) (DiscountQuote, error) {
	progress, err := e.progress.GetOrCreate(ctx, userID)
	if err != nil {
		return DiscountQuote{}, err
	}
	streak, err := e.streaks.GetOrCreate(ctx, userID)
	if err != nil {
		return DiscountQuote{}, err
	}
	purchases, err := e.shop.CountPurchases(ctx, userID)
	if err != nil {
		return DiscountQuote{}, err
	}

	levelOrder := 0
	agg, err := e.besitos.Get(ctx, userID)
	if err != nil {
		return DiscountQuote{}, err
	}
	if agg.CurrentLevelID != nil {
		levels, err := e.besitos.GetLevels(ctx)
		if err != nil {
			return DiscountQuote{}, err
		}
		for _, lv := range levels {
			if lv.ID == *agg.CurrentLevelID {
				levelOrder = lv.Order
				break
			}
		}
	}

	return ComputeDiscount(
		levelOrder,
		streak.CurrentStreak,
		purchases == 0,
		progress.DetectedArchetype,
		progress.ArchetypeConfidence,
		categorySlug,
	), nil
}

func capFloat(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	return v
}
