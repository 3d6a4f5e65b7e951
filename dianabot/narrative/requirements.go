package narrative

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/dianabot/dianabot/dianabot/database/models"
	"github.com/dianabot/dianabot/dianabot/database/repositories"
	"github.com/dianabot/dianabot/dianabot/derrors"
	"github.com/uptrace/bun"
)

// RequirementEvaluator checks the requirement conjunction of a fragment
// against a user context. Requirement values follow these formats:
//
//	VIP              — (no value)
//	MIN_BESITOS      — "N"
//	ARCHETYPE        — archetype name
//	DECISION         — "fragment_key:decision_id"
//	ITEM, HAS_CLUE   — item slug
//	VISITED          — fragment key
//	VISIT_COUNT      — "fragment_key:N" (at least N visits)
//	TIME_SPENT       — "fragment_key:N" (at least N seconds)
//	COOLDOWN_PASSED  — fragment key (no active FRAGMENT cooldown on it)
//	TIME_WINDOW      — fragment key whose window must admit now
//	CHAPTER_COMPLETE — chapter slug
type RequirementEvaluator struct {
	engagement repositories.EngagementRepository
	inventory  repositories.InventoryRepository
	narrative  repositories.NarrativeRepository
}

func NewRequirementEvaluator(db bun.IDB) *RequirementEvaluator {
	return &RequirementEvaluator{
		engagement: repositories.NewEngagementRepository(db),
		inventory:  repositories.NewInventoryRepository(db),
		narrative:  repositories.NewNarrativeRepository(db),
	}
}

// Evaluate returns nil when every requirement holds, or a domain error
// naming the first one that failed.
func (e *RequirementEvaluator) Evaluate(ctx context.Context, reqs []*models.FragmentRequirement, uctx *UserContext) error {
	for _, req := range reqs {
		if err := e.evaluateOne(ctx, req, uctx); err != nil {
			return err
		}
	}
	return nil
}

func (e *RequirementEvaluator) evaluateOne(ctx context.Context, req *models.FragmentRequirement, uctx *UserContext) error {
	value := strings.TrimSpace(req.RequirementValue)

	switch req.RequirementType {
	case models.ReqNone, "":
		return nil

	case models.ReqVIP:
		if !uctx.IsVIP {
			return derrors.Wrap(derrors.ErrPermissionDenied, "requires an active VIP subscription")
		}

	case models.ReqMinBesitos:
		min, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return derrors.Wrap(derrors.ErrNotConfigured, "bad MIN_BESITOS value %q", value)
		}
		if uctx.Besitos < min {
			return derrors.Wrap(derrors.ErrInsufficientFunds, "requires %d besitos, you have %d", min, uctx.Besitos)
		}

	case models.ReqArchetype:
		if !strings.EqualFold(uctx.Archetype, value) {
			return derrors.Wrap(derrors.ErrPermissionDenied, "this path is not for you yet")
		}

	case models.ReqDecision:
		if !uctx.TakenDecisions[value] {
			return derrors.Wrap(derrors.ErrPermissionDenied, "an earlier choice is missing")
		}

	case models.ReqItem, models.ReqHasClue:
		if !uctx.HasClue(value) {
			owned, err := e.ownsItem(ctx, uctx.UserID, value)
			if err != nil {
				return err
			}
			if !owned {
				return derrors.Wrap(derrors.ErrPermissionDenied, "you are missing %s", value)
			}
		}

	case models.ReqVisited:
		visited, err := e.visitCount(ctx, uctx.UserID, value)
		if err != nil {
			return err
		}
		if visited == 0 {
			return derrors.Wrap(derrors.ErrPermissionDenied, "you have not been there yet")
		}

	case models.ReqVisitCount:
		key, min, err := splitKeyedThreshold(value)
		if err != nil {
			return derrors.Wrap(derrors.ErrNotConfigured, "bad VISIT_COUNT value %q", value)
		}
		visited, err := e.visitCount(ctx, uctx.UserID, key)
		if err != nil {
			return err
		}
		if visited < min {
			return derrors.Wrap(derrors.ErrPermissionDenied, "you need to return there more often")
		}

	case models.ReqTimeSpent:
		key, min, err := splitKeyedThreshold(value)
		if err != nil {
			return derrors.Wrap(derrors.ErrNotConfigured, "bad TIME_SPENT value %q", value)
		}
		visit, err := e.engagement.GetVisit(ctx, uctx.UserID, key)
		if err != nil {
			if repositories.IsNotFound(err) {
				return derrors.Wrap(derrors.ErrPermissionDenied, "you have not spent enough time there")
			}
			return err
		}
		if visit.TotalTimeSeconds < min {
			return derrors.Wrap(derrors.ErrPermissionDenied, "you have not spent enough time there")
		}

	case models.ReqCooldownPassed:
		cd, err := e.engagement.GetActiveCooldown(ctx, uctx.UserID, models.CooldownFragment, value, uctx.Now)
		if err != nil {
			return err
		}
		if cd != nil {
			return derrors.Wrap(derrors.ErrCooldownActive, "%s", cooldownMessage(cd, uctx))
		}

	case models.ReqTimeWindow:
		window, err := e.narrative.GetTimeWindow(ctx, value)
		if err != nil {
			return err
		}
		if !WindowAdmits(window, uctx.Now) {
			msg := "this moment has not arrived yet"
			if window != nil && window.UnavailableMessage != "" {
				msg = window.UnavailableMessage
			}
			return derrors.Wrap(derrors.ErrPermissionDenied, "%s", msg)
		}

	case models.ReqChapterComplete:
		if !uctx.CompletedChapters[value] {
			return derrors.Wrap(derrors.ErrPermissionDenied, "finish the earlier chapter first")
		}

	default:
		return derrors.Wrap(derrors.ErrNotConfigured, "unknown requirement type %q", req.RequirementType)
	}
	return nil
}

func (e *RequirementEvaluator) ownsItem(ctx context.Context, userID int64, slug string) (bool, error) {
	items, err := e.inventory.GetItems(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, entry := range items {
		if entry.Item != nil && entry.Item.Slug == slug && entry.Quantity > 0 {
			return true, nil
		}
	}
	return false, nil
}

func (e *RequirementEvaluator) visitCount(ctx context.Context, userID int64, fragmentKey string) (int, error) {
	visit, err := e.engagement.GetVisit(ctx, userID, fragmentKey)
	if err != nil {
		if repositories.IsNotFound(err) {
			return 0, nil
		}
		return 0, err
	}
	return visit.VisitCount, nil
}

func splitKeyedThreshold(value string) (string, int, error) {
	idx := strings.LastIndex(value, ":")
	if idx <= 0 {
		return "", 0, strconv.ErrSyntax
	}
	n, err := strconv.Atoi(strings.TrimSpace(value[idx+1:]))
	if err != nil {
		return "", 0, err
	}
	return value[:idx], n, nil
}

func cooldownMessage(cd *models.NarrativeCooldown, uctx *UserContext) string {
	if cd.NarrativeMessage != "" {
		return cd.NarrativeMessage
	}
	return "still too soon, wait " + cd.Remaining(uctx.Now).Round(time.Second).String()
}
