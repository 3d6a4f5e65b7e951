package rewards

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dianabot/dianabot/dianabot/database/models"
	"github.com/dianabot/dianabot/dianabot/database/repositories"
	"github.com/dianabot/dianabot/dianabot/derrors"
	"github.com/dianabot/dianabot/dianabot/economy"
	"github.com/dianabot/dianabot/dianabot/subscription"
	"github.com/uptrace/bun"
)

// Source identifies which engine asked for the grant. It maps to both the
// obtained_via audit value and the ledger transaction type.
type Source string

const (
	SourceMission    Source = "mission"
	SourceAdmin      Source = "admin"
	SourceEvent      Source = "event"
	SourceLevelUp    Source = "level_up"
	SourceAutoUnlock Source = "auto_unlock"
	SourceStreak     Source = "streak"
	SourceDailyGift  Source = "daily_gift"
	SourceChallenge  Source = "challenge"
	SourceOnboarding Source = "onboarding"
)

type sourceMapping struct {
	via     string
	txnType string
}

var sourceMap = map[Source]sourceMapping{
	SourceMission:    {models.ViaMissionReward, models.TxnMissionReward},
	SourceAdmin:      {models.ViaAdminGrant, models.TxnAdminGrant},
	SourceEvent:      {models.ViaEvent, models.TxnEventReward},
	SourceLevelUp:    {models.ViaLevelUp, models.TxnLevelUpBonus},
	SourceAutoUnlock: {models.ViaAutoUnlock, models.TxnAutoUnlock},
	SourceStreak:     {models.ViaStreakBonus, models.TxnStreakBonus},
	SourceDailyGift:  {models.ViaDailyGift, models.TxnDailyGift},
	SourceChallenge:  {models.ViaChallenge, models.TxnChallengePrize},
	SourceOnboarding: {models.ViaOnboarding, models.TxnOnboarding},
}

// Result summarizes what a dispatch actually granted.
type Result struct {
	Reward         *models.Reward
	BesitosGranted int64
	ItemSlug       string
	VIPDays        int
	UnlockedKey    string
}

// Dispatcher is the single cross-module grant path. All engines hand rewards
// here so the obtained_via / transaction-type bookkeeping stays in one place.
type Dispatcher struct {
	rewards   repositories.RewardRepository
	shop      repositories.ShopRepository
	inventory repositories.InventoryRepository
	ledger    *economy.LedgerService
	subs      *subscription.Service
}

func NewDispatcher(db bun.IDB) *Dispatcher {
	return &Dispatcher{
		rewards:   repositories.NewRewardRepository(db),
		shop:      repositories.NewShopRepository(db),
		inventory: repositories.NewInventoryRepository(db),
		ledger:    economy.NewLedgerService(db),
		subs:      subscription.NewService(db),
	}
}

// Dispatch applies the reward's effect and records the grant. Runs inside the
// caller's transaction.
func (d *Dispatcher) Dispatch(ctx context.Context, userID int64, reward *models.Reward, source Source) (*Result, error) {
	mapping, ok := sourceMap[source]
	if !ok {
		return nil, derrors.Wrap(derrors.ErrInvalidInput, "unknown reward source %q", source)
	}

	res := &Result{Reward: reward}
	refID := fmt.Sprintf("reward:%d", reward.ID)

	switch reward.Type {
	case models.RewardBesitos:
		amount := metaInt64(reward.Metadata, "amount")
		if amount <= 0 {
			return nil, derrors.Wrap(derrors.ErrNotConfigured, "reward %d has no amount", reward.ID)
		}
		if _, err := d.ledger.Grant(ctx, userID, amount, mapping.txnType, reward.Name, refID); err != nil {
			return nil, err
		}
		res.BesitosGranted = amount

	case models.RewardShopItem, models.RewardItem:
		slug := metaString(reward.Metadata, "item_slug")
		if slug == "" {
			return nil, derrors.Wrap(derrors.ErrNotConfigured, "reward %d has no item_slug", reward.ID)
		}
		if err := d.GrantItemBySlug(ctx, userID, slug, mapping.via); err != nil {
			return nil, err
		}
		res.ItemSlug = slug

	case models.RewardVIPDays:
		days := int(metaInt64(reward.Metadata, "days"))
		if days <= 0 {
			return nil, derrors.Wrap(derrors.ErrNotConfigured, "reward %d has no days", reward.ID)
		}
		if _, err := d.subs.ExtendDays(ctx, userID, days, time.Now()); err != nil {
			return nil, err
		}
		res.VIPDays = days

	case models.RewardNarrativeUnlock:
		res.UnlockedKey = metaString(reward.Metadata, "fragment_key")

	case models.RewardBadge:
		// Badges have no side effect beyond the grant record.

	default:
		return nil, derrors.Wrap(derrors.ErrNotConfigured, "reward %d has unknown type %q", reward.ID, reward.Type)
	}

	if err := d.rewards.GrantUserReward(ctx, &models.UserReward{
		UserID:      userID,
		RewardID:    reward.ID,
		ObtainedVia: mapping.via,
	}); err != nil {
		return nil, err
	}

	slog.Info("Reward dispatched",
		slog.String("type", "sys"),
		slog.Int64("user_id", userID),
		slog.String("reward", reward.Name),
		slog.String("source", string(source)),
	)
	return res, nil
}

// DispatchByID resolves the catalog entry, then dispatches.
func (d *Dispatcher) DispatchByID(ctx context.Context, userID, rewardID int64, source Source) (*Result, error) {
	reward, err := d.rewards.GetByID(ctx, rewardID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, derrors.Wrap(derrors.ErrNotFound, "reward %d", rewardID)
		}
		return nil, err
	}
	if !reward.Active {
		return nil, derrors.Wrap(derrors.ErrNotConfigured, "reward %d is inactive", rewardID)
	}
	return d.Dispatch(ctx, userID, reward, source)
}

// AutoUnlockForLevel grants every active reward gated on the level, skipping
// ones the user already holds.
func (d *Dispatcher) AutoUnlockForLevel(ctx context.Context, userID int64, level *models.Level) ([]*Result, error) {
	candidates, err := d.rewards.GetAutoUnlockable(ctx, level.ID)
	if err != nil {
		return nil, err
	}
	var results []*Result
	for _, reward := range candidates {
		owned, err := d.rewards.HasReward(ctx, userID, reward.ID)
		if err != nil {
			return nil, err
		}
		if owned {
			continue
		}
		res, err := d.Dispatch(ctx, userID, reward, SourceAutoUnlock)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// GrantItemBySlug puts a shop item in the user's inventory without a
// purchase, the path clue grants use.
func (d *Dispatcher) GrantItemBySlug(ctx context.Context, userID int64, slug, via string) error {
	item, err := d.shop.GetItemBySlug(ctx, slug)
	if err != nil {
		if repositories.IsNotFound(err) {
			return derrors.Wrap(derrors.ErrNotConfigured, "item %q does not exist", slug)
		}
		return err
	}
	if err := d.inventory.AddItem(ctx, &models.UserInventoryItem{
		UserID:      userID,
		ItemID:      item.ID,
		Quantity:    1,
		ObtainedVia: via,
	}); err != nil {
		return err
	}

	inv, err := d.inventory.GetOrCreateInventory(ctx, userID)
	if err != nil {
		return err
	}
	inv.TotalItems++
	return d.inventory.UpdateInventory(ctx, inv)
}

func metaInt64(meta map[string]interface{}, key string) int64 {
	if meta == nil {
		return 0
	}
	switch v := meta[key].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	default:
		return 0
	}
}

func metaString(meta map[string]interface{}, key string) string {
	if meta == nil {
		return ""
	}
	s, _ := meta[key].(string)
	return s
}
