package shop

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
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// PurchaseResult carries what the confirmation message needs.
type PurchaseResult struct {
	Item      *models.ShopItem
	PricePaid int64
	Balance   int64
	Reference string
}

// Service owns shop purchases and inventory actions. Purchase is fully
// transactional; every guard and mutation commits or rolls back together.
type Service struct {
	shop      repositories.ShopRepository
	inventory repositories.InventoryRepository
	ledger    *economy.LedgerService
	missions  *economy.MissionService
	subs      *subscription.Service
}

func NewService(db bun.IDB) *Service {
	return &Service{
		shop:      repositories.NewShopRepository(db),
		inventory: repositories.NewInventoryRepository(db),
		ledger:    economy.NewLedgerService(db),
		missions:  economy.NewMissionService(db),
		subs:      subscription.NewService(db),
	}
}

func (s *Service) Catalog(ctx context.Context) ([]*models.ItemCategory, error) {
	return s.shop.GetCategories(ctx)
}

func (s *Service) ItemsIn(ctx context.Context, categoryID int64) ([]*models.ShopItem, error) {
	return s.shop.GetItemsByCategory(ctx, categoryID)
}

func (s *Service) Featured(ctx context.Context) ([]*models.ShopItem, error) {
	return s.shop.GetFeaturedItems(ctx)
}

func (s *Service) Item(ctx context.Context, itemID int64) (*models.ShopItem, error) {
	item, err := s.shop.GetItem(ctx, itemID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, derrors.Wrap(derrors.ErrNotFound, "item %d", itemID)
		}
		return nil, err
	}
	return item, nil
}

// Purchase validates every guard, atomically takes limited stock, debits the
// price, and lands the item in the inventory.
func (s *Service) Purchase(ctx context.Context, userID, itemID int64, now time.Time) (*PurchaseResult, error) {
	item, err := s.Item(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !item.IsActive {
		return nil, derrors.Wrap(derrors.ErrNotFound, "item %d is retired", itemID)
	}

	if item.RequiresVIP {
		vip, err := s.subs.IsVIPActive(ctx, userID, now)
		if err != nil {
			return nil, err
		}
		if !vip {
			return nil, derrors.Wrap(derrors.ErrPermissionDenied, "item %q is VIP only", item.Slug)
		}
	}

	if item.MaxPerUser != nil {
		bought, err := s.shop.CountUserPurchases(ctx, userID, itemID)
		if err != nil {
			return nil, err
		}
		if bought >= *item.MaxPerUser {
			return nil, derrors.Wrap(derrors.ErrAlreadyOwned, "max %d of %q per user", *item.MaxPerUser, item.Slug)
		}
	}

	stock, err := s.shop.GetLimitedStock(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if stock != nil {
		if !stock.IsLive(now) {
			return nil, derrors.Wrap(derrors.ErrOutOfStock, "limited run for %q is not live", item.Slug)
		}
		// The guarded decrement is what makes concurrent purchases settle to
		// exactly one winner per remaining unit.
		if err := s.shop.DecrementLimitedStock(ctx, itemID, now); err != nil {
			if repositories.IsConflict(err) {
				return nil, derrors.Wrap(derrors.ErrOutOfStock, "%q is sold out", item.Slug)
			}
			return nil, err
		}
	}

	reference := uuid.NewString()
	ledgerRes, err := s.ledger.Spend(ctx, userID, item.PriceBesitos,
		models.TxnPurchase,
		fmt.Sprintf("Compra: %s", item.Name),
		reference)
	if err != nil {
		return nil, err
	}

	if err := s.shop.InsertPurchase(ctx, &models.ItemPurchase{
		UserID:      userID,
		ItemID:      itemID,
		Quantity:    1,
		PricePaid:   item.PriceBesitos,
		ReferenceID: reference,
		PurchasedAt: now,
	}); err != nil {
		return nil, err
	}

	if err := s.inventory.AddItem(ctx, &models.UserInventoryItem{
		UserID:      userID,
		ItemID:      itemID,
		Quantity:    1,
		ObtainedAt:  now,
		ObtainedVia: models.ViaPurchase,
	}); err != nil {
		return nil, err
	}

	inv, err := s.inventory.GetOrCreateInventory(ctx, userID)
	if err != nil {
		return nil, err
	}
	inv.TotalItems++
	inv.TotalSpent += item.PriceBesitos
	if err := s.inventory.UpdateInventory(ctx, inv); err != nil {
		return nil, err
	}

	if _, err := s.missions.RecordEvent(ctx, userID, models.EventItemPurchased, now); err != nil {
		return nil, err
	}

	slog.Info("Item purchased",
		slog.String("type", "sys"),
		slog.Int64("user_id", userID),
		slog.String("item", item.Slug),
		slog.Int64("price", item.PriceBesitos),
	)
	return &PurchaseResult{
		Item:      item,
		PricePaid: item.PriceBesitos,
		Balance:   ledgerRes.Balance,
		Reference: reference,
	}, nil
}

// Consume uses one unit of a consumable, applying its effect and decrementing
// or removing the inventory row.
func (s *Service) Consume(ctx context.Context, userID, itemID int64, now time.Time) (*models.ShopItem, error) {
	entry, err := s.inventory.GetItemForUpdate(ctx, userID, itemID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, derrors.Wrap(derrors.ErrNotFound, "you do not own item %d", itemID)
		}
		return nil, err
	}
	item, err := s.Item(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.Type != models.ItemConsumable {
		return nil, derrors.Wrap(derrors.ErrInvalidInput, "%q cannot be used", item.Slug)
	}
	if entry.Quantity < 1 {
		return nil, derrors.Wrap(derrors.ErrNotFound, "no %q left", item.Slug)
	}

	entry.Quantity--
	entry.IsUsed = true
	at := now
	entry.UsedAt = &at
	if err := s.inventory.UpdateItem(ctx, entry); err != nil {
		return nil, err
	}

	// Consumable effect: besitos grants keyed in metadata.
	if amount := metaInt64(item.Metadata, "besitos"); amount > 0 {
		if _, err := s.ledger.Grant(ctx, userID, amount,
			models.TxnItemEffect,
			fmt.Sprintf("Efecto de %s", item.Name),
			fmt.Sprintf("item:%d", item.ID)); err != nil {
			return nil, err
		}
	}

	inv, err := s.inventory.GetOrCreateInventory(ctx, userID)
	if err != nil {
		return nil, err
	}
	if inv.TotalItems > 0 {
		inv.TotalItems--
	}
	if err := s.inventory.UpdateInventory(ctx, inv); err != nil {
		return nil, err
	}
	return item, nil
}

// Equip marks the item equipped and unequips peers in the same category.
func (s *Service) Equip(ctx context.Context, userID, itemID int64) error {
	entry, err := s.inventory.GetItemForUpdate(ctx, userID, itemID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return derrors.Wrap(derrors.ErrNotFound, "you do not own item %d", itemID)
		}
		return err
	}
	item, err := s.Item(ctx, itemID)
	if err != nil {
		return err
	}
	if item.Type != models.ItemEquippable && item.Type != models.ItemCosmetic {
		return derrors.Wrap(derrors.ErrInvalidInput, "%q cannot be equipped", item.Slug)
	}

	if err := s.inventory.UnequipPeers(ctx, userID, item.CategoryID, itemID); err != nil {
		return err
	}
	entry.IsEquipped = true
	return s.inventory.UpdateItem(ctx, entry)
}

func (s *Service) Unequip(ctx context.Context, userID, itemID int64) error {
	entry, err := s.inventory.GetItemForUpdate(ctx, userID, itemID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return derrors.Wrap(derrors.ErrNotFound, "you do not own item %d", itemID)
		}
		return err
	}
	entry.IsEquipped = false
	return s.inventory.UpdateItem(ctx, entry)
}

func (s *Service) SetFavorite(ctx context.Context, userID, itemID int64) error {
	if _, err := s.inventory.GetItem(ctx, userID, itemID); err != nil {
		if repositories.IsNotFound(err) {
			return derrors.Wrap(derrors.ErrNotFound, "you do not own item %d", itemID)
		}
		return err
	}
	inv, err := s.inventory.GetOrCreateInventory(ctx, userID)
	if err != nil {
		return err
	}
	inv.FavoriteItemID = &itemID
	return s.inventory.UpdateInventory(ctx, inv)
}

// Backpack lists the inventory, optionally filtered by item type.
func (s *Service) Backpack(ctx context.Context, userID int64, itemType string) ([]*models.UserInventoryItem, error) {
	entries, err := s.inventory.GetItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	if itemType == "" {
		return entries, nil
	}
	filtered := entries[:0]
	for _, e := range entries {
		if e.Item != nil && e.Item.Type == itemType {
			filtered = append(filtered, e)
		}
	}
	return filtered, nil
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
