package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dianabot/dianabot/dianabot/database/models"
	"github.com/uptrace/bun"
)

type InventoryRepository interface {
	GetOrCreateInventory(ctx context.Context, userID int64) (*models.UserInventory, error)
	UpdateInventory(ctx context.Context, inv *models.UserInventory) error

	GetItems(ctx context.Context, userID int64) ([]*models.UserInventoryItem, error)
	GetItem(ctx context.Context, userID, itemID int64) (*models.UserInventoryItem, error)
	GetItemForUpdate(ctx context.Context, userID, itemID int64) (*models.UserInventoryItem, error)
	AddItem(ctx context.Context, entry *models.UserInventoryItem) error
	UpdateItem(ctx context.Context, entry *models.UserInventoryItem) error

	// UnequipPeers clears is_equipped on the user's other items in the same
	// category, enforcing the one-equipped-per-category rule.
	UnequipPeers(ctx context.Context, userID, categoryID, keepItemID int64) error
	GetEquipped(ctx context.Context, userID int64) ([]*models.UserInventoryItem, error)

	// GetClueSlugs returns the slugs of clue items the user holds, for
	// requirement evaluation.
	GetClueSlugs(ctx context.Context, userID int64) ([]string, error)
	CountClues(ctx context.Context, userID int64) (int, error)
}

type inventoryRepository struct {
	db bun.IDB
}

func NewInventoryRepository(db bun.IDB) InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) GetOrCreateInventory(ctx context.Context, userID int64) (*models.UserInventory, error) {
	inv := new(models.UserInventory)
	err := r.db.NewSelect().
		Model(inv).
		Where("user_id = ?", userID).
		Scan(ctx)
	if err == nil {
		return inv, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	inv = &models.UserInventory{
		UserID:    userID,
		UpdatedAt: time.Now(),
	}
	if _, err := r.db.NewInsert().
		Model(inv).
		On("CONFLICT (user_id) DO NOTHING").
		Exec(ctx); err != nil {
		return nil, err
	}
	err = r.db.NewSelect().
		Model(inv).
		Where("user_id = ?", userID).
		Scan(ctx)
	return inv, err
}

func (r *inventoryRepository) UpdateInventory(ctx context.Context, inv *models.UserInventory) error {
	inv.UpdatedAt = time.Now()
	_, err := r.db.NewUpdate().
		Model(inv).
		WherePK().
		Exec(ctx)
	return err
}

func (r *inventoryRepository) GetItems(ctx context.Context, userID int64) ([]*models.UserInventoryItem, error) {
	var entries []*models.UserInventoryItem
	err := r.db.NewSelect().
		Model(&entries).
		Relation("Item").
		Relation("Item.Category").
		Where("uii.user_id = ?", userID).
		Order("uii.obtained_at DESC").
		Scan(ctx)
	return entries, err
}

func (r *inventoryRepository) GetItem(ctx context.Context, userID, itemID int64) (*models.UserInventoryItem, error) {
	entry := new(models.UserInventoryItem)
	err := r.db.NewSelect().
		Model(entry).
		Relation("Item").
		Where("uii.user_id = ?", userID).
		Where("uii.item_id = ?", itemID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "user_inventory_item", ID: itemID}
		}
		return nil, err
	}
	return entry, nil
}

func (r *inventoryRepository) GetItemForUpdate(ctx context.Context, userID, itemID int64) (*models.UserInventoryItem, error) {
	entry := new(models.UserInventoryItem)
	err := r.db.NewSelect().
		Model(entry).
		Where("user_id = ?", userID).
		Where("item_id = ?", itemID).
		For("UPDATE").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "user_inventory_item", ID: itemID}
		}
		return nil, err
	}
	return entry, nil
}

func (r *inventoryRepository) AddItem(ctx context.Context, entry *models.UserInventoryItem) error {
	if entry.ObtainedAt.IsZero() {
		entry.ObtainedAt = time.Now()
	}
	_, err := r.db.NewInsert().
		Model(entry).
		On("CONFLICT (user_id, item_id) DO UPDATE").
		Set("quantity = uii.quantity + EXCLUDED.quantity").
		Exec(ctx)
	return err
}

func (r *inventoryRepository) UpdateItem(ctx context.Context, entry *models.UserInventoryItem) error {
	_, err := r.db.NewUpdate().
		Model(entry).
		WherePK().
		Exec(ctx)
	return err
}

func (r *inventoryRepository) UnequipPeers(ctx context.Context, userID, categoryID, keepItemID int64) error {
	_, err := r.db.NewUpdate().
		Model((*models.UserInventoryItem)(nil)).
		Set("is_equipped = FALSE").
		Where("user_id = ?", userID).
		Where("item_id != ?", keepItemID).
		Where("is_equipped = ?", true).
		Where("item_id IN (SELECT id FROM shop_items WHERE category_id = ?)", categoryID).
		Exec(ctx)
	return err
}

func (r *inventoryRepository) GetEquipped(ctx context.Context, userID int64) ([]*models.UserInventoryItem, error) {
	var entries []*models.UserInventoryItem
	err := r.db.NewSelect().
		Model(&entries).
		Relation("Item").
		Where("uii.user_id = ?", userID).
		Where("uii.is_equipped = ?", true).
		Scan(ctx)
	return entries, err
}

func (r *inventoryRepository) GetClueSlugs(ctx context.Context, userID int64) ([]string, error) {
	var slugs []string
	err := r.db.NewSelect().
		Model((*models.UserInventoryItem)(nil)).
		ColumnExpr("si.slug").
		Join("JOIN shop_items AS si ON si.id = uii.item_id").
		Where("uii.user_id = ?", userID).
		Where("si.metadata->>'is_clue' = 'true'").
		Scan(ctx, &slugs)
	return slugs, err
}

func (r *inventoryRepository) CountClues(ctx context.Context, userID int64) (int, error) {
	return r.db.NewSelect().
		Model((*models.UserInventoryItem)(nil)).
		Join("JOIN shop_items AS si ON si.id = uii.item_id").
		Where("uii.user_id = ?", userID).
		Where("si.metadata->>'is_clue' = 'true'").
		Count(ctx)
}
