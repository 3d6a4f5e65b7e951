package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dianabot/dianabot/dianabot/database/models"
	"github.com/uptrace/bun"
)

type ShopRepository interface {
	GetCategories(ctx context.Context) ([]*models.ItemCategory, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*models.ItemCategory, error)

	GetItem(ctx context.Context, itemID int64) (*models.ShopItem, error)
	GetItemBySlug(ctx context.Context, slug string) (*models.ShopItem, error)
	GetActiveItems(ctx context.Context) ([]*models.ShopItem, error)
	GetItemsByCategory(ctx context.Context, categoryID int64) ([]*models.ShopItem, error)
	GetFeaturedItems(ctx context.Context) ([]*models.ShopItem, error)

	// DecrementLimitedStock takes one unit under a row lock; a ConflictError
	// means the run is sold out or not live.
	DecrementLimitedStock(ctx context.Context, itemID int64, now time.Time) error
	GetLimitedStock(ctx context.Context, itemID int64) (*models.LimitedStock, error)

	InsertPurchase(ctx context.Context, purchase *models.ItemPurchase) error
	CountUserPurchases(ctx context.Context, userID, itemID int64) (int, error)
	CountPurchases(ctx context.Context, userID int64) (int, error)
	GetPurchases(ctx context.Context, userID int64, limit int) ([]*models.ItemPurchase, error)
}

type shopRepository struct {
	db bun.IDB
}

func NewShopRepository(db bun.IDB) ShopRepository {
	return &shopRepository{db: db}
}

func (r *shopRepository) GetCategories(ctx context.Context) ([]*models.ItemCategory, error) {
	var categories []*models.ItemCategory
	err := r.db.NewSelect().
		Model(&categories).
		Where("is_active = ?", true).
		Order("category_order ASC", "id ASC").
		Scan(ctx)
	return categories, err
}

func (r *shopRepository) GetCategoryBySlug(ctx context.Context, slug string) (*models.ItemCategory, error) {
	category := new(models.ItemCategory)
	err := r.db.NewSelect().
		Model(category).
		Where("slug = ?", slug).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "item_category", ID: slug}
		}
		return nil, err
	}
	return category, nil
}

func (r *shopRepository) GetItem(ctx context.Context, itemID int64) (*models.ShopItem, error) {
	item := new(models.ShopItem)
	err := r.db.NewSelect().
		Model(item).
		Relation("Category").
		Where("si.id = ?", itemID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "shop_item", ID: itemID}
		}
		return nil, err
	}
	return item, nil
}

func (r *shopRepository) GetItemBySlug(ctx context.Context, slug string) (*models.ShopItem, error) {
	item := new(models.ShopItem)
	err := r.db.NewSelect().
		Model(item).
		Relation("Category").
		Where("si.slug = ?", slug).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "shop_item", ID: slug}
		}
		return nil, err
	}
	return item, nil
}

func (r *shopRepository) GetActiveItems(ctx context.Context) ([]*models.ShopItem, error) {
	var items []*models.ShopItem
	err := r.db.NewSelect().
		Model(&items).
		Relation("Category").
		Where("si.is_active = ?", true).
		Order("si.category_id ASC", "si.id ASC").
		Scan(ctx)
	return items, err
}

func (r *shopRepository) GetItemsByCategory(ctx context.Context, categoryID int64) ([]*models.ShopItem, error) {
	var items []*models.ShopItem
	err := r.db.NewSelect().
		Model(&items).
		Where("category_id = ?", categoryID).
		Where("is_active = ?", true).
		Order("id ASC").
		Scan(ctx)
	return items, err
}

func (r *shopRepository) GetFeaturedItems(ctx context.Context) ([]*models.ShopItem, error) {
	var items []*models.ShopItem
	err := r.db.NewSelect().
		Model(&items).
		Where("is_featured = ?", true).
		Where("is_active = ?", true).
		Order("id ASC").
		Scan(ctx)
	return items, err
}

func (r *shopRepository) DecrementLimitedStock(ctx context.Context, itemID int64, now time.Time) error {
	res, err := r.db.NewUpdate().
		Model((*models.LimitedStock)(nil)).
		Set("remaining_quantity = remaining_quantity - 1").
		Where("item_id = ?", itemID).
		Where("remaining_quantity > 0").
		Where("start_date <= ?", now).
		Where("end_date IS NULL OR end_date > ?", now).
		Exec(ctx)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &ConflictError{Entity: "limited_stock", Field: "item_id", Value: itemID}
	}
	return nil
}

func (r *shopRepository) GetLimitedStock(ctx context.Context, itemID int64) (*models.LimitedStock, error) {
	stock := new(models.LimitedStock)
	err := r.db.NewSelect().
		Model(stock).
		Where("item_id = ?", itemID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return stock, nil
}

func (r *shopRepository) InsertPurchase(ctx context.Context, purchase *models.ItemPurchase) error {
	if purchase.PurchasedAt.IsZero() {
		purchase.PurchasedAt = time.Now()
	}
	_, err := r.db.NewInsert().Model(purchase).Exec(ctx)
	return err
}

func (r *shopRepository) CountUserPurchases(ctx context.Context, userID, itemID int64) (int, error) {
	return r.db.NewSelect().
		Model((*models.ItemPurchase)(nil)).
		Where("user_id = ?", userID).
		Where("item_id = ?", itemID).
		Count(ctx)
}

func (r *shopRepository) CountPurchases(ctx context.Context, userID int64) (int, error) {
	return r.db.NewSelect().
		Model((*models.ItemPurchase)(nil)).
		Where("user_id = ?", userID).
		Count(ctx)
}

func (r *shopRepository) GetPurchases(ctx context.Context, userID int64, limit int) ([]*models.ItemPurchase, error) {
	var purchases []*models.ItemPurchase
	q := r.db.NewSelect().
		Model(&purchases).
		Where("user_id = ?", userID).
		Order("purchased_at DESC", "id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Scan(ctx)
	return purchases, err
}
