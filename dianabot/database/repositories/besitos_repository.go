package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dianabot/dianabot/dianabot/database/models"
	"github.com/uptrace/bun"
)

type BesitosRepository interface {
	// GetForUpdate loads the aggregate under a row lock, creating it on first
	// use. All ledger mutations go through this single-row lock.
	GetForUpdate(ctx context.Context, userID int64) (*models.UserBesitos, error)
	Get(ctx context.Context, userID int64) (*models.UserBesitos, error)
	Update(ctx context.Context, agg *models.UserBesitos) error
	InsertTransaction(ctx context.Context, txn *models.BesitoTransaction) error
	GetTransactions(ctx context.Context, userID int64, limit int) ([]*models.BesitoTransaction, error)
	SumTransactions(ctx context.Context, userID int64) (int64, error)
	// HasTransactionSince supports once-per-window idempotency checks such as
	// the daily gift.
	HasTransactionSince(ctx context.Context, userID int64, txnType string, since time.Time) (bool, error)

	GetLevels(ctx context.Context) ([]*models.Level, error)
	GetTopBalances(ctx context.Context, limit int) ([]*models.UserBesitos, error)
}

type besitosRepository struct {
	db bun.IDB
}

func NewBesitosRepository(db bun.IDB) BesitosRepository {
	return &besitosRepository{db: db}
}

func (r *besitosRepository) GetForUpdate(ctx context.Context, userID int64) (*models.UserBesitos, error) {
	agg := new(models.UserBesitos)
	err := r.db.NewSelect().
		Model(agg).
		Where("user_id = ?", userID).
		For("UPDATE").
		Scan(ctx)
	if err == nil {
		return agg, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	agg = &models.UserBesitos{
		UserID:    userID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if _, err := r.db.NewInsert().
		Model(agg).
		On("CONFLICT (user_id) DO NOTHING").
		Exec(ctx); err != nil {
		return nil, err
	}

	// Re-read under the lock; a concurrent creator may have won the insert.
	err = r.db.NewSelect().
		Model(agg).
		Where("user_id = ?", userID).
		For("UPDATE").
		Scan(ctx)
	return agg, err
}

func (r *besitosRepository) Get(ctx context.Context, userID int64) (*models.UserBesitos, error) {
	agg := new(models.UserBesitos)
	err := r.db.NewSelect().
		Model(agg).
		Where("user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &models.UserBesitos{UserID: userID}, nil
		}
		return nil, err
	}
	return agg, nil
}

func (r *besitosRepository) Update(ctx context.Context, agg *models.UserBesitos) error {
	agg.UpdatedAt = time.Now()
	_, err := r.db.NewUpdate().
		Model(agg).
		WherePK().
		Exec(ctx)
	return err
}

func (r *besitosRepository) InsertTransaction(ctx context.Context, txn *models.BesitoTransaction) error {
	txn.CreatedAt = time.Now()
	_, err := r.db.NewInsert().Model(txn).Exec(ctx)
	return err
}

func (r *besitosRepository) GetTransactions(ctx context.Context, userID int64, limit int) ([]*models.BesitoTransaction, error) {
	var txns []*models.BesitoTransaction
	err := r.db.NewSelect().
		Model(&txns).
		Where("user_id = ?", userID).
		Order("created_at DESC", "id DESC").
		Limit(limit).
		Scan(ctx)
	return txns, err
}

func (r *besitosRepository) SumTransactions(ctx context.Context, userID int64) (int64, error) {
	var sum sql.NullInt64
	err := r.db.NewSelect().
		Model((*models.BesitoTransaction)(nil)).
		ColumnExpr("COALESCE(SUM(amount), 0)").
		Where("user_id = ?", userID).
		Scan(ctx, &sum)
	return sum.Int64, err
}

func (r *besitosRepository) HasTransactionSince(ctx context.Context, userID int64, txnType string, since time.Time) (bool, error) {
	return r.db.NewSelect().
		Model((*models.BesitoTransaction)(nil)).
		Where("user_id = ?", userID).
		Where("type = ?", txnType).
		Where("created_at >= ?", since).
		Exists(ctx)
}

func (r *besitosRepository) GetLevels(ctx context.Context) ([]*models.Level, error) {
	var levels []*models.Level
	err := r.db.NewSelect().
		Model(&levels).
		Order("level_order ASC").
		Scan(ctx)
	return levels, err
}

func (r *besitosRepository) GetTopBalances(ctx context.Context, limit int) ([]*models.UserBesitos, error) {
	var aggs []*models.UserBesitos
	err := r.db.NewSelect().
		Model(&aggs).
		Order("total_besitos DESC").
		Limit(limit).
		Scan(ctx)
	return aggs, err
}
