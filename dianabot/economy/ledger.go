package economy

import (
	"context"
	"log/slog"
	"time"

	"github.com/dianabot/dianabot/dianabot/database/models"
	"github.com/dianabot/dianabot/dianabot/database/repositories"
	"github.com/dianabot/dianabot/dianabot/derrors"
	"github.com/uptrace/bun"
)

// LedgerResult reports the outcome of a ledger mutation. NewLevel is set only
// when the mutation crossed a level boundary.
type LedgerResult struct {
	Txn       *models.BesitoTransaction
	Balance   int64
	NewLevel  *models.Level
	LeveledUp bool
}

// LedgerService owns all besitos mutations. Every grant and spend runs under
// the per-user aggregate row lock and appends a transaction carrying
// balance_after, so the log stays the canonical history.
type LedgerService struct {
	besitos repositories.BesitosRepository
}

func NewLedgerService(db bun.IDB) *LedgerService {
	return &LedgerService{
		besitos: repositories.NewBesitosRepository(db),
	}
}

func (s *LedgerService) Grant(ctx context.Context, userID, amount int64, txnType, description, referenceID string) (*LedgerResult, error) {
	if amount <= 0 {
		return nil, derrors.Wrap(derrors.ErrInvalidInput, "grant amount must be positive, got %d", amount)
	}
	return s.apply(ctx, userID, amount, txnType, description, referenceID)
}

func (s *LedgerService) Spend(ctx context.Context, userID, amount int64, txnType, description, referenceID string) (*LedgerResult, error) {
	if amount <= 0 {
		return nil, derrors.Wrap(derrors.ErrInvalidInput, "spend amount must be positive, got %d", amount)
	}
	return s.apply(ctx, userID, -amount, txnType, description, referenceID)
}

func (s *LedgerService) Balance(ctx context.Context, userID int64) (int64, error) {
	agg, err := s.besitos.Get(ctx, userID)
	if err != nil {
		return 0, err
	}
	return agg.TotalBesitos, nil
}

func (s *LedgerService) History(ctx context.Context, userID int64, limit int) ([]*models.BesitoTransaction, error) {
	return s.besitos.GetTransactions(ctx, userID, limit)
}

func (s *LedgerService) apply(ctx context.Context, userID, amount int64, txnType, description, referenceID string) (*LedgerResult, error) {
	agg, err := s.besitos.GetForUpdate(ctx, userID)
	if err != nil {
		return nil, err
	}

	newTotal := agg.TotalBesitos + amount
	if newTotal < 0 {
		return nil, derrors.Wrap(derrors.ErrInsufficientFunds,
			"balance %d cannot cover %d", agg.TotalBesitos, -amount)
	}

	agg.TotalBesitos = newTotal
	if amount > 0 {
		agg.BesitosEarned += amount
	} else {
		agg.BesitosSpent += -amount
	}

	levels, err := s.besitos.GetLevels(ctx)
	if err != nil {
		return nil, err
	}
	oldOrder := 0
	if agg.CurrentLevelID != nil {
		for _, lv := range levels {
			if lv.ID == *agg.CurrentLevelID {
				oldOrder = lv.Order
			}
		}
	}
	newLevel := CurrentLevel(levels, newTotal)
	leveledUp := false
	if newLevel != nil {
		if agg.CurrentLevelID == nil || *agg.CurrentLevelID != newLevel.ID {
			id := newLevel.ID
			agg.CurrentLevelID = &id
			leveledUp = newLevel.Order > oldOrder
		}
	}

	if err := s.besitos.Update(ctx, agg); err != nil {
		return nil, err
	}

	txn := &models.BesitoTransaction{
		UserID:       userID,
		Amount:       amount,
		Type:         txnType,
		Description:  description,
		ReferenceID:  referenceID,
		BalanceAfter: newTotal,
		CreatedAt:    time.Now(),
	}
	if err := s.besitos.InsertTransaction(ctx, txn); err != nil {
		return nil, err
	}

	if leveledUp {
		slog.Info("Level up",
			slog.String("type", "sys"),
			slog.Int64("user_id", userID),
			slog.String("level", newLevel.Name),
		)
	}

	return &LedgerResult{
		Txn:       txn,
		Balance:   newTotal,
		NewLevel:  newLevel,
		LeveledUp: leveledUp,
	}, nil
}

// CurrentLevel returns the highest level whose threshold the total meets.
// Levels must be ordered by level_order ASC.
func CurrentLevel(levels []*models.Level, total int64) *models.Level {
	var current *models.Level
	for _, lv := range levels {
		if lv.MinBesitos <= total {
			current = lv
		}
	}
	return current
}

func (s *LedgerService) Leaderboard(ctx context.Context, limit int) ([]*models.UserBesitos, error) {
	return s.besitos.GetTopBalances(ctx, limit)
}
