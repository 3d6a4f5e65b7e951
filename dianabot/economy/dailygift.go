package economy

import (
	"context"
	"time"

	"github.com/dianabot/dianabot/dianabot/config"
	"github.com/dianabot/dianabot/dianabot/database/models"
	"github.com/dianabot/dianabot/dianabot/database/repositories"
	"github.com/dianabot/dianabot/dianabot/derrors"
	"github.com/uptrace/bun"
)

// DailyGiftService hands out the once-per-UTC-day gift. The idempotency guard
// is the presence of a DAILY_GIFT transaction since midnight, so the ledger
// itself is the source of truth.
type DailyGiftService struct {
	besitos repositories.BesitosRepository
	ledger  *LedgerService
	amount  int64
}

func NewDailyGiftService(db bun.IDB) *DailyGiftService {
	return &DailyGiftService{
		besitos: repositories.NewBesitosRepository(db),
		ledger:  NewLedgerService(db),
		amount:  config.DailyGiftAmount,
	}
}

func (s *DailyGiftService) Claim(ctx context.Context, userID int64, now time.Time) (*LedgerResult, error) {
	claimed, err := s.besitos.HasTransactionSince(ctx, userID, models.TxnDailyGift, utcMidnight(now))
	if err != nil {
		return nil, err
	}
	if claimed {
		return nil, derrors.Wrap(derrors.ErrLimitReached, "daily gift already claimed")
	}
	return s.ledger.Grant(ctx, userID, s.amount,
		models.TxnDailyGift, "Regalo diario", "daily_gift")
}

// ClaimedToday reports whether the gift is already taken, for menu rendering.
func (s *DailyGiftService) ClaimedToday(ctx context.Context, userID int64, now time.Time) (bool, error) {
	return s.besitos.HasTransactionSince(ctx, userID, models.TxnDailyGift, utcMidnight(now))
}
