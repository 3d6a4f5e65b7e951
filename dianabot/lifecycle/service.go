package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dianabot/dianabot/dianabot/config"
	"github.com/dianabot/dianabot/dianabot/database/models"
	"github.com/dianabot/dianabot/dianabot/database/repositories"
	"github.com/dianabot/dianabot/dianabot/economy"
	"github.com/uptrace/bun"
)

// Service tracks where each user sits in the activity lifecycle and hands out
// the welcome-back bonus when someone returns from a lapsed state.
type Service struct {
	lifecycles repositories.LifecycleRepository
	ledger     *economy.LedgerService
	streaks    *economy.StreakService
}

func NewService(db bun.IDB) *Service {
	return &Service{
		lifecycles: repositories.NewLifecycleRepository(db),
		ledger:     economy.NewLedgerService(db),
		streaks:    economy.NewStreakService(db),
	}
}

// StateFor derives the lifecycle state from inactivity alone. Account age only
// matters for keeping fresh users in "new" until their first week passes.
func StateFor(inactive, accountAge time.Duration) string {
	switch {
	case inactive > config.DormantMaxInactive:
		return models.StateLost
	case inactive > config.AtRiskMaxInactive:
		return models.StateDormant
	case inactive > config.ActiveMaxInactive:
		return models.StateAtRisk
	case accountAge < config.NewAccountMaxAge:
		return models.StateNew
	default:
		return models.StateActive
	}
}

// WelcomeBackBonus returns the besitos owed for returning from the given
// state, zero for states that never lapsed.
func WelcomeBackBonus(state string) int64 {
	switch state {
	case models.StateAtRisk:
		return config.WelcomeBackAtRisk
	case models.StateDormant:
		return config.WelcomeBackDormant
	case models.StateLost:
		return config.WelcomeBackLost
	default:
		return 0
	}
}

// ActivityResult reports what a RecordActivity call changed.
type ActivityResult struct {
	PreviousState string
	WelcomeBonus  int64
	LeveledUp     bool
	NewLevel      *models.Level
}

// RecordActivity marks the user active now. A return from at_risk, dormant or
// lost pays the welcome-back bonus exactly once per lapse: the state flips to
// active in the same transaction, so a second event sees no lapsed state.
func (s *Service) RecordActivity(ctx context.Context, userID int64, now time.Time) (*ActivityResult, error) {
	lc, err := s.lifecycles.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &ActivityResult{PreviousState: lc.CurrentState}

	if bonus := WelcomeBackBonus(lc.CurrentState); bonus > 0 {
		ref := fmt.Sprintf("welcome_back:%d:%d", userID, lc.StateChangedAt.Unix())
		ledgerRes, err := s.ledger.Grant(ctx, userID, bonus,
			models.TxnWelcomeBack, "Bono de bienvenida", ref)
		if err != nil {
			return nil, err
		}
		result.WelcomeBonus = bonus
		result.LeveledUp = ledgerRes.LeveledUp
		result.NewLevel = ledgerRes.NewLevel
		// The return answers any outstanding re-engagement message.
		if err := s.lifecycles.MarkResponded(ctx, userID, now); err != nil {
			return nil, err
		}
		slog.Info("Welcome back",
			slog.String("type", "sys"),
			slog.Int64("user_id", userID),
			slog.String("from_state", lc.CurrentState),
			slog.Int64("bonus", bonus),
		)
	}

	if lc.CurrentState != models.StateActive && lc.CurrentState != models.StateNew {
		lc.CurrentState = models.StateActive
		lc.StateChangedAt = now
		lc.MessagesSentCount = 0
	} else if lc.CurrentState == models.StateNew && now.Sub(lc.StateChangedAt) >= config.NewAccountMaxAge {
		lc.CurrentState = models.StateActive
		lc.StateChangedAt = now
	}
	lc.LastActivity = now
	if err := s.lifecycles.Update(ctx, lc); err != nil {
		return nil, err
	}

	if _, _, err := s.streaks.Touch(ctx, userID, now); err != nil {
		return nil, err
	}
	return result, nil
}

// Get returns the lifecycle row, creating it for first-time users.
func (s *Service) Get(ctx context.Context, userID int64) (*models.UserLifecycle, error) {
	return s.lifecycles.GetOrCreate(ctx, userID)
}

// SetDoNotDisturb flips the hard opt-out.
func (s *Service) SetDoNotDisturb(ctx context.Context, userID int64, dnd bool) error {
	lc, err := s.lifecycles.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}
	lc.DoNotDisturb = dnd
	return s.lifecycles.Update(ctx, lc)
}

// EvaluateAll demotes every user whose inactivity crossed a threshold. Run
// hourly; promotions only ever happen through RecordActivity.
func (s *Service) EvaluateAll(ctx context.Context, now time.Time) (int, error) {
	cutoff := now.Add(-config.ActiveMaxInactive)
	candidates, err := s.lifecycles.GetInactiveSince(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	changed := 0
	for _, lc := range candidates {
		inactive := now.Sub(lc.LastActivity)
		next := StateFor(inactive, now.Sub(lc.StateChangedAt))
		if next == lc.CurrentState || next == models.StateNew || next == models.StateActive {
			continue
		}
		lc.CurrentState = next
		lc.StateChangedAt = now
		if err := s.lifecycles.Update(ctx, lc); err != nil {
			return changed, err
		}
		changed++
		slog.Debug("Lifecycle state changed",
			slog.String("type", "sys"),
			slog.Int64("user_id", lc.UserID),
			slog.String("state", next),
		)
	}
	return changed, nil
}
