package scheduler

import (
	"context"
	"time"

	"github.com/dianabot/dianabot/dianabot/database/models"
	"github.com/dianabot/dianabot/dianabot/database/repositories"
	"github.com/dianabot/dianabot/dianabot/lifecycle"
	"github.com/dianabot/dianabot/dianabot/logger"
	"github.com/dianabot/dianabot/dianabot/subscription"
	"github.com/dianabot/dianabot/dianabot/transport"
	"github.com/uptrace/bun"
)

// Jobs builds the full periodic job set over one database handle.
func Jobs(db *bun.DB, gateway transport.Gateway) []*Job {
	lifecycles := lifecycle.NewService(db)
	reengagement := lifecycle.NewReengagementService(db, gateway)
	risk := lifecycle.NewRiskScorer(db)
	subs := subscription.NewService(db)
	engagement := repositories.NewEngagementRepository(db)
	lcRepo := repositories.NewLifecycleRepository(db)

	return []*Job{
		Every("lifecycle_eval", time.Hour, func(ctx context.Context, now time.Time) error {
			changed, err := lifecycles.EvaluateAll(ctx, now)
			if err != nil {
				return err
			}
			flipped, err := subs.FlipExpired(ctx, now)
			if err != nil {
				return err
			}
			if changed > 0 || flipped > 0 {
				logger.LogSystem("Lifecycle sweep", "demoted", changed, "vip_expired", flipped)
			}
			return nil
		}),

		Every("reengagement", 6*time.Hour, func(ctx context.Context, now time.Time) error {
			sent, err := reengagement.SweepDue(ctx, now)
			if err != nil {
				return err
			}
			if sent > 0 {
				logger.LogSystem("Re-engagement sweep", "sent", sent)
			}
			return nil
		}),

		DailyAt("risk_scoring", 4, 0, func(ctx context.Context, now time.Time) error {
			scored, err := risk.ScoreAll(ctx, now)
			if err != nil {
				return err
			}
			logger.LogSystem("Risk scores recomputed", "users", scored)
			return nil
		}),

		// Archival only inventories for now; moving lost users to cold storage
		// is pending a retention decision.
		WeeklyAt("lost_archival", time.Sunday, 5, 0, func(ctx context.Context, now time.Time) error {
			lost, err := lcRepo.GetByState(ctx, models.StateLost)
			if err != nil {
				return err
			}
			logger.LogSystem("Lost users inventoried", "count", len(lost))
			return nil
		}),

		Every("cooldown_gc", time.Hour, func(ctx context.Context, now time.Time) error {
			deleted, err := engagement.DeleteExpiredCooldowns(ctx, now)
			if err != nil {
				return err
			}
			if deleted > 0 {
				logger.LogSystem("Cooldowns purged", "rows", deleted)
			}
			return nil
		}),

		DailyAt("daily_limit_reset", 0, 0, func(ctx context.Context, now time.Time) error {
			u := now.UTC()
			day := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
			reset, err := engagement.ResetDailyLimits(ctx, day)
			if err != nil {
				return err
			}
			if reset > 0 {
				logger.LogSystem("Daily budgets reset", "rows", reset)
			}
			return nil
		}),
	}
}
