package lifecycle

import (
	"context"
	"log/slog"
	"time"

	"github.com/dianabot/dianabot/dianabot/database/models"
	"github.com/dianabot/dianabot/dianabot/database/repositories"
	"github.com/uptrace/bun"
)

// Abandonment-risk weights. Components add up to at most 100.
const (
	riskInactivityPerDay = 2.5
	riskInactivityCap    = 25.0
	riskBrokenStreakCap  = 15.0
	riskAbandonedPerMiss = 5.0
	riskAbandonedCap     = 15.0
	riskDeclineCap       = 15.0
	riskVIPExpiring      = 15.0
	riskVIPExpiryWindow  = 5 * 24 * time.Hour
	riskNoOnboarding     = 10.0
	riskNoPurchases      = 5.0

	// A mission untouched this long counts as abandoned.
	missionStaleAge = 3 * 24 * time.Hour
)

// RiskBreakdown itemizes the score for operator inspection.
type RiskBreakdown struct {
	Inactivity        float64
	BrokenStreak      float64
	AbandonedMissions float64
	ActivityDecline   float64
	VIPExpiring       float64
	IncompleteOnboard float64
	NoPurchases       float64
}

func (b RiskBreakdown) Total() int {
	total := b.Inactivity + b.BrokenStreak + b.AbandonedMissions +
		b.ActivityDecline + b.VIPExpiring + b.IncompleteOnboard + b.NoPurchases
	if total < 0 {
		return 0
	}
	if total > 100 {
		return 100
	}
	return int(total)
}

// RiskScorer computes the 0-100 abandonment score from stored signals only.
type RiskScorer struct {
	lifecycles repositories.LifecycleRepository
	streaks    repositories.StreakRepository
	missions   repositories.MissionRepository
	shop       repositories.ShopRepository
	subs       repositories.SubscriptionRepository
	onboarding repositories.OnboardingRepository
	progress   repositories.ProgressRepository
}

func NewRiskScorer(db bun.IDB) *RiskScorer {
	return &RiskScorer{
		lifecycles: repositories.NewLifecycleRepository(db),
		streaks:    repositories.NewStreakRepository(db),
		missions:   repositories.NewMissionRepository(db),
		shop:       repositories.NewShopRepository(db),
		subs:       repositories.NewSubscriptionRepository(db),
		onboarding: repositories.NewOnboardingRepository(db),
		progress:   repositories.NewProgressRepository(db),
	}
}

func (s *RiskScorer) Score(ctx context.Context, lc *models.UserLifecycle, now time.Time) (RiskBreakdown, error) {
	var b RiskBreakdown
	userID := lc.UserID

	inactiveDays := now.Sub(lc.LastActivity).Hours() / 24
	b.Inactivity = capAt(inactiveDays*riskInactivityPerDay, riskInactivityCap)

	streak, err := s.streaks.GetOrCreate(ctx, userID)
	if err != nil {
		return b, err
	}
	if streak.LongestStreak >= 3 && streak.CurrentStreak == 0 {
		b.BrokenStreak = capAt(float64(streak.LongestStreak), riskBrokenStreakCap)
	}

	userMissions, err := s.missions.GetUserMissions(ctx, userID)
	if err != nil {
		return b, err
	}
	abandoned := 0
	for _, um := range userMissions {
		if um.Status == models.MissionInProgress && um.Progress > 0 &&
			now.Sub(um.UpdatedAt) >= missionStaleAge {
			abandoned++
		}
	}
	b.AbandonedMissions = capAt(float64(abandoned)*riskAbandonedPerMiss, riskAbandonedCap)

	recent, err := s.progress.CountDecisionsBetween(ctx, userID, now.AddDate(0, 0, -7), now)
	if err != nil {
		return b, err
	}
	prior, err := s.progress.CountDecisionsBetween(ctx, userID, now.AddDate(0, 0, -14), now.AddDate(0, 0, -7))
	if err != nil {
		return b, err
	}
	if prior > 0 && recent < prior {
		b.ActivityDecline = (1 - float64(recent)/float64(prior)) * riskDeclineCap
	}

	sub, err := s.subs.GetSubscriber(ctx, userID)
	if err != nil && !repositories.IsNotFound(err) {
		return b, err
	}
	if sub != nil && sub.IsActive(now) && sub.ExpiryDate.Sub(now) <= riskVIPExpiryWindow {
		b.VIPExpiring = riskVIPExpiring
	}

	onboard, err := s.onboarding.GetOrCreate(ctx, userID)
	if err != nil {
		return b, err
	}
	if !onboard.Completed {
		b.IncompleteOnboard = riskNoOnboarding
	}

	purchases, err := s.shop.CountPurchases(ctx, userID)
	if err != nil {
		return b, err
	}
	if purchases == 0 {
		b.NoPurchases = riskNoPurchases
	}

	return b, nil
}

// ScoreAll recomputes and stores the risk score for every non-lost user with
// any inactivity. Run daily.
func (s *RiskScorer) ScoreAll(ctx context.Context, now time.Time) (int, error) {
	candidates, err := s.lifecycles.GetInactiveSince(ctx, now)
	if err != nil {
		return 0, err
	}

	scored := 0
	for _, lc := range candidates {
		breakdown, err := s.Score(ctx, lc, now)
		if err != nil {
			slog.Error("Risk scoring failed",
				slog.String("type", "error"),
				slog.Int64("user_id", lc.UserID),
				slog.String("error", err.Error()),
			)
			continue
		}
		lc.RiskScore = breakdown.Total()
		if err := s.lifecycles.Update(ctx, lc); err != nil {
			return scored, err
		}
		scored++
	}
	return scored, nil
}

func capAt(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	if v < 0 {
		return 0
	}
	return v
}
