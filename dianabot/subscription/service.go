package subscription

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"time"

	"github.com/dianabot/dianabot/dianabot/database/models"
	"github.com/dianabot/dianabot/dianabot/database/repositories"
	"github.com/dianabot/dianabot/dianabot/derrors"
	"github.com/uptrace/bun"
)

const tokenLength = 16

const tokenAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Service owns VIP tokens and subscriber state.
type Service struct {
	subs  repositories.SubscriptionRepository
	users repositories.UserRepository
}

func NewService(db bun.IDB) *Service {
	return &Service{
		subs:  repositories.NewSubscriptionRepository(db),
		users: repositories.NewUserRepository(db),
	}
}

// GenerateToken mints an opaque invitation token bound to a plan. Only admins
// reach this path; the handler enforces the role.
func (s *Service) GenerateToken(ctx context.Context, generatedBy, planID int64, durationHours int) (*models.InvitationToken, error) {
	if durationHours <= 0 {
		return nil, derrors.Wrap(derrors.ErrInvalidInput, "duration must be positive, got %d", durationHours)
	}
	if _, err := s.subs.GetPlan(ctx, planID); err != nil {
		if repositories.IsNotFound(err) {
			return nil, derrors.Wrap(derrors.ErrNotFound, "plan %d does not exist", planID)
		}
		return nil, err
	}

	raw, err := randomToken(tokenLength)
	if err != nil {
		return nil, err
	}
	token := &models.InvitationToken{
		Token:         raw,
		GeneratedBy:   generatedBy,
		DurationHours: durationHours,
		PlanID:        &planID,
	}
	if err := s.subs.CreateToken(ctx, token); err != nil {
		return nil, err
	}
	slog.Info("Token generated",
		slog.String("type", "sys"),
		slog.Int64("plan_id", planID),
		slog.Int64("by", generatedBy),
	)
	return token, nil
}

// RedemptionResult carries everything the handler needs to confirm a redeem.
type RedemptionResult struct {
	Subscriber *models.VIPSubscriber
	Plan       *models.SubscriptionPlan
}

// Redeem consumes a token exactly once and creates or extends the user's VIP
// subscription. Must run inside the caller's transaction: the token row lock
// plus the used=false guard make concurrent redemptions resolve to one winner.
func (s *Service) Redeem(ctx context.Context, userID int64, rawToken string, now time.Time) (*RedemptionResult, error) {
	token, err := s.subs.GetTokenForUpdate(ctx, rawToken)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, derrors.Wrap(derrors.ErrTokenInvalid, "unknown token")
		}
		return nil, err
	}
	if token.Used {
		return nil, derrors.Wrap(derrors.ErrTokenInvalid, "token already used")
	}
	if !token.IsValid(now) {
		return nil, derrors.Wrap(derrors.ErrTokenExpired, "token expired at %s",
			token.CreatedAt.Add(time.Duration(token.DurationHours)*time.Hour).Format(time.RFC3339))
	}
	if token.PlanID == nil {
		// Legacy tokens without a plan are a configuration fault, not a user
		// error.
		return nil, derrors.Wrap(derrors.ErrNotConfigured, "token %d has no plan", token.ID)
	}

	plan, err := s.subs.GetPlan(ctx, *token.PlanID)
	if err != nil {
		return nil, err
	}

	if err := s.subs.MarkTokenUsed(ctx, token.ID, userID); err != nil {
		if repositories.IsConflict(err) {
			return nil, derrors.Wrap(derrors.ErrTokenInvalid, "token already used")
		}
		return nil, err
	}

	sub, err := s.extend(ctx, userID, plan.DurationDays, &token.ID, now)
	if err != nil {
		return nil, err
	}

	if err := s.promoteToVIP(ctx, userID); err != nil {
		return nil, err
	}

	slog.Info("Token redeemed",
		slog.String("type", "sys"),
		slog.Int64("user_id", userID),
		slog.String("plan", plan.Name),
	)
	return &RedemptionResult{Subscriber: sub, Plan: plan}, nil
}

// ExtendDays adds VIP days without a token, the VIP_DAYS reward path.
func (s *Service) ExtendDays(ctx context.Context, userID int64, days int, now time.Time) (*models.VIPSubscriber, error) {
	if days <= 0 {
		return nil, derrors.Wrap(derrors.ErrInvalidInput, "days must be positive, got %d", days)
	}
	sub, err := s.extend(ctx, userID, days, nil, now)
	if err != nil {
		return nil, err
	}
	if err := s.promoteToVIP(ctx, userID); err != nil {
		return nil, err
	}
	return sub, nil
}

// promoteToVIP never demotes admins.
func (s *Service) promoteToVIP(ctx context.Context, userID int64) error {
	user, err := s.users.GetByTelegramID(ctx, userID)
	if err == nil && user.IsAdmin() {
		return nil
	}
	return s.users.SetRole(ctx, userID, models.RoleVIP)
}

// extend pushes the expiry forward from max(now, current expiry), so stacking
// subscriptions never loses remaining days.
func (s *Service) extend(ctx context.Context, userID int64, days int, tokenID *int64, now time.Time) (*models.VIPSubscriber, error) {
	base := now
	existing, err := s.subs.GetSubscriber(ctx, userID)
	switch {
	case err == nil:
		if existing.ExpiryDate.After(base) {
			base = existing.ExpiryDate
		}
	case repositories.IsNotFound(err):
		existing = nil
	default:
		return nil, err
	}

	sub := &models.VIPSubscriber{
		UserID:     userID,
		JoinDate:   now,
		ExpiryDate: base.AddDate(0, 0, days),
		Status:     models.SubscriptionActive,
		TokenID:    tokenID,
	}
	if existing != nil {
		sub.ID = existing.ID
		sub.JoinDate = existing.JoinDate
		sub.CreatedAt = existing.CreatedAt
	}
	if err := s.subs.UpsertSubscriber(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// IsVIPActive is the single VIP predicate used by requirement checks.
func (s *Service) IsVIPActive(ctx context.Context, userID int64, now time.Time) (bool, error) {
	sub, err := s.subs.GetSubscriber(ctx, userID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return sub.IsActive(now), nil
}

// ExpiringWithin returns the active subscriber row when it expires inside the
// window, for renewal offers and risk scoring.
func (s *Service) ExpiringWithin(ctx context.Context, userID int64, window time.Duration, now time.Time) (*models.VIPSubscriber, error) {
	sub, err := s.subs.GetSubscriber(ctx, userID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if !sub.IsActive(now) {
		return nil, nil
	}
	if sub.ExpiryDate.After(now.Add(window)) {
		return nil, nil
	}
	return sub, nil
}

// FlipExpired demotes subscribers whose expiry passed: status to expired and
// role back to FREE. Run by the lifecycle job.
func (s *Service) FlipExpired(ctx context.Context, now time.Time) (int, error) {
	expired, err := s.subs.GetExpiredActive(ctx, now)
	if err != nil {
		return 0, err
	}
	for _, sub := range expired {
		if err := s.subs.SetStatus(ctx, sub.ID, models.SubscriptionExpired); err != nil {
			return 0, err
		}
		// Admins keep their role; promoteToVIP never touched it either.
		user, err := s.users.GetByTelegramID(ctx, sub.UserID)
		if err == nil && user.IsAdmin() {
			continue
		}
		if err := s.users.SetRole(ctx, sub.UserID, models.RoleFree); err != nil {
			return 0, err
		}
		slog.Info("VIP expired",
			slog.String("type", "sys"),
			slog.Int64("user_id", sub.UserID),
		)
	}
	return len(expired), nil
}

func (s *Service) Plans(ctx context.Context) ([]*models.SubscriptionPlan, error) {
	return s.subs.GetActivePlans(ctx)
}

func randomToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	for i, b := range buf {
		buf[i] = tokenAlphabet[int(b)%len(tokenAlphabet)]
	}
	return string(buf), nil
}
